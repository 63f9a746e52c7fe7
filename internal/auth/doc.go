// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

/*
Package auth gates the API behind an optional shared-secret bearer token.

Two modes, picked by security.auth_mode:

  - none (default): every request passes. The dashboard usually runs on
    the program coordinator's own machine, so this is the common case.
  - token: requests need a valid HS256 bearer token signed with the
    configured secret. Tokens are minted out of band with the server's
    -issue-token flag; there is no login endpoint and there are no
    roles or sessions.

RequireAuth is standard chi-style middleware. It reads the token from
the Authorization header, or from the token cookie for browser
WebSocket connections, which cannot set headers. Failures answer 401
with the usual response envelope and an AUTHENTICATION_ERROR code.

Validated claims land in the request context; handlers that care who
triggered an action (the manual refresh endpoint logs it) read them
back with ClaimsFromContext.
*/
package auth
