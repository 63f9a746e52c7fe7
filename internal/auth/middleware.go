// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/logging"
	"github.com/calderonm/vianda/internal/models"
)

type contextKey string

// ClaimsContextKey is where RequireAuth stores the validated claims.
const ClaimsContextKey contextKey = "claims"

// Middleware enforces the configured auth mode on API routes.
type Middleware struct {
	jwtManager *JWTManager
	mode       string
}

// NewMiddleware builds the auth middleware. In token mode the JWT
// manager is constructed eagerly so secret problems fail start-up.
func NewMiddleware(cfg config.SecurityConfig) (*Middleware, error) {
	switch cfg.AuthMode {
	case "", ModeNone:
		return &Middleware{mode: ModeNone}, nil
	case ModeToken:
		manager, err := NewJWTManager(cfg)
		if err != nil {
			return nil, err
		}
		return &Middleware{mode: ModeToken, jwtManager: manager}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

// Mode reports the active auth mode.
func (m *Middleware) Mode() string {
	return m.mode
}

// RequireAuth gates a route on a valid bearer token. In none mode it
// passes everything through untouched.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.mode == ModeNone {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r)
		if err != nil {
			AuthChecks.WithLabelValues(OutcomeMissingToken).Inc()
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			AuthChecks.WithLabelValues(OutcomeInvalidToken).Inc()
			logging.Warn().Err(err).Str("path", r.URL.Path).Msg("token validation failed")
			unauthorized(w, "invalid or expired token")
			return
		}

		AuthChecks.WithLabelValues(OutcomeAllowed).Inc()
		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims RequireAuth attached, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

// extractBearerToken pulls the token from the Authorization header,
// falling back to the token cookie. The cookie path exists because the
// browser WebSocket API cannot set request headers.
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil {
			return "", fmt.Errorf("missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="vianda"`)
	w.WriteHeader(http.StatusUnauthorized)

	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    "AUTHENTICATION_ERROR",
			Message: message,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("failed to encode auth error response")
	}
}
