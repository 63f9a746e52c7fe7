// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

/*
Package config provides centralized configuration management for Vianda.

Configuration is loaded in three layers with increasing precedence:

  - Built-in defaults, including the survey indicator catalog
  - An optional YAML config file (CONFIG_PATH or the default search paths)
  - VIANDA_-prefixed environment variables

# Configuration Structure

Settings are organized into logical groups:

  - ServerConfig: HTTP server bind address, port, and timeouts
  - SourceConfig: where survey responses are loaded from (file or HTTP)
  - RefreshConfig: snapshot reload cadence and manual trigger throttling
  - CacheConfig: computed-results cache TTL and cleanup
  - SecurityConfig: auth mode, JWT secret, rate limits, CORS
  - AnalysisConfig: problem thresholds, trend window, ranking size
  - SchemaConfig: source column mappings for the survey sheet
  - DimensionConfig: the indicator catalog per quality dimension
  - LoggingConfig: zerolog level and format

# Indicator Catalog

The catalog defaults to the seventeen boolean questions of the VERCOAL
delivery verification survey, grouped into four dimensions (accessibility,
compliance, vehicle, attitudes). Deployments tracking different questions
override the catalog via the config file; it is intentionally not
expressible through environment variables.

# Environment Variables

Scalar settings map to VIANDA_-prefixed variables, for example:

  - VIANDA_HTTP_PORT: listen port (default: 8642)
  - VIANDA_SOURCE_TYPE: file or http (default: file)
  - VIANDA_SOURCE_URL: sheet export endpoint for the http source
  - VIANDA_REFRESH_INTERVAL: background reload interval (default: 10m)
  - VIANDA_AUTH_MODE: none or token (default: none)
  - VIANDA_LOG_LEVEL: trace, debug, info, warn, error (default: info)

See the koanf loader in this package for the full mapping table.
*/
package config
