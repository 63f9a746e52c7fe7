// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSource(); err != nil {
		return err
	}

	if err := c.validateRefresh(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateAnalysis(); err != nil {
		return err
	}

	if err := c.validateSchema(); err != nil {
		return err
	}

	if err := c.validateDimensions(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("VIANDA_HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

// validSourceTypes defines the supported data source kinds
var validSourceTypes = map[string]bool{
	"file": true,
	"http": true,
}

// validateSource validates the data source configuration
func (c *Config) validateSource() error {
	if !validSourceTypes[c.Source.Type] {
		return fmt.Errorf("VIANDA_SOURCE_TYPE must be one of: file, http")
	}

	switch c.Source.Type {
	case "file":
		if c.Source.Path == "" {
			return fmt.Errorf("VIANDA_SOURCE_PATH is required when VIANDA_SOURCE_TYPE=file")
		}
	case "http":
		if c.Source.URL == "" {
			return fmt.Errorf("VIANDA_SOURCE_URL is required when VIANDA_SOURCE_TYPE=http")
		}
		if err := validateSourceURL(c.Source.URL); err != nil {
			return fmt.Errorf("VIANDA_SOURCE_URL is invalid: %w", err)
		}
	}

	if c.Source.Timeout <= 0 {
		return fmt.Errorf("VIANDA_SOURCE_TIMEOUT must be positive")
	}
	return nil
}

// validateRefresh validates snapshot refresh configuration
func (c *Config) validateRefresh() error {
	if c.Refresh.Interval < 0 {
		return fmt.Errorf("VIANDA_REFRESH_INTERVAL must not be negative (0 disables periodic refresh)")
	}
	if c.Refresh.MinTriggerInterval < 0 {
		return fmt.Errorf("VIANDA_REFRESH_MIN_INTERVAL must not be negative")
	}
	return nil
}

// validAuthModes defines the supported authentication modes
var validAuthModes = map[string]bool{
	"none":  true,
	"token": true,
}

// Minimum JWT secret length in token mode. Shorter secrets make HS256
// signatures brute-forceable.
const minJWTSecretLength = 32

// validateSecurity validates authentication and rate limiting configuration
func (c *Config) validateSecurity() error {
	if !validAuthModes[c.Security.AuthMode] {
		return fmt.Errorf("VIANDA_AUTH_MODE must be one of: none, token")
	}

	if c.Security.AuthMode == "token" {
		if err := c.validateJWTSecret(); err != nil {
			return err
		}
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	return c.validateRateLimits()
}

// validateJWTSecret validates the JWT signing secret for token auth mode
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("VIANDA_JWT_SECRET is required when VIANDA_AUTH_MODE=token")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("VIANDA_JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("VIANDA_JWT_SECRET contains a placeholder value, set a real secret")
	}
	return nil
}

// validateCORS rejects wildcard CORS in production when authentication is
// enabled. Wildcard origins plus credentials lets any site replay stolen
// tokens against the API.
func (c *Config) validateCORS() error {
	if c.Security.AuthMode != "none" && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("VIANDA_CORS_ORIGINS=* (wildcard) is not allowed in production with authentication enabled. " +
			"Set specific origins: VIANDA_CORS_ORIGINS=https://dashboard.example.org " +
			"or use VIANDA_ENVIRONMENT=development for testing")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security
// concerns that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != "none" && c.hasWildcardCORS()
}

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("VIANDA_RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("VIANDA_RATE_LIMIT_WINDOW must be between %s and %s", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateAnalysis validates metric thresholds and windows
func (c *Config) validateAnalysis() error {
	if c.Analysis.CriticalThreshold < 0 || c.Analysis.CriticalThreshold > 100 {
		return fmt.Errorf("VIANDA_CRITICAL_THRESHOLD must be between 0 and 100")
	}
	if c.Analysis.AlertThreshold < 0 || c.Analysis.AlertThreshold > 100 {
		return fmt.Errorf("VIANDA_ALERT_THRESHOLD must be between 0 and 100")
	}
	if c.Analysis.CriticalThreshold > c.Analysis.AlertThreshold {
		return fmt.Errorf("VIANDA_CRITICAL_THRESHOLD must not exceed VIANDA_ALERT_THRESHOLD")
	}
	if c.Analysis.TrendMonths < 1 {
		return fmt.Errorf("VIANDA_TREND_MONTHS must be at least 1")
	}
	if c.Analysis.StableBandPct < 0 {
		return fmt.Errorf("VIANDA_STABLE_BAND_PCT must not be negative")
	}
	if c.Analysis.RankingSize < 1 {
		return fmt.Errorf("VIANDA_RANKING_SIZE must be at least 1")
	}
	return nil
}

// validateSchema validates the source column mapping
func (c *Config) validateSchema() error {
	if c.Schema.DateColumn == "" {
		return fmt.Errorf("schema.date_column must not be empty")
	}
	if len(c.Schema.DateFormats) == 0 {
		return fmt.Errorf("schema.date_formats must list at least one format")
	}
	for key, col := range c.Schema.LabelColumns {
		if key == "" || col == "" {
			return fmt.Errorf("schema.label_columns entries must have non-empty keys and columns")
		}
	}
	for key, col := range c.Schema.AmountColumns {
		if key == "" || col == "" {
			return fmt.Errorf("schema.amount_columns entries must have non-empty keys and columns")
		}
	}
	return nil
}

// validateDimensions validates the indicator catalog
func (c *Config) validateDimensions() error {
	if len(c.Dimensions) == 0 {
		return fmt.Errorf("dimensions must define at least one dimension")
	}

	dimKeys := make(map[string]bool, len(c.Dimensions))
	indKeys := make(map[string]string)
	indCols := make(map[string]string)

	for i := range c.Dimensions {
		dim := &c.Dimensions[i]
		if dim.Key == "" {
			return fmt.Errorf("dimensions[%d].key must not be empty", i)
		}
		if dimKeys[dim.Key] {
			return fmt.Errorf("duplicate dimension key %q", dim.Key)
		}
		dimKeys[dim.Key] = true

		if len(dim.Indicators) == 0 {
			return fmt.Errorf("dimension %q must define at least one indicator", dim.Key)
		}

		for j := range dim.Indicators {
			ind := &dim.Indicators[j]
			if ind.Key == "" || ind.Column == "" {
				return fmt.Errorf("dimension %q indicator %d must have key and column", dim.Key, j)
			}
			if prev, ok := indKeys[ind.Key]; ok {
				return fmt.Errorf("indicator key %q appears in dimensions %q and %q", ind.Key, prev, dim.Key)
			}
			indKeys[ind.Key] = dim.Key
			if prev, ok := indCols[ind.Column]; ok {
				return fmt.Errorf("source column %q is mapped by indicators %q and %q", ind.Column, prev, ind.Key)
			}
			indCols[ind.Column] = ind.Key
			if ind.Weight <= 0 {
				return fmt.Errorf("indicator %q weight must be positive", ind.Key)
			}
		}
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("VIANDA_LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("VIANDA_LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns.
// This prevents accidental deployment with insecure default credentials.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
