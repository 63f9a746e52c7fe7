// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vianda/config.yaml",
	"/etc/vianda/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values. These are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8642,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Source: SourceConfig{
			Type:    "file",
			Path:    "/data/vercoal.csv",
			URL:     "",
			Timeout: 30 * time.Second,
		},
		Refresh: RefreshConfig{
			Interval:           10 * time.Minute,
			OnStartup:          true,
			MinTriggerInterval: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			AuthMode:          "none",
			JWTSecret:         "",
			TokenTTL:          24 * time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
		},
		API: APIConfig{
			MaxFilterValues: 50,
			RequestTimeout:  15 * time.Second,
		},
		Analysis: AnalysisConfig{
			CriticalThreshold: 70,
			AlertThreshold:    80,
			TrendMonths:       3,
			StableBandPct:     5,
			RankingSize:       3,
		},
		Schema:     defaultSchema(),
		Dimensions: defaultDimensions(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values including the survey indicator catalog
//  2. Config file: optional YAML file (if exists)
//  3. Environment variables: override any scalar setting
//
// Precedence is ENV > File > Defaults. The indicator catalog and schema
// mappings are only overridable via the config file; there is no sane way
// to express them as flat env vars.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// VIANDA_SOURCE_URL -> source.url
	// VIANDA_RATE_LIMIT_REQUESTS -> security.rate_limit_reqs
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
	"schema.date_formats",
}

// processSliceFields converts comma-separated string values to slices for known
// slice fields. Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Only explicitly mapped variables are honored.
//
// Examples:
//   - VIANDA_SOURCE_URL -> source.url
//   - VIANDA_LOG_LEVEL -> logging.level
//   - VIANDA_HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// HTTP server
		"vianda_http_host":    "server.host",
		"vianda_http_port":    "server.port",
		"vianda_http_timeout": "server.timeout",
		"vianda_environment":  "server.environment",

		// Data source
		"vianda_source_type":    "source.type",
		"vianda_source_path":    "source.path",
		"vianda_source_url":     "source.url",
		"vianda_source_timeout": "source.timeout",

		// Snapshot refresh
		"vianda_refresh_interval":     "refresh.interval",
		"vianda_refresh_on_startup":   "refresh.on_startup",
		"vianda_refresh_min_interval": "refresh.min_trigger_interval",

		// Results cache
		"vianda_cache_enabled":          "cache.enabled",
		"vianda_cache_ttl":              "cache.ttl",
		"vianda_cache_cleanup_interval": "cache.cleanup_interval",

		// Security
		"vianda_auth_mode":           "security.auth_mode",
		"vianda_jwt_secret":          "security.jwt_secret",
		"vianda_token_ttl":           "security.token_ttl",
		"vianda_rate_limit_requests": "security.rate_limit_reqs",
		"vianda_rate_limit_window":   "security.rate_limit_window",
		"vianda_rate_limit_disabled": "security.rate_limit_disabled",
		"vianda_cors_origins":        "security.cors_origins",
		"vianda_trusted_proxies":     "security.trusted_proxies",

		// API limits
		"vianda_max_filter_values": "api.max_filter_values",
		"vianda_request_timeout":   "api.request_timeout",

		// Analysis thresholds
		"vianda_critical_threshold": "analysis.critical_threshold",
		"vianda_alert_threshold":    "analysis.alert_threshold",
		"vianda_trend_months":       "analysis.trend_months",
		"vianda_stable_band_pct":    "analysis.stable_band_pct",
		"vianda_ranking_size":       "analysis.ranking_size",

		// Schema
		"vianda_date_column":  "schema.date_column",
		"vianda_date_formats": "schema.date_formats",

		// Logging
		"vianda_log_level":  "logging.level",
		"vianda_log_format": "logging.format",
		"vianda_log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables
	// cannot pollute the config.
	return ""
}

// GetKoanfInstance returns a new Koanf instance for advanced usage such as
// testing with mock configuration sources.
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for mutex protection when swapping
// configuration during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
