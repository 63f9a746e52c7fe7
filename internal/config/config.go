// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package config

import (
	"time"
)

// Config holds all runtime configuration for Vianda, grouped by component.
type Config struct {
	Server     ServerConfig      `koanf:"server"`
	Source     SourceConfig      `koanf:"source"`
	Refresh    RefreshConfig     `koanf:"refresh"`
	Cache      CacheConfig       `koanf:"cache"`
	Security   SecurityConfig    `koanf:"security"`
	API        APIConfig         `koanf:"api"`
	Analysis   AnalysisConfig    `koanf:"analysis"`
	Schema     SchemaConfig      `koanf:"schema"`
	Dimensions []DimensionConfig `koanf:"dimensions"`
	Logging    LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// SourceConfig describes where survey responses are loaded from.
//
// Environment Variables:
//   - VIANDA_SOURCE_TYPE: "file" or "http" (default: file)
//   - VIANDA_SOURCE_PATH: CSV file path for the file source
//   - VIANDA_SOURCE_URL: endpoint serving the exported sheet for the http source
//   - VIANDA_SOURCE_TIMEOUT: per-load deadline; an expired load reports the
//     source as unavailable rather than blocking callers (default: 30s)
type SourceConfig struct {
	Type    string        `koanf:"type"`
	Path    string        `koanf:"path"`
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// RefreshConfig controls how snapshots are reloaded.
type RefreshConfig struct {
	// Interval between background reloads. Zero disables periodic refresh;
	// manual refresh via the API remains available.
	Interval time.Duration `koanf:"interval"`

	// OnStartup loads an initial snapshot before the server accepts traffic.
	OnStartup bool `koanf:"on_startup"`

	// MinTriggerInterval throttles manual refresh requests. A trigger that
	// arrives earlier than this after the previous load is rejected.
	MinTriggerInterval time.Duration `koanf:"min_trigger_interval"`
}

// CacheConfig holds the computed-results cache settings.
type CacheConfig struct {
	Enabled         bool          `koanf:"enabled"`
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// SecurityConfig holds authentication and rate limiting settings.
//
// Environment Variables:
//   - VIANDA_AUTH_MODE: "none" or "token" (default: none)
//   - VIANDA_JWT_SECRET: HMAC signing secret (min 32 chars, required for token mode)
//   - VIANDA_TOKEN_TTL: issued token lifetime (default: 24h)
//   - VIANDA_RATE_LIMIT_REQUESTS / VIANDA_RATE_LIMIT_WINDOW: API rate limit
//   - VIANDA_CORS_ORIGINS: comma-separated allowed origins
//   - VIANDA_TRUSTED_PROXIES: comma-separated proxy IPs for client IP resolution
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// APIConfig holds request handling limits.
type APIConfig struct {
	// MaxFilterValues caps the number of values accepted per filter
	// dimension in a single request.
	MaxFilterValues int `koanf:"max_filter_values"`

	// RequestTimeout bounds handler execution, including metric computation.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// AnalysisConfig holds thresholds and windows used by the metrics engine.
//
// Environment Variables:
//   - VIANDA_CRITICAL_THRESHOLD: score below which an indicator is critical (default: 70)
//   - VIANDA_ALERT_THRESHOLD: score below which an indicator is an alert (default: 80)
//   - VIANDA_TREND_MONTHS: months included in trend analysis (default: 3)
//   - VIANDA_STABLE_BAND_PCT: relative change treated as stable (default: 5)
//   - VIANDA_RANKING_SIZE: entries in best/worst rankings (default: 3)
type AnalysisConfig struct {
	CriticalThreshold float64 `koanf:"critical_threshold"`
	AlertThreshold    float64 `koanf:"alert_threshold"`
	TrendMonths       int     `koanf:"trend_months"`
	StableBandPct     float64 `koanf:"stable_band_pct"`
	RankingSize       int     `koanf:"ranking_size"`
}

// SchemaConfig maps source sheet columns to record fields. The sheet is
// maintained by field teams in Spanish; these mappings isolate the rest of
// the system from the exact column headers.
type SchemaConfig struct {
	// DateColumn names the visit date column. Rows without a parseable
	// date are skipped and counted.
	DateColumn string `koanf:"date_column"`

	// DateFormats are tried in order when parsing DateColumn values.
	DateFormats []string `koanf:"date_formats"`

	// LabelColumns maps label keys (site, route, ...) to source columns.
	LabelColumns map[string]string `koanf:"label_columns"`

	// AmountColumns maps amount keys (transfer_cost, support_cost) to
	// source columns holding monetary values.
	AmountColumns map[string]string `koanf:"amount_columns"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - VIANDA_LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - VIANDA_LOG_FORMAT: json, console (default: json)
//   - VIANDA_LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DimensionConfig defines one service quality dimension and the survey
// indicators that feed its composite score.
type DimensionConfig struct {
	// Key identifies the dimension in API paths and cache keys.
	Key string `koanf:"key"`

	// Label is the display name shown to dashboard users.
	Label string `koanf:"label"`

	Indicators []IndicatorConfig `koanf:"indicators"`
}

// IndicatorConfig defines one boolean survey question within a dimension.
type IndicatorConfig struct {
	// Key identifies the indicator in API responses.
	Key string `koanf:"key"`

	// Column is the source sheet column holding the answer.
	Column string `koanf:"column"`

	// Label is the display name. For inverted indicators the engine
	// presents "Ausencia de " + Label, since the favorable outcome is
	// the answer being absent.
	Label string `koanf:"label"`

	// Weight is this indicator's share of the dimension composite.
	// Weights within a dimension are normalized over the indicators
	// that have at least one answered row.
	Weight float64 `koanf:"weight"`

	// Invert marks questions where "yes" is unfavorable. The reported
	// score is 100 minus the yes-rate.
	Invert bool `koanf:"invert"`
}

// Load reads configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Dimension returns the dimension config for key, or nil when unknown.
func (c *Config) Dimension(key string) *DimensionConfig {
	for i := range c.Dimensions {
		if c.Dimensions[i].Key == key {
			return &c.Dimensions[i]
		}
	}
	return nil
}

// DimensionKeys returns the configured dimension keys in declaration order.
func (c *Config) DimensionKeys() []string {
	keys := make([]string, 0, len(c.Dimensions))
	for i := range c.Dimensions {
		keys = append(keys, c.Dimensions[i].Key)
	}
	return keys
}

// Indicator looks up an indicator by key across all dimensions. It returns
// the owning dimension and the indicator, or nil when unknown.
func (c *Config) Indicator(key string) (*DimensionConfig, *IndicatorConfig) {
	for i := range c.Dimensions {
		dim := &c.Dimensions[i]
		for j := range dim.Indicators {
			if dim.Indicators[j].Key == key {
				return dim, &dim.Indicators[j]
			}
		}
	}
	return nil, nil
}

// BooleanColumns returns every source column configured as a boolean
// indicator, in dimension declaration order.
func (c *Config) BooleanColumns() []string {
	var cols []string
	for i := range c.Dimensions {
		for j := range c.Dimensions[i].Indicators {
			cols = append(cols, c.Dimensions[i].Indicators[j].Column)
		}
	}
	return cols
}
