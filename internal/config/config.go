// Package config loads and validates environment-based configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"stationdir/internal/stations"
	"stationdir/pkg/feed"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	Port int

	// Feed source and column names.
	FeedURL       string
	FeedNameField string
	FeedLatField  string
	FeedLonField  string
	FeedTimeout   time.Duration
	FeedMaxBytes  int64
	FeedGzip      bool

	RequestTimeout time.Duration

	// Fallback map center; nil means location is unavailable.
	LocationLat *float64
	LocationLon *float64

	MapCacheSize int
}

// Load reads and validates environment variables.
// Returns a ConfigError for any invalid value.
func Load() (*Config, error) {
	cfg := &Config{
		FeedURL:       envOr("FEED_URL", feed.DefaultURL),
		FeedNameField: envOr("FEED_NAME_FIELD", feed.DefaultNameField),
		FeedLatField:  envOr("FEED_LAT_FIELD", feed.DefaultLatField),
		FeedLonField:  envOr("FEED_LON_FIELD", feed.DefaultLonField),
	}

	var err error
	if cfg.FeedTimeout, err = parseDurationEnv("FEED_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = parseDurationEnv("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.Port, err = parseIntEnv("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, &ConfigError{Field: "PORT", Message: "must be between 1 and 65535"}
	}

	maxBytes, err := parseIntEnv("FEED_MAX_BYTES", feed.DefaultMaxBytes)
	if err != nil {
		return nil, err
	}
	cfg.FeedMaxBytes = int64(maxBytes)

	if cfg.MapCacheSize, err = parseIntEnv("MAP_CACHE_SIZE", 64); err != nil {
		return nil, err
	}

	cfg.FeedGzip = true
	if raw := os.Getenv("FEED_GZIP"); raw != "" {
		if cfg.FeedGzip, err = strconv.ParseBool(raw); err != nil {
			return nil, &ConfigError{Field: "FEED_GZIP", Message: "must be a boolean"}
		}
	}

	if cfg.LocationLat, err = parseCoordinateEnv("LOCATION_LAT"); err != nil {
		return nil, err
	}
	if cfg.LocationLon, err = parseCoordinateEnv("LOCATION_LON"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate re-checks fields on an already-constructed Config.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, &ConfigError{Field: "PORT", Message: "must be between 1 and 65535"})
	}
	if c.FeedURL == "" {
		errs = append(errs, &ConfigError{Field: "FEED_URL", Message: "cannot be empty"})
	}
	if c.FeedNameField == "" || c.FeedLatField == "" || c.FeedLonField == "" {
		errs = append(errs, &ConfigError{Field: "FEED_*_FIELD", Message: "cannot be empty"})
	}
	if c.FeedTimeout <= 0 {
		errs = append(errs, &ConfigError{Field: "FEED_TIMEOUT", Message: "must be positive"})
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, &ConfigError{Field: "REQUEST_TIMEOUT", Message: "must be positive"})
	}
	if c.FeedMaxBytes <= 0 {
		errs = append(errs, &ConfigError{Field: "FEED_MAX_BYTES", Message: "must be positive"})
	}
	if c.MapCacheSize <= 0 {
		errs = append(errs, &ConfigError{Field: "MAP_CACHE_SIZE", Message: "must be positive"})
	}
	if (c.LocationLat == nil) != (c.LocationLon == nil) {
		errs = append(errs, &ConfigError{Field: "LOCATION_LAT", Message: "LOCATION_LAT and LOCATION_LON must be set together"})
	}
	return errors.Join(errs...)
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: "must be a valid integer"}
	}
	return v, nil
}

// parseCoordinateEnv returns nil when the variable is unset.
func parseCoordinateEnv(key string) (*float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return nil, nil
	}
	v, ok := stations.ParseCoordinate(raw)
	if !ok {
		return nil, &ConfigError{Field: key, Message: "must be a decimal number"}
	}
	return &v, nil
}

// parseDurationEnv reads a duration from an environment variable, or
// defaultVal if it is unset. Accepts Go duration strings like "10s", "1m".
func parseDurationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ConfigError{Field: key, Message: "must be a duration such as 10s"}
	}
	return d, nil
}
