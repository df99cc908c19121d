package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingDatabaseURL = errors.New("FUELDESK_DATABASE_URL is required")
	ErrMissingServiceKey  = errors.New("FUELDESK_SERVICE_KEY is required")
	ErrShortServiceKey    = errors.New("FUELDESK_SERVICE_KEY must be at least 32 bytes")
)

type Config struct {
	Port                      string        `yaml:"port"`
	DatabaseURL               string        `yaml:"database_url"`
	ServiceKey                string        `yaml:"service_key"`
	LogLevel                  string        `yaml:"log_level"`
	ProbeTimeout              time.Duration `yaml:"probe_timeout"`
	TokenTTL                  time.Duration `yaml:"token_ttl"`
	NotificationTTL           time.Duration `yaml:"notification_ttl"`
	RateLimitPerMinute        int           `yaml:"rate_limit_per_min"`
	RateLimitBurst            int           `yaml:"rate_limit_burst"`
	StationRateLimitPerMinute int           `yaml:"station_rate_limit_per_min"`
	StationRateLimitBurst     int           `yaml:"station_rate_limit_burst"`
	OTLPEndpoint              string        `yaml:"otlp_endpoint"`
	OTLPInsecure              bool          `yaml:"otlp_insecure"`
}

func defaults() Config {
	return Config{
		Port:                      "8080",
		LogLevel:                  "info",
		ProbeTimeout:              5 * time.Second,
		TokenTTL:                  12 * time.Hour,
		NotificationTTL:           2 * time.Minute,
		RateLimitPerMinute:        120,
		RateLimitBurst:            30,
		StationRateLimitPerMinute: 300,
		StationRateLimitBurst:     60,
	}
}

// Load reads the optional YAML file named by FUELDESK_CONFIG, applies
// environment overrides and validates the result. Missing required settings
// are an error; the service does not start half-configured.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("FUELDESK_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Port = readString("FUELDESK_PORT", cfg.Port)
	cfg.DatabaseURL = readString("FUELDESK_DATABASE_URL", cfg.DatabaseURL)
	cfg.ServiceKey = readString("FUELDESK_SERVICE_KEY", cfg.ServiceKey)
	cfg.LogLevel = readString("FUELDESK_LOG_LEVEL", cfg.LogLevel)
	cfg.ProbeTimeout = readDuration("FUELDESK_PROBE_TIMEOUT", cfg.ProbeTimeout)
	cfg.TokenTTL = readDuration("FUELDESK_TOKEN_TTL", cfg.TokenTTL)
	cfg.NotificationTTL = readDuration("FUELDESK_NOTIFICATION_TTL", cfg.NotificationTTL)
	cfg.RateLimitPerMinute = readInt("FUELDESK_RATE_LIMIT_PER_MIN", cfg.RateLimitPerMinute)
	cfg.RateLimitBurst = readInt("FUELDESK_RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.StationRateLimitPerMinute = readInt("FUELDESK_STATION_RATE_LIMIT_PER_MIN", cfg.StationRateLimitPerMinute)
	cfg.StationRateLimitBurst = readInt("FUELDESK_STATION_RATE_LIMIT_BURST", cfg.StationRateLimitBurst)
	cfg.OTLPEndpoint = readString("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.OTLPInsecure = readBool("OTEL_EXPORTER_OTLP_INSECURE", cfg.OTLPInsecure)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	switch {
	case c.ServiceKey == "":
		errs = append(errs, ErrMissingServiceKey)
	case len(c.ServiceKey) < 32:
		errs = append(errs, ErrShortServiceKey)
	}
	return errors.Join(errs...)
}

func readString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func readBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
