package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all client and service settings, populated from environment variables.
type Config struct {
	// BioSIM endpoints. The secondary is only tried when the primary fails.
	PrimaryURL   string        `envconfig:"BIOSIM_PRIMARY_URL" default:"http://repicea.dyndns.org/BioSIM_API/"`
	SecondaryURL string        `envconfig:"BIOSIM_SECONDARY_URL" default:"http://192.168.0.194:88/BioSIM_API/"`
	HTTPTimeout  time.Duration `envconfig:"BIOSIM_HTTP_TIMEOUT" default:"0s"` // 0 = no timeout

	// Generation cache bounds; 0 disables the bound.
	CacheSize int           `envconfig:"BIOSIM_CACHE_SIZE" default:"0"`
	CacheTTL  time.Duration `envconfig:"BIOSIM_CACHE_TTL" default:"0s"`

	// Circuit breaker on the primary endpoint.
	BreakerEnabled  bool          `envconfig:"BIOSIM_BREAKER_ENABLED" default:"false"`
	BreakerFailures uint32        `envconfig:"BIOSIM_BREAKER_FAILURES" default:"5"`
	BreakerTimeout  time.Duration `envconfig:"BIOSIM_BREAKER_TIMEOUT" default:"30s"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := validateURL("BIOSIM_PRIMARY_URL", c.PrimaryURL); err != nil {
		return err
	}
	if err := validateURL("BIOSIM_SECONDARY_URL", c.SecondaryURL); err != nil {
		return err
	}
	if c.HTTPTimeout < 0 {
		return errors.New("BIOSIM_HTTP_TIMEOUT must not be negative")
	}
	if c.CacheSize < 0 {
		return errors.New("BIOSIM_CACHE_SIZE must not be negative")
	}
	if c.CacheTTL < 0 {
		return errors.New("BIOSIM_CACHE_TTL must not be negative")
	}
	if c.BreakerEnabled {
		if c.BreakerFailures == 0 {
			return errors.New("BIOSIM_BREAKER_FAILURES must be at least 1")
		}
		if c.BreakerTimeout <= 0 {
			return errors.New("BIOSIM_BREAKER_TIMEOUT must be positive")
		}
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}
