package main

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the application configuration read from a TOML file
type Config struct {
	Server  ServerConfig  `toml:"server"`  // HTTP server settings
	Weather WeatherConfig `toml:"wx"`      // Weather API settings
	Logging LoggingConfig `toml:"logging"` // Application logging settings
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Host             string `toml:"host"`                  // Host address to bind to
	Port             int    `toml:"port"`                  // HTTP port
	ReadTimeoutSecs  int    `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request
	WriteTimeoutSecs int    `toml:"write_timeout_seconds"` // Maximum duration for writing the response
	IdleTimeoutSecs  int    `toml:"idle_timeout_seconds"`  // Keep-alive idle timeout
}

// WeatherConfig contains settings for the METAR source
type WeatherConfig struct {
	APIBaseURL            string `toml:"api_base_url"`            // Base URL of the AviationWeather data API
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"` // HTTP request timeout in seconds
	MaxRetries            int    `toml:"max_retries"`             // Retry attempts after the first failed request
	RetryBackoffMillis    int    `toml:"retry_backoff_ms"`        // Initial backoff, doubled on every retry
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn" or "error"
	Format string `toml:"format"` // "json" or "console"
}

// DefaultConfig returns the configuration used when no file is given. A
// config file only needs to set the values it changes.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "127.0.0.1",
			Port:             5000,
			ReadTimeoutSecs:  10,
			WriteTimeoutSecs: 30,
			IdleTimeoutSecs:  60,
		},
		Weather: WeatherConfig{
			APIBaseURL:            "https://aviationweather.gov/api/data",
			RequestTimeoutSeconds: 10,
			MaxRetries:            2,
			RetryBackoffMillis:    500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig decodes the TOML file at path over DefaultConfig. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Weather.APIBaseURL == "" {
		errs = append(errs, errors.New("wx.api_base_url is required"))
	}
	if c.Weather.RequestTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("wx.request_timeout_seconds must be positive"))
	}
	if c.Weather.MaxRetries < 0 {
		errs = append(errs, errors.New("wx.max_retries must not be negative"))
	}
	if c.Weather.RetryBackoffMillis < 0 {
		errs = append(errs, errors.New("wx.retry_backoff_ms must not be negative"))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of json, console", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Addr returns the host:port the server listens on
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
