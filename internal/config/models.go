package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the relative API prefix used when no override is set
	DefaultBaseURL = "/api"

	// DefaultHost is the origin a relative base URL is resolved against.
	// It matches the port the survey service listens on by default.
	DefaultHost = "http://localhost:5001"

	// DefaultTimeout tolerates slow AI-backed generation
	DefaultTimeout = 60 * time.Second

	currentVersion = 1
)

// Config holds the client settings for talking to the survey service.
type Config struct {
	Version  int           `yaml:"version"`
	BaseURL  string        `yaml:"base_url,omitempty"`  // API prefix or absolute URL
	Host     string        `yaml:"host,omitempty"`      // Origin for relative BaseURL values
	Timeout  time.Duration `yaml:"timeout,omitempty"`   // Per-request timeout
	LogLevel string        `yaml:"log_level,omitempty"` // Empty means silent
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Version: currentVersion,
		BaseURL: DefaultBaseURL,
		Host:    DefaultHost,
		Timeout: DefaultTimeout,
	}
}

// fillDefaults replaces zero values with defaults.
func (c *Config) fillDefaults() {
	if c.Version == 0 {
		c.Version = currentVersion
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks that the configuration can be used to build a client.
func (c *Config) Validate() error {
	if c.Version != currentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, currentVersion)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if _, err := c.ResolvedBaseURL(); err != nil {
		return err
	}
	return nil
}

// ResolvedBaseURL returns the absolute base URL requests are sent to.
// An absolute BaseURL is used as is; a relative one is joined onto Host.
func (c *Config) ResolvedBaseURL() (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if base.IsAbs() {
		if base.Host == "" {
			return "", fmt.Errorf("invalid base_url %q: missing host", c.BaseURL)
		}
		return strings.TrimRight(base.String(), "/"), nil
	}

	host, err := url.Parse(c.Host)
	if err != nil || !host.IsAbs() || host.Host == "" {
		return "", fmt.Errorf("invalid host %q: must be an absolute URL like http://localhost:5001", c.Host)
	}

	return strings.TrimRight(host.ResolveReference(base).String(), "/"), nil
}
