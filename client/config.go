package client

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/diarsplit/resilience"
	"github.com/kbukum/diarsplit/security"
)

const defaultTimeout = 15 * time.Minute

// Config configures the client.
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:8080.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Timeout bounds a whole request including the upload. Defaults to 15m.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Token is sent as a Bearer token when set.
	Token string `yaml:"token" mapstructure:"token"`
	// Headers are added to every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// Retry configures retries of busy or unreachable servers. Nil disables retry.
	Retry *resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
	// TLS verifies an https server with a private CA and optionally
	// presents a client certificate.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("client: base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("client: base_url must be an http(s) URL (got: %q)", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("client: timeout must be positive")
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	if c.TLS.IsEnabled() && u.Scheme != "https" {
		return fmt.Errorf("client: tls settings require an https base_url")
	}
	return nil
}

// DefaultRetryConfig returns the retry policy used by the CLI.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}
