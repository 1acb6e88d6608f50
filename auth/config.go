package auth

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names a supported HMAC algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// Config configures bearer-token authentication for the HTTP API.
// When Enabled is false every request is accepted.
type Config struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Method   SigningMethod `yaml:"method" mapstructure:"method"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Audience []string      `yaml:"audience" mapstructure:"audience"`
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.Issuer == "" {
		c.Issuer = "diarsplit"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = time.Hour
	}
}

// Validate checks the configuration. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Secret == "" {
		return fmt.Errorf("auth: secret is required when auth is enabled")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("auth: secret must be at least 16 bytes")
	}
	switch c.Method {
	case HS256, HS384, HS512:
	default:
		return fmt.Errorf("auth: unsupported signing method %q", c.Method)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("auth: token_ttl must not be negative")
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}
