package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Config configures the token service.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Issuer is the "iss" claim, enforced on parse when set.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// TTL is the token lifetime applied by Issue (default: 30 days).
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.TTL == 0 {
		c.TTL = 30 * 24 * time.Hour
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("jwt: secret is required")
	}
	if c.TTL < 0 {
		return errors.New("jwt: ttl must be non-negative")
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	return gojwt.SigningMethodHS256
}

func (c *Config) key() any {
	return []byte(c.Secret)
}
