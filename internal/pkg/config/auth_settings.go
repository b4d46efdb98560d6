package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// AuthSettings configures bearer token verification for the resource server.
// Exactly one key source must be set: a JWKS endpoint, a PEM public key file or a
// shared HMAC secret (development only).
type AuthSettings struct {
	Issuer              string        `mapstructure:"issuer"`
	Audience            string        `mapstructure:"audience"`
	JWKSURL             string        `mapstructure:"jwks_url" validate:"omitempty,url"`
	JWKSRefreshInterval time.Duration `mapstructure:"jwks_refresh_interval"`
	PublicKeyPath       string        `mapstructure:"public_key_path"`
	HMACSecret          string        `mapstructure:"hmac_secret" validate:"omitempty,min=32"`
}

// Validate checks that all fields in AuthSettings are valid
func (s *AuthSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for AuthSettings: %w", err)
	}

	sources := 0
	for _, v := range []string{s.JWKSURL, s.PublicKeyPath, s.HMACSecret} {
		if v != "" {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of jwks_url, public_key_path or hmac_secret must be set, got %d", sources)
	}

	return nil
}
