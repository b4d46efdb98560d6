package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// AMQPSettings configures publication of payment events to a message broker.
type AMQPSettings struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url" validate:"required_if=Enabled true"`
	Exchange       string        `mapstructure:"exchange" validate:"required"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout" validate:"gt=0"`
	// Redial backoff after the broker connection is lost; zero selects the publisher defaults.
	ReconnectInterval    time.Duration `mapstructure:"reconnect_interval" validate:"gte=0"`
	ReconnectMaxInterval time.Duration `mapstructure:"reconnect_max_interval" validate:"gte=0"`
}

// Validate checks that all fields in AMQPSettings are valid
func (s *AMQPSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for AMQPSettings: %w", err)
	}

	return nil
}

// CacheSettings configures the redis cache for terminal payments.
type CacheSettings struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// Validate checks that all fields in CacheSettings are valid
func (s *CacheSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for CacheSettings: %w", err)
	}

	return nil
}
