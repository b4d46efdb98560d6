package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// MNOSettings configures the mobile network operator connector.
type MNOSettings struct {
	SuccessRate       float64       `mapstructure:"success_rate" validate:"gte=0,lte=1"`
	MinDelay          time.Duration `mapstructure:"min_delay" validate:"gte=0"`
	MaxDelay          time.Duration `mapstructure:"max_delay" validate:"gte=0"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int           `mapstructure:"burst" validate:"gte=1"`
}

// Validate checks that all fields in MNOSettings are valid
func (s *MNOSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for MNOSettings: %w", err)
	}

	if s.MaxDelay < s.MinDelay {
		return fmt.Errorf("max delay %s must not be less than min delay %s", s.MaxDelay, s.MinDelay)
	}

	return nil
}

// DispatcherSettings sizes the worker pool that runs MNO processing in the background.
type DispatcherSettings struct {
	CoreWorkers   int `mapstructure:"core_workers" validate:"gte=1"`
	MaxWorkers    int `mapstructure:"max_workers" validate:"gtefield=CoreWorkers"`
	QueueCapacity int `mapstructure:"queue_capacity" validate:"gte=0"`
}

// Validate checks that all fields in DispatcherSettings are valid
func (s *DispatcherSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DispatcherSettings: %w", err)
	}

	return nil
}
