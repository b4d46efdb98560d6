package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// ReconciliationSettings configures the batch job that fails payments stuck in a
// non-terminal status.
type ReconciliationSettings struct {
	Enabled    bool          `mapstructure:"enabled"`
	Schedule   string        `mapstructure:"schedule" validate:"required"`
	StaleAfter time.Duration `mapstructure:"stale_after" validate:"gt=0"`
	BatchSize  int           `mapstructure:"batch_size" validate:"gte=1,lte=1000"`
}

// Validate checks that all fields in ReconciliationSettings are valid
func (s *ReconciliationSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ReconciliationSettings: %w", err)
	}

	if _, err := cron.ParseStandard(s.Schedule); err != nil {
		return fmt.Errorf("invalid reconciliation schedule %q: %w", s.Schedule, err)
	}

	return nil
}
