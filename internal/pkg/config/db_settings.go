package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Supported database types
const (
	PostgresDbType = "postgres"
	SqliteDbType   = "sqlite"
)

// DatabaseSettings holds the connection settings for the payments database.
// For sqlite an empty DSN selects an in-memory database.
type DatabaseSettings struct {
	Type           string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`
	DSN            string `mapstructure:"dsn"`
	Name           string `mapstructure:"name"`
	MaxOpenConns   int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns   int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

// Validate checks that all fields in DatabaseSettings are valid
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}

	if s.Type == PostgresDbType && s.DSN == "" {
		return fmt.Errorf("dsn is required for %s databases", s.Type)
	}

	return nil
}
