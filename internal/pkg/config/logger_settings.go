package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// LoggerSettings configures the service logger.
// FilePath and the rotation fields only apply to the file sink.
type LoggerSettings struct {
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=debug info warning error critical"`
	LogType    string `mapstructure:"log_type" validate:"required,oneof=console file"`
	LogFormat  string `mapstructure:"log_format" validate:"omitempty,oneof=text json"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Format returns the console record encoding, defaulting to text.
func (s *LoggerSettings) Format() string {
	if s.LogFormat == "" {
		return LogFormatText
	}
	return s.LogFormat
}

func (s *LoggerSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for LoggerSettings: %w", err)
	}

	if s.LogType != LogTypeFile {
		return nil
	}

	var errs []error
	if s.FilePath == "" {
		errs = append(errs, errors.New("file_path is required for the file logger"))
	}
	if s.MaxSize < 1 || s.MaxSize > maxLogFileSizeMB {
		errs = append(errs, fmt.Errorf("max_size must be between 1 and %d MB", maxLogFileSizeMB))
	}
	if s.MaxBackups < 1 || s.MaxBackups > maxLogFileBackups {
		errs = append(errs, fmt.Errorf("max_backups must be between 1 and %d", maxLogFileBackups))
	}
	if s.MaxAge < 1 || s.MaxAge > maxLogFileAgeDays {
		errs = append(errs, fmt.Errorf("max_age must be between 1 and %d days", maxLogFileAgeDays))
	}
	return errors.Join(errs...)
}
