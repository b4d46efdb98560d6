package logger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
)

var (
	loggerInstance Logger
	loggerErr      error
	loggerOnce     sync.Once
)

// ErrNotInitialized is returned by GetLogger before a successful InitLogger.
var ErrNotInitialized = errors.New("logger not initialized: call InitLogger first")

// InitLogger builds the process-wide logger. Only the first call takes effect.
func InitLogger(settings *config.LoggerSettings) error {
	loggerOnce.Do(func() {
		loggerInstance, loggerErr = FromSettings(settings)
	})
	return loggerErr
}

// GetLogger returns the logger built by InitLogger.
func GetLogger() (Logger, error) {
	if loggerInstance == nil {
		return nil, ErrNotInitialized
	}
	return loggerInstance, nil
}

// FromSettings validates s and builds a logger for the configured sink.
func FromSettings(s *config.LoggerSettings) (Logger, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger settings: %w", err)
	}

	switch s.LogType {
	case config.LogTypeFile:
		return NewFileLogger(s), nil
	default:
		return NewConsoleLogger(s.LogLevel, s.Format()), nil
	}
}
