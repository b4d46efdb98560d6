package testutil

import (
	"bytes"
	"testing"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/stretchr/testify/require"
)

// SetupTestLogger returns the process-wide console logger, initializing it on first use.
func SetupTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	require.NoError(t, logger.InitLogger(&config.LoggerSettings{
		LogLevel: config.LogLevelWarning,
		LogType:  config.LogTypeConsole,
	}))

	log, err := logger.GetLogger()
	require.NoError(t, err)
	return log
}

// NewBufferLogger returns a debug-level logger whose text output is captured for assertions.
func NewBufferLogger(t *testing.T) (logger.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	return logger.New(&buf, config.LogLevelDebug, config.LogFormatText), &buf
}
