//go:build unit
// +build unit

package logger

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLoggerSingleton() {
	loggerInstance = nil
	loggerErr = nil
	loggerOnce = sync.Once{}
}

func TestFromSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings *config.LoggerSettings
		wantErr  bool
	}{
		{
			name:     "console text",
			settings: &config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: config.LogTypeConsole},
		},
		{
			name: "console json",
			settings: &config.LoggerSettings{
				LogLevel:  config.LogLevelDebug,
				LogType:   config.LogTypeConsole,
				LogFormat: config.LogFormatJSON,
			},
		},
		{
			name:     "invalid level",
			settings: &config.LoggerSettings{LogLevel: "verbose", LogType: config.LogTypeConsole},
			wantErr:  true,
		},
		{
			name:     "unsupported type",
			settings: &config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: "syslog"},
			wantErr:  true,
		},
		{
			name:     "file without rotation",
			settings: &config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: config.LogTypeFile, FilePath: "/tmp/b2c.log"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := FromSettings(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, log)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestInitLogger_File(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, InitLogger(&config.LoggerSettings{
		LogLevel:   config.LogLevelInfo,
		LogType:    config.LogTypeFile,
		FilePath:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}))

	log, err := GetLogger()
	require.NoError(t, err)
	log.Info("payment status updated to SUCCESSFUL for ID: ", "b5b4c0c2")

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestInitLogger_InvalidSettingsLeaveLoggerUnset(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	err := InitLogger(&config.LoggerSettings{LogType: config.LogTypeConsole})
	assert.Error(t, err)

	log, err := GetLogger()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Nil(t, log)
}

func TestGetLogger_BeforeInit(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	_, err := GetLogger()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitLogger_FirstCallWins(t *testing.T) {
	t.Cleanup(resetLoggerSingleton)

	require.NoError(t, InitLogger(&config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: config.LogTypeConsole}))
	first, err := GetLogger()
	require.NoError(t, err)

	assert.NoError(t, InitLogger(&config.LoggerSettings{LogLevel: "verbose", LogType: config.LogTypeConsole}))
	second, err := GetLogger()
	require.NoError(t, err)

	assert.Same(t, first, second)
}
