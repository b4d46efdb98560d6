//go:build unit
// +build unit

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LogLevelWarning, config.LogFormatText)

	log.Debug("dispatching payment")
	log.Info("payment accepted")
	log.Warn("mno slow to respond")
	log.Error("mno call failed")

	out := buf.String()
	assert.NotContains(t, out, "dispatching payment")
	assert.NotContains(t, out, "payment accepted")
	assert.Contains(t, out, "mno slow to respond")
	assert.Contains(t, out, "mno call failed")
	assert.Contains(t, out, "service="+ServiceName)
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LogLevelInfo, config.LogFormatJSON)

	log.Info("payment ", "b5b4c0c2", " completed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "payment b5b4c0c2 completed", record["msg"])
	assert.Equal(t, ServiceName, record["service"])
}

func TestSlogLogger_Fatal(t *testing.T) {
	var buf bytes.Buffer
	var code int
	log := &slogLogger{
		logger: slog.New(slog.NewTextHandler(&buf, nil)),
		exit:   func(c int) { code = c },
	}

	log.Fatal("cannot open database")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "cannot open database")
	assert.Contains(t, buf.String(), "fatal=true")
}

func TestSlogLogger_Panic(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LogLevelInfo, config.LogFormatText)

	assert.PanicsWithValue(t, "queue closed 3", func() {
		log.Panic("queue closed ", 3)
	})
	assert.Contains(t, buf.String(), "panic=true")
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.log")

	log := NewFileLogger(&config.LoggerSettings{
		LogLevel:   config.LogLevelInfo,
		LogType:    config.LogTypeFile,
		FilePath:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	})
	log.Debug("skipped")
	log.Info("payment accepted")
	log.Error("payment failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		assert.Equal(t, ServiceName, record["service"])
	}
	assert.Contains(t, lines[0], `"level":"INFO"`)
	assert.Contains(t, lines[1], `"level":"ERROR"`)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		config.LogLevelDebug:    slog.LevelDebug,
		config.LogLevelInfo:     slog.LevelInfo,
		config.LogLevelWarning:  slog.LevelWarn,
		config.LogLevelError:    slog.LevelError,
		config.LogLevelCritical: slog.LevelError,
		"":                      slog.LevelInfo,
	}

	for level, expected := range tests {
		assert.Equal(t, expected, parseLevel(level), "level %q", level)
	}
}
