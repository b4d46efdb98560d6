package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

type slogLogger struct {
	logger *slog.Logger
	exit   func(code int)
}

// New builds a Logger writing format-encoded records at or above level to w.
func New(w io.Writer, level, format string) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &slogLogger{
		logger: slog.New(handler).With(slog.String("service", ServiceName)),
		exit:   os.Exit,
	}
}

// NewConsoleLogger logs to stdout.
func NewConsoleLogger(level, format string) Logger {
	return New(os.Stdout, level, format)
}

// NewFileLogger writes JSON records to a size-rotated file.
func NewFileLogger(s *config.LoggerSettings) Logger {
	return New(&lumberjack.Logger{
		Filename:   s.FilePath,
		MaxSize:    s.MaxSize,
		MaxBackups: s.MaxBackups,
		MaxAge:     s.MaxAge,
		Compress:   s.Compress,
	}, s.LogLevel, config.LogFormatJSON)
}

func (l *slogLogger) Debug(args ...interface{}) { l.logger.Debug(formatArgs(args...)) }
func (l *slogLogger) Info(args ...interface{})  { l.logger.Info(formatArgs(args...)) }
func (l *slogLogger) Warn(args ...interface{})  { l.logger.Warn(formatArgs(args...)) }
func (l *slogLogger) Error(args ...interface{}) { l.logger.Error(formatArgs(args...)) }

// Fatal logs at error level and terminates the process.
func (l *slogLogger) Fatal(args ...interface{}) {
	l.logger.Error(formatArgs(args...), slog.Bool("fatal", true))
	l.exit(1)
}

// Panic logs at error level and panics with the formatted message.
func (l *slogLogger) Panic(args ...interface{}) {
	msg := formatArgs(args...)
	l.logger.Error(msg, slog.Bool("panic", true))
	panic(msg)
}

func parseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarning:
		return slog.LevelWarn
	case config.LogLevelError, config.LogLevelCritical:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func formatArgs(args ...interface{}) string {
	return fmt.Sprint(args...)
}
