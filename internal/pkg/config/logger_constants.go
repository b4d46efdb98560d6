package config

// Levels accepted by logger.log_level. critical maps onto slog's error level.
const (
	LogLevelDebug    = "debug"
	LogLevelInfo     = "info"
	LogLevelWarning  = "warning"
	LogLevelError    = "error"
	LogLevelCritical = "critical"
)

// Sinks accepted by logger.log_type
const (
	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

// Record encodings accepted by logger.log_format. File sinks always write JSON.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Rotation limits enforced for the file sink
const (
	maxLogFileSizeMB  = 100
	maxLogFileBackups = 10
	maxLogFileAgeDays = 365
)
