// Package logger provides the service's leveled logger, a thin layer over log/slog.
package logger

// ServiceName is attached to every record as the service attribute.
const ServiceName = "b2c-payment"

// Logger is the logging contract used across the service.
// Arguments are concatenated with fmt.Sprint.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Panic(args ...interface{})
}
