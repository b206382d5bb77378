package consul

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Logger receives structured debug output from the client when debugging is
// enabled. Keys and values alternate in keysAndValues. The dispatcher logs
// request lifecycle only - failures are returned to the caller, never logged.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// hclogLogger adapts a hashicorp/go-hclog logger to the Logger interface.
type hclogLogger struct {
	logger hclog.Logger
}

// NewSimpleLogger returns a Logger writing human-readable output to stderr,
// suitable for WithSimpleLogger or ad-hoc debugging.
func NewSimpleLogger() Logger {
	return &hclogLogger{logger: hclog.New(&hclog.LoggerOptions{
		Name:  "consul-go",
		Level: hclog.Debug,
	})}
}

// NewHCLogger wraps an existing hclog.Logger so applications already using
// hclog can route client debug output into their logging tree.
func NewHCLogger(logger hclog.Logger) Logger {
	return &hclogLogger{logger: logger}
}

func (l *hclogLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *hclogLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *hclogLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *hclogLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

// DebugConfig gates which request lifecycle events are logged.
type DebugConfig struct {
	// Enabled switches debug logging on. A Logger must also be configured.
	Enabled bool
	// LogRequests logs each outgoing request (method, URL, endpoint).
	LogRequests bool
	// LogResponses logs each response (status, duration, index metadata).
	LogResponses bool
	// RequestIDGen produces per-request correlation IDs.
	RequestIDGen func() string
}

// DefaultDebugConfig logs requests and responses with UUID request IDs.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogResponses: true,
		RequestIDGen: DefaultRequestIDGen,
	}
}

// DefaultRequestIDGen generates a random UUID per request.
func DefaultRequestIDGen() string {
	return uuid.NewString()
}
