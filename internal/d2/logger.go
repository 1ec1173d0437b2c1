package d2

// Logger provides structured logging for the client and manifest layers.
// The args follow slog conventions: alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger is a Logger that discards all output. Use in tests.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}

// Tracer collects JSON deserialization diagnostics when debugging is enabled.
type Tracer interface {
	Trace(method string, msg string, args ...any)
}

// LoggerTracer forwards trace events to a Logger at debug level.
type LoggerTracer struct {
	Logger Logger
}

func (t LoggerTracer) Trace(method string, msg string, args ...any) {
	t.Logger.Debug(msg, append([]any{"method", method}, args...)...)
}
