package log

// Logger is the structured logger used across the proxy.
// keysAndValues are alternating key-value pairs, e.g. "method", "eth_call".
type Logger interface {
	// Debug logs per-request detail that is only useful while diagnosing the proxy.
	Debug(msg string, keysAndValues ...any)
	// Info logs lifecycle events such as startup, listener addresses and shutdown.
	Info(msg string, keysAndValues ...any)
	// Warn logs refused calls and other conditions the proxy recovers from.
	Warn(msg string, keysAndValues ...any)
	// Error logs failures that need attention, e.g. an unreachable upstream.
	Error(msg string, keysAndValues ...any)
	// Fatal logs and terminates the process.
	Fatal(msg string, keysAndValues ...any)
	// WithKV returns a logger that attaches key=value to every entry.
	WithKV(key string, value any) Logger
	// GetAllKV returns the pairs attached with WithKV.
	GetAllKV() []any
	// WithName returns a named child logger (names are joined with dots).
	WithName(name string) Logger
	// Name returns the logger name.
	Name() string
	// AddCallerSkip returns a logger that skips extra frames when reporting the caller.
	AddCallerSkip(skip int) Logger
}

// Level is the severity of a log entry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// SpanEventRecorder records log entries on a tracing span.
type SpanEventRecorder interface {
	TraceID() string
	SpanID() string

	// RecordEvent adds a span event named after the log message.
	RecordEvent(name string, keysAndValues ...any)
	// RecordError adds a span event and marks the span as failed.
	RecordError(name string, keysAndValues ...any)
}
