package log_test

import "github.com/michael1011/web3-proxy/pkg/log"

var _ log.Logger = &mockLogger{}

// mockLogger keeps the last entry and the accumulated logger state.
type mockLogger struct {
	last          mockEntry
	name          string
	keysAndValues []any
	callerSkip    int
}

type mockEntry struct {
	Level         log.Level
	Message       string
	KeysAndValues []any
}

func newMockLogger() *mockLogger {
	return &mockLogger{name: "mock", keysAndValues: []any{}}
}

func (ml *mockLogger) Debug(msg string, kv ...any) { ml.record(log.LevelDebug, msg, kv) }
func (ml *mockLogger) Info(msg string, kv ...any)  { ml.record(log.LevelInfo, msg, kv) }
func (ml *mockLogger) Warn(msg string, kv ...any)  { ml.record(log.LevelWarn, msg, kv) }
func (ml *mockLogger) Error(msg string, kv ...any) { ml.record(log.LevelError, msg, kv) }
func (ml *mockLogger) Fatal(msg string, kv ...any) { ml.record(log.LevelFatal, msg, kv) }

func (ml *mockLogger) WithKV(key string, value any) log.Logger {
	ml.keysAndValues = append(ml.keysAndValues, key, value)
	return ml
}

func (ml *mockLogger) GetAllKV() []any { return ml.keysAndValues }

func (ml *mockLogger) WithName(name string) log.Logger {
	ml.name = name
	return ml
}

func (ml *mockLogger) Name() string { return ml.name }

func (ml *mockLogger) AddCallerSkip(skip int) log.Logger {
	ml.callerSkip += skip
	return ml
}

func (ml *mockLogger) record(level log.Level, msg string, kv []any) {
	ml.last = mockEntry{Level: level, Message: msg, KeysAndValues: kv}
}

// mockRecorder captures the last span event.
type mockRecorder struct {
	traceID string
	spanID  string
	failed  bool
	last    []any
}

func (r *mockRecorder) TraceID() string { return r.traceID }
func (r *mockRecorder) SpanID() string  { return r.spanID }

func (r *mockRecorder) RecordEvent(name string, kv ...any) {
	r.last = append([]any{"msg", name}, kv...)
}

func (r *mockRecorder) RecordError(name string, kv ...any) {
	r.failed = true
	r.last = append([]any{"msg", name}, kv...)
}
