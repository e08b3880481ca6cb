// Package log provides the structured logger used by the proxy.
//
// Components receive a Logger at construction time and derive named children
// from it:
//
//	logger := log.NewZapLogger(log.Config{Format: "logfmt", Level: log.LevelInfo})
//	proxyLogger := logger.WithName("proxy")
//	proxyLogger.Warn("rejected request", "method", "eth_accounts", "reason", "not available")
//
// Per-request loggers travel in the request context:
//
//	ctx = log.SetContextLogger(ctx, proxyLogger.WithKV("requestID", id))
//	log.FromContext(ctx).Debug("forwarding call")
//
// When the context carries an OpenTelemetry span, SetContextLogger wraps the
// logger in a SpanLogger so every entry is also recorded as a span event and
// annotated with traceId and spanId.
package log
