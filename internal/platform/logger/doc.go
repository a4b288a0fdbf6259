// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package.
//
// Setup builds the process-wide JSON logger from ServerConfig. Request-scoped
// loggers carrying the trace ID travel through context.Context via WithLogger
// and FromContext.
package logger
