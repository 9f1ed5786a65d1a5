// Package logging provides structured logging setup for the process.
//
// The package wraps Go's standard log/slog: it builds a handler from the
// configured level and format (JSON or text), installs it as the slog
// default, and returns the logger. Components derive their own loggers
// with logger.With("component", ...), so every log line carries the
// subsystem it came from.
package logging
