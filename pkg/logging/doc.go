// Package logging provides structured logging utilities for the scoring service.
//
// # Overview
//
// This package wraps the standard library slog package with service defaults
// so every component logs the same way: JSON records on stderr (or a file
// chosen with --log), a module and version attribute on every record, and a
// level taken from LOG_LEVEL or the --log-level flag.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: per-request detail, store retry attempts, source location
//   - INFO: request summaries and lifecycle events (default)
//   - WARN/WARNING: best-effort cache failures
//   - ERROR: exhausted store retries and recovered panics
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("scoringd", version)
//	    slog.Info("processing request", "request_id", id)
//	}
//
// Writing to a file:
//
//	f, _ := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
//	logging.SetDefaultStructuredLoggerWithWriter(f, "scoringd", version, "info")
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "method handled",
//	    "module": "scoringd",
//	    "version": "v1.0.0",
//	    "request_id": "4f1c...",
//	    "code": 200
//	}
package logging
