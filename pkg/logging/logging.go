// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvLogLevel is the environment variable consulted for the log level.
	EnvLogLevel = "LOG_LEVEL"
)

// ParseLevel converts a case-insensitive level name into a slog.Level.
// Unknown or empty names resolve to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewStructuredLogger returns a JSON logger writing to stderr.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	return NewStructuredLoggerWithWriter(os.Stderr, module, version, level)
}

// NewStructuredLoggerWithWriter returns a JSON logger writing to w with
// module and version attached to every record. Debug level also records
// the source location.
func NewStructuredLoggerWithWriter(w io.Writer, module, version, level string) *slog.Logger {
	lvl := ParseLevel(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(handler).With(
		"module", module,
		"version", version,
	)
}

// SetDefaultStructuredLogger installs a structured logger as the slog
// default, taking the level from LOG_LEVEL.
func SetDefaultStructuredLogger(module, version string) {
	SetDefaultStructuredLoggerWithLevel(module, version, os.Getenv(EnvLogLevel))
}

// SetDefaultStructuredLoggerWithLevel installs a structured logger with an
// explicit level as the slog default.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	slog.SetDefault(NewStructuredLogger(module, version, level))
}

// SetDefaultStructuredLoggerWithWriter installs a structured logger writing
// to w as the slog default.
func SetDefaultStructuredLoggerWithWriter(w io.Writer, module, version, level string) {
	slog.SetDefault(NewStructuredLoggerWithWriter(w, module, version, level))
}

// NewLogLogger adapts the default slog handler to a standard library
// *log.Logger, e.g. for http.Server.ErrorLog.
func NewLogLogger(level slog.Level) *log.Logger {
	return slog.NewLogLogger(slog.Default().Handler(), level)
}
