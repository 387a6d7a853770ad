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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// HeaderRequestID carries the request ID in both directions.
	HeaderRequestID = "X-Request-Id"

	maxRequestIDLen = 128
)

// withMiddleware wraps handlers with common middleware
func (s *Server) withMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return s.metricsMiddleware(
		s.versionMiddleware(
			s.requestIDMiddleware(
				s.panicRecoveryMiddleware( // Recover first to prevent token waste on panics
					s.rateLimitMiddleware(
						s.loggingMiddleware(handler),
					),
				),
			),
		),
	)
}

// Middleware implementations

// requestIDMiddleware echoes the caller's X-Request-Id or generates one
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
		}

		// Store in context and response header
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		w.Header().Set(HeaderRequestID, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// validRequestID accepts non-empty printable ASCII up to maxRequestIDLen.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// rateLimitMiddleware implements rate limiting
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow() {
			rateLimitRejects.Inc()
			w.Header().Set("Retry-After", "1")
			WriteError(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		// Add rate limit headers
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", int(s.config.RateLimit)))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", int(s.rateLimiter.Tokens())))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Second).Unix()))

		next.ServeHTTP(w, r)
	}
}

// panicRecoveryMiddleware recovers from panics
func (s *Server) panicRecoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				panicRecoveries.Inc()
				var errMsg string
				switch v := err.(type) {
				case error:
					errMsg = v.Error()
				default:
					errMsg = fmt.Sprintf("%v", v)
				}
				slog.Error("panic recovered",
					"error", errMsg,
					"requestID", RequestIDFrom(r.Context()),
					"path", r.URL.Path,
					"method", r.Method,
				)
				WriteResponse(w, http.StatusInternalServerError, nil)
			}
		}()
		next.ServeHTTP(w, r)
	}
}

// loggingMiddleware logs requests
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := RequestIDFrom(r.Context())

		// Wrap response writer to track status code
		rw := newResponseWriter(w)

		slog.Debug("request started",
			"requestID", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)

		next.ServeHTTP(rw, r)

		slog.Debug("request completed",
			"requestID", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.Status(),
			"bytes", rw.Bytes(),
			"duration", time.Since(start).String(),
		)
	}
}
