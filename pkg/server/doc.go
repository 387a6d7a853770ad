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

// Package server provides the HTTP server that hosts the scoring API.
//
// # Architecture
//
// The server is a thin shell around net/http with:
//
//   - Rate limiting using token bucket algorithm (golang.org/x/time/rate)
//   - Request ID tracking (X-Request-Id, echoed or generated)
//   - Panic recovery
//   - Prometheus RED metrics and a /metrics endpoint
//   - Graceful shutdown with systemd readiness notification
//   - Health and readiness probes
//
// Routes supplied with WithHandler are wrapped in the middleware chain:
// metrics, version, request ID, panic recovery, rate limit, logging.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("scoringd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/method": dispatcher.ServeHTTP,
//	    }),
//	    server.WithReadinessCheck(st.Ping),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Endpoints
//
// GET / - server name, version, readiness and routes
//
// GET /health - liveness, always 200
//
// GET /ready - 200 once serving and every readiness check passes, 503 otherwise
//
// GET /metrics - Prometheus exposition
//
// Any other path answers 404 in the response envelope.
//
// # Response Envelope
//
// Success:
//
//	{"response": <body>, "code": 200}
//
// Failure:
//
//	{"error": "<text or standard message>", "code": <status>}
//
// Standard messages: 400 "Bad Request", 403 "Forbidden", 404 "Not Found",
// 422 "Invalid Request", 500 "Internal Server Error".
//
// # Rate Limiting
//
// Response headers indicate rate limit status:
//
//	X-RateLimit-Limit: Total requests allowed per second
//	X-RateLimit-Remaining: Tokens remaining
//	X-RateLimit-Reset: Unix timestamp when the bucket refills
//
// When rate limited, returns 429 with Retry-After header.
package server
