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

// Package api assembles and runs the scoring service.
//
// New wires the configured key-value backend into a retrying store client,
// builds the method dispatcher on top of it and mounts the dispatcher on
// the generic HTTP server at /method. Serve additionally installs the
// structured logger and blocks until shutdown.
//
// # Endpoints
//
//   - POST /method  - method calls (online_score, clients_interests)
//   - GET /health   - liveness probe
//   - GET /ready    - readiness probe, fails while the store cannot be dialled
//   - GET /metrics  - Prometheus metrics
//
// Example:
//
//	curl -X POST http://localhost:8080/method -d '{
//	  "account": "horns&hoofs", "login": "h&f", "method": "online_score",
//	  "token": "<token>",
//	  "arguments": {"phone": "79175002040", "email": "user@example.com"}
//	}'
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/scoring-api/pkg/api.version=1.0.0'"
package api
