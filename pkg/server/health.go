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
	"net/http"
	"time"

	"github.com/NVIDIA/scoring-api/pkg/serializer"
)

// readinessTimeout bounds the readiness checks of one /ready call.
const readinessTimeout = 2 * time.Second

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status" yaml:"status"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r, http.StatusMethodNotAllowed, "")
		return
	}

	serializer.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

// handleReady handles GET /ready. The server must be started and every
// readiness check must pass.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r, http.StatusMethodNotAllowed, "")
		return
	}

	if !s.isReady() {
		serializer.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "not_ready",
			Timestamp: time.Now().UTC(),
			Reason:    "service is initializing",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	for _, check := range s.checks {
		if err := check(ctx); err != nil {
			serializer.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:    "not_ready",
				Timestamp: time.Now().UTC(),
				Reason:    err.Error(),
			})
			return
		}
	}

	serializer.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
	})
}
