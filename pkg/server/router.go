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
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NVIDIA/scoring-api/pkg/serializer"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Root lists routes; every other unknown path is a 404 envelope
	mux.HandleFunc("/", s.withMiddleware(s.handleDefault))

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// API endpoints with middleware
	for path, handler := range s.config.Handlers {
		mux.HandleFunc(path, s.withMiddleware(handler))
	}

	return mux
}

// Routes returns the registered paths, sorted.
func (s *Server) Routes() []string {
	routes := []string{"/health", "/ready", "/metrics"}
	for path := range s.config.Handlers {
		routes = append(routes, path)
	}
	sort.Strings(routes)
	return routes
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, "")
		return
	}

	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	resp := struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		Ready     bool     `json:"ready"`
		Timestamp string   `json:"timestamp"`
		Routes    []string `json:"routes"`
	}{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Ready:     s.isReady(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes:    s.Routes(),
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}
