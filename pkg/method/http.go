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

package method

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	cnserrors "github.com/NVIDIA/scoring-api/pkg/errors"
	"github.com/NVIDIA/scoring-api/pkg/serializer"
	"github.com/NVIDIA/scoring-api/pkg/server"
)

const unknownMethodLabel = "unknown"

// ServeHTTP handles POST /method: it decodes the JSON object body, runs
// Handle and writes the response envelope.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestIDFrom(r.Context())
	if requestID == "" {
		requestID = r.Header.Get(server.HeaderRequestID)
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	rc := Context{CtxRequestID: requestID}

	if r.Method != http.MethodPost {
		d.respond(w, r, rc, "", http.StatusMethodNotAllowed, nil)
		return
	}

	body, err := serializer.DecodeObject(r.Body, d.maxBody)
	if err != nil {
		slog.Info("invalid method body",
			"requestID", requestID,
			"path", r.URL.Path,
			"error", err,
		)
		d.respond(w, r, rc, "", http.StatusBadRequest, nil)
		return
	}

	name := d.metricLabel(body)
	slog.Info("method request",
		"requestID", requestID,
		"path", r.URL.Path,
		"method", name,
	)

	resp, code, err := d.Handle(r.Context(), body, rc)
	if err != nil {
		code = server.HTTPStatusFromCode(cnserrors.CodeOf(err))
		resp = nil
		slog.Error("method failed",
			"requestID", requestID,
			"method", name,
			"error", err,
		)
	}

	d.respond(w, r, rc, name, code, resp)
}

func (d *Dispatcher) respond(w http.ResponseWriter, r *http.Request, rc Context, name string, code int, resp any) {
	methodRequests.WithLabelValues(name, strconv.Itoa(code)).Inc()

	rc["code"] = code
	slog.Info("method response",
		"requestID", rc[CtxRequestID],
		"path", r.URL.Path,
		"context", map[string]any(rc),
	)

	server.WriteResponse(w, code, resp)
}

// metricLabel bounds label cardinality to the known method names.
func (d *Dispatcher) metricLabel(body map[string]any) string {
	name, _ := body["method"].(string)
	if _, ok := d.methods[name]; ok {
		return name
	}
	return unknownMethodLabel
}
