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

	cnserrors "github.com/NVIDIA/scoring-api/pkg/errors"
	"github.com/NVIDIA/scoring-api/pkg/serializer"
)

// SuccessResponse is the envelope for a 200 result.
type SuccessResponse struct {
	Response any `json:"response"`
	Code     int `json:"code"`
}

// ErrorResponse is the envelope for every non-200 result.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	http.StatusUnprocessableEntity: "Invalid Request",
	http.StatusTooManyRequests:     "Too Many Requests",
	http.StatusInternalServerError: "Internal Server Error",
}

// StatusMessage returns the standard error text for status, falling back
// to "Unknown Error".
func StatusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return "Unknown Error"
}

// WriteResponse writes body in the response envelope. Status 200 produces
// {"response": body, "code": 200}. Any other status produces
// {"error": text, "code": status}, where text is body when it is a
// non-empty string and the standard message otherwise.
func WriteResponse(w http.ResponseWriter, status int, body any) {
	if status == http.StatusOK {
		serializer.RespondJSON(w, status, SuccessResponse{Response: body, Code: status})
		return
	}

	text, _ := body.(string)
	if text == "" {
		text = StatusMessage(status)
	}
	serializer.RespondJSON(w, status, ErrorResponse{Error: text, Code: status})
}

// WriteError writes an error envelope and logs it against the request ID.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	slog.Debug("writing error response",
		"requestID", RequestIDFrom(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"message", message,
	)
	WriteResponse(w, status, message)
}

// HTTPStatusFromCode maps a structured error code to the status the
// transport reports. Store unavailability is an internal failure to the
// client.
func HTTPStatusFromCode(code cnserrors.ErrorCode) int {
	switch code {
	case cnserrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case cnserrors.ErrCodeForbidden:
		return http.StatusForbidden
	case cnserrors.ErrCodeNotFound:
		return http.StatusNotFound
	case cnserrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case cnserrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorFromErr writes the envelope for err using its structured code.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatusFromCode(cnserrors.CodeOf(err))
	slog.Error("request failed",
		"requestID", RequestIDFrom(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	WriteResponse(w, status, StatusMessage(status))
}
