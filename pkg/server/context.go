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

import "context"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// contextKeyRequestID is the context key for request ID
	contextKeyRequestID contextKey = "requestID"
)

// RequestIDFrom returns the request ID stored by the request ID middleware,
// or "" outside of it.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}
