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

// Package defaults provides centralized configuration constants for the
// scoring service.
//
// This package defines timeout values, retry parameters, and other
// configuration defaults used across the codebase. Centralizing these values
// keeps the HTTP server, the store client and the configuration loader in
// agreement.
//
// # Categories
//
//   - Server timeouts and limits: HTTP server configuration
//   - Store parameters: durable operation retry budget and backend timeouts
//   - Scoring parameters: score cache lifetime
//
// # Usage
//
//	import "github.com/NVIDIA/scoring-api/pkg/defaults"
//
//	policy := store.RetryPolicy{
//	    Attempts: defaults.StoreAttempts,
//	    Backoff:  defaults.StoreBackoff,
//	}
//
// # Guidelines
//
// The worst-case latency of a durable store call is
// StoreAttempts*StoreBackoff. ServerWriteTimeout must exceed it or the
// client sees a reset connection instead of a 500 response.
package defaults
