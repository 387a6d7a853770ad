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

package defaults

import "time"

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// A durable store call can block for StoreAttempts*StoreBackoff, so this
	// must stay above that product.
	ServerWriteTimeout = 60 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Server limits.
const (
	// ServerPort is the default listen port.
	ServerPort = 8080

	// ServerMaxBodyBytes caps the size of a method call body.
	ServerMaxBodyBytes = 1 << 20

	// ServerRateLimit is the default sustained requests per second.
	ServerRateLimit = 100

	// ServerRateLimitBurst is the default token bucket size.
	ServerRateLimitBurst = 200
)

// Store retry and connection parameters.
const (
	// StoreAttempts is how many times a durable store operation is tried.
	StoreAttempts = 5

	// StoreBackoff is the fixed pause between durable store attempts.
	StoreBackoff = 5 * time.Second

	// StoreDialTimeout bounds a single connection attempt to the backend.
	StoreDialTimeout = 2 * time.Second

	// StoreOpTimeout bounds a single read or write against the backend.
	StoreOpTimeout = 3 * time.Second

	// StoreAddr is the default Redis address.
	StoreAddr = "localhost:6379"
)

// Scoring parameters.
const (
	// ScoreCacheTTL is how long a computed score stays in the cache.
	ScoreCacheTTL = 60 * time.Minute
)
