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

// Package store provides a resilient key-value client used by the scoring
// methods.
//
// A Store wraps one Backend connection and exposes two classes of
// operation:
//
//   - Durable: Get and Set retry connection and timeout failures with a
//     fixed backoff, re-dialing between attempts. When every attempt fails
//     the caller receives a StructuredError with ErrCodeUnavailable.
//   - Best-effort: CacheGet and CacheSet make a single call and return
//     whatever happened; callers treat a failure as a cache miss.
//
// Backends:
//
//   - Memory: in-process map with per-key expiry, shared across re-dials.
//   - Redis: github.com/redis/go-redis/v9 with client retries disabled.
//   - SQLite: modernc.org/sqlite file database with a kv table.
//
// Usage:
//
//	dial, err := store.NewDialer(store.BackendConfig{Kind: store.KindRedis, Addr: "localhost:6379"})
//	if err != nil {
//	    return err
//	}
//	s := store.New(dial, store.WithRetryPolicy(store.RetryPolicy{Attempts: 5, Backoff: 5 * time.Second}))
//	defer s.Close()
//
//	v, err := s.Get(ctx, "i:1")
//
// Retries are driven by k8s.io/client-go/util/retry with a constant
// wait.Backoff. The retry loop does not observe context cancellation; the
// context is only handed to the backend calls.
package store
