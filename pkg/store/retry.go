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

package store

import (
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/util/retry"

	"github.com/NVIDIA/scoring-api/pkg/defaults"
)

// RetryPolicy bounds durable operations: at most Attempts calls with a
// fixed Backoff pause between them.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy returns 5 attempts with a 5 second pause.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: defaults.StoreAttempts,
		Backoff:  defaults.StoreBackoff,
	}
}

// backoff converts the policy into a constant wait.Backoff. Fewer than one
// attempt is treated as one.
func (p RetryPolicy) backoff() wait.Backoff {
	steps := p.Attempts
	if steps < 1 {
		steps = 1
	}
	return wait.Backoff{
		Steps:    steps,
		Duration: p.Backoff,
		Factor:   1.0,
	}
}

// Do calls fn until it succeeds, returns a non-transient error, or the
// attempts run out. The last error is returned unchanged. Do does not watch
// any context; its worst case is Attempts*Backoff plus the calls themselves.
func (p RetryPolicy) Do(fn func() error) error {
	return retry.OnError(p.backoff(), IsTransient, fn)
}
