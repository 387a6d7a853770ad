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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_store_attempts_total",
			Help: "Total number of backend calls made by store operations",
		},
		[]string{"op"},
	)

	storeRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_store_retries_total",
			Help: "Total number of durable store calls that were retries",
		},
		[]string{"op"},
	)

	storeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_store_failures_total",
			Help: "Total number of store operations that returned an error to the caller",
		},
		[]string{"op"},
	)

	storeDials = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoring_store_dials_total",
			Help: "Total number of backend connections opened",
		},
	)
)
