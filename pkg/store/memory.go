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
	"context"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process Backend with per-key expiry. Every connection
// dialed from the same Memory shares its data, and Close is a no-op, so a
// Store re-dial does not lose state.
type Memory struct {
	clock clock.PassiveClock

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemory returns an empty Memory backend using the real clock.
func NewMemory() *Memory {
	return NewMemoryWithClock(clock.RealClock{})
}

// NewMemoryWithClock returns an empty Memory backend that reads expiry
// times from clk.
func NewMemoryWithClock(clk clock.PassiveClock) *Memory {
	return &Memory{
		clock:   clk,
		entries: make(map[string]memoryEntry),
	}
}

// Dialer returns a Dialer that always yields m.
func (m *Memory) Dialer() Dialer {
	return func(context.Context) (Backend, error) {
		return m, nil
	}
}

// Get implements Backend. Expired entries are removed on read.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	if !e.expiresAt.IsZero() && !m.clock.Now().Before(e.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur == e {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return "", ErrNotFound
	}
	return e.value, nil
}

// Set implements Backend.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.clock.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Close implements Backend.
func (m *Memory) Close() error {
	return nil
}
