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
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cnserrors "github.com/NVIDIA/scoring-api/pkg/errors"
)

const (
	opGet      = "get"
	opSet      = "set"
	opCacheGet = "cache_get"
	opCacheSet = "cache_set"
)

// Store is a resilient client over a Backend.
//
// Get and Set are durable: transient failures drop the connection, wait the
// policy backoff, re-dial and try again, up to the policy attempt limit.
// CacheGet and CacheSet are best-effort and make exactly one call.
//
// A Store is safe for concurrent use. The connection handle is guarded by a
// mutex; backend calls themselves run outside the lock.
type Store struct {
	dial   Dialer
	policy RetryPolicy

	mu   sync.Mutex
	conn Backend
}

// Option is a functional option for configuring Store instances.
type Option func(*Store)

// WithRetryPolicy sets the policy used by durable operations.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// New creates a Store that opens connections with dial. No connection is
// made until the first operation.
func New(dial Dialer, opts ...Option) *Store {
	s := &Store{
		dial:   dial,
		policy: DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the retry policy in effect.
func (s *Store) Policy() RetryPolicy {
	return s.policy
}

// Get reads key, retrying transient failures. A missing key returns
// ErrNotFound without retry. Exhausting all attempts returns a
// StructuredError with ErrCodeUnavailable wrapping the last failure.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.durable(ctx, opGet, key, func(b Backend) error {
		v, err := b.Get(ctx, key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}

// Set writes key, retrying transient failures the same way Get does.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.durable(ctx, opSet, key, func(b Backend) error {
		return b.Set(ctx, key, value, ttl)
	})
}

// CacheGet reads key once. Any failure, including a miss, is returned to
// the caller, which is expected to treat it as "no cached value".
func (s *Store) CacheGet(ctx context.Context, key string) (string, error) {
	var value string
	err := s.once(ctx, opCacheGet, func(b Backend) error {
		v, err := b.Get(ctx, key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}

// CacheSet writes key once with the given ttl.
func (s *Store) CacheSet(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.once(ctx, opCacheSet, func(b Backend) error {
		return b.Set(ctx, key, value, ttl)
	})
}

// Ping opens a connection if none is held. Readiness checks use it.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.connection(ctx)
	return err
}

// Close releases the current connection, if any.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *Store) durable(ctx context.Context, op, key string, fn func(Backend) error) error {
	attempt := 0
	err := s.policy.Do(func() error {
		attempt++
		storeAttempts.WithLabelValues(op).Inc()
		if attempt > 1 {
			storeRetries.WithLabelValues(op).Inc()
			slog.Debug("retrying store operation", "op", op, "key", key, "attempt", attempt)
		}
		return s.call(ctx, fn)
	})
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}

	storeFailures.WithLabelValues(op).Inc()
	if !IsTransient(err) {
		return err
	}

	slog.Error("store operation failed",
		"op", op,
		"key", key,
		"attempts", attempt,
		"error", err,
	)
	return cnserrors.WrapWithContext(cnserrors.ErrCodeUnavailable,
		fmt.Sprintf("store %s failed after %d attempts", op, attempt), err,
		map[string]any{"op": op, "key": key, "attempts": attempt})
}

func (s *Store) once(ctx context.Context, op string, fn func(Backend) error) error {
	storeAttempts.WithLabelValues(op).Inc()
	err := s.call(ctx, fn)
	if err != nil && !errors.Is(err, ErrNotFound) {
		storeFailures.WithLabelValues(op).Inc()
	}
	return err
}

// call runs fn on the current connection. A transient failure drops the
// connection so the next call re-dials.
func (s *Store) call(ctx context.Context, fn func(Backend) error) error {
	conn, err := s.connection(ctx)
	if err != nil {
		return err
	}
	err = fn(conn)
	if IsTransient(err) {
		s.reset(conn)
	}
	return err
}

func (s *Store) connection(ctx context.Context) (Backend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn, nil
	}
	if s.dial == nil {
		return nil, fmt.Errorf("%w: no dialer configured", ErrConnection)
	}

	conn, err := s.dial(ctx)
	if err != nil {
		if IsTransient(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	storeDials.Inc()
	s.conn = conn
	return conn, nil
}

// reset closes conn if it is still the current connection.
func (s *Store) reset(conn Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != conn {
		return
	}
	if err := conn.Close(); err != nil {
		slog.Debug("error closing store connection", "error", err)
	}
	s.conn = nil
}
