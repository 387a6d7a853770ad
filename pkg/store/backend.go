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
	"fmt"
	"strings"
	"time"
)

// Backend is a single connection to a key-value service.
//
// Get returns ErrNotFound when the key is absent. Connection and timeout
// failures must wrap ErrConnection or ErrTimeout (see Classify) so the
// Store can tell them apart from permanent errors.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A zero ttl means the key does not expire.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// Dialer opens a new Backend connection.
type Dialer func(ctx context.Context) (Backend, error)

// Kind names a supported backend implementation.
type Kind string

const (
	KindMemory Kind = "memory"
	KindRedis  Kind = "redis"
	KindSQLite Kind = "sqlite"
)

// SupportedKinds lists the backend kinds accepted by NewDialer.
func SupportedKinds() []Kind {
	return []Kind{KindMemory, KindRedis, KindSQLite}
}

// ParseKind parses a backend kind, ignoring case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SupportedKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unsupported store backend %q", s)
}

// BackendConfig selects and parameterizes a backend.
type BackendConfig struct {
	Kind Kind
	// Addr is host:port for redis and a file path for sqlite. Memory
	// ignores it.
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	OpTimeout   time.Duration
}

// NewDialer returns a Dialer for the configured backend kind.
func NewDialer(cfg BackendConfig) (Dialer, error) {
	switch cfg.Kind {
	case KindMemory, "":
		return NewMemory().Dialer(), nil
	case KindRedis:
		return RedisDialer(RedisConfig{
			Addr:        cfg.Addr,
			Password:    cfg.Password,
			DB:          cfg.DB,
			DialTimeout: cfg.DialTimeout,
			OpTimeout:   cfg.OpTimeout,
		}), nil
	case KindSQLite:
		return SQLiteDialer(SQLiteConfig{
			Path:        cfg.Addr,
			BusyTimeout: cfg.OpTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Kind)
	}
}
