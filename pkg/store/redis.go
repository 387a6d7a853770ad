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
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NVIDIA/scoring-api/pkg/defaults"
)

// RedisConfig configures a redis Backend.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	OpTimeout   time.Duration
}

type redisBackend struct {
	client *redis.Client
}

// RedisDialer returns a Dialer that connects to redis and verifies the
// connection with PING. The client's own retries are disabled so the Store
// retry policy is the only one in effect.
func RedisDialer(cfg RedisConfig) Dialer {
	if cfg.Addr == "" {
		cfg.Addr = defaults.StoreAddr
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaults.StoreDialTimeout
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaults.StoreOpTimeout
	}

	return func(ctx context.Context) (Backend, error) {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.OpTimeout,
			WriteTimeout: cfg.OpTimeout,
			MaxRetries:   -1,
			PoolSize:     1,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("%w: redis %s: %w", ErrConnection, cfg.Addr, err)
		}
		return &redisBackend{client: client}, nil
	}
}

func (r *redisBackend) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", classifyRedis(err)
	}
	return v, nil
}

func (r *redisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return classifyRedis(r.client.Set(ctx, key, value, ttl).Err())
}

func (r *redisBackend) Close() error {
	return r.client.Close()
}

func classifyRedis(err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return Classify(err)
}
