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

package scoring

import (
	"context"
	"crypto/md5" //nolint:gosec // cache key digest, not a security boundary
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/NVIDIA/scoring-api/pkg/defaults"
	"github.com/NVIDIA/scoring-api/pkg/store"
)

const (
	scoreKeyPrefix     = "uid:"
	interestsKeyPrefix = "i:"
	birthdayKeyLayout  = "20060102"
)

// Score weights.
const (
	WeightPhone          = 1.5
	WeightEmail          = 1.5
	WeightBirthdayGender = 1.5
	WeightFullName       = 0.5
)

var scoreCacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "scoring_score_cache_lookups_total",
		Help: "Score cache lookups by result (hit, miss, error)",
	},
	[]string{"result"},
)

// Cache is the best-effort side of the store.
type Cache interface {
	CacheGet(ctx context.Context, key string) (string, error)
	CacheSet(ctx context.Context, key, value string, ttl time.Duration) error
}

// Getter is the durable read side of the store.
type Getter interface {
	Get(ctx context.Context, key string) (string, error)
}

// Profile carries the optional client attributes that contribute to a
// score. Nil means the attribute was not supplied.
type Profile struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Birthday  *time.Time
	Gender    *int
}

// CacheKey returns the score cache key for p.
func (p Profile) CacheKey() string {
	var birthday string
	if p.Birthday != nil {
		birthday = p.Birthday.Format(birthdayKeyLayout)
	}
	sum := md5.Sum([]byte(deref(p.FirstName) + deref(p.LastName) + deref(p.Phone) + birthday)) //nolint:gosec
	return scoreKeyPrefix + hex.EncodeToString(sum[:])
}

// Compute returns the uncached score of p.
func (p Profile) Compute() float64 {
	var score float64
	if deref(p.Phone) != "" {
		score += WeightPhone
	}
	if deref(p.Email) != "" {
		score += WeightEmail
	}
	if p.Birthday != nil && p.Gender != nil && *p.Gender != 0 {
		score += WeightBirthdayGender
	}
	if deref(p.FirstName) != "" && deref(p.LastName) != "" {
		score += WeightFullName
	}
	return score
}

// GetScore returns the cached score for p when one exists and is non-zero.
// Otherwise it computes the score and caches it for an hour. Cache failures
// are logged and never fail the call.
func GetScore(ctx context.Context, c Cache, p Profile) float64 {
	key := p.CacheKey()

	cached, err := c.CacheGet(ctx, key)
	switch {
	case err == nil:
		if score, perr := strconv.ParseFloat(cached, 64); perr == nil && score != 0 {
			scoreCacheLookups.WithLabelValues("hit").Inc()
			return score
		}
		scoreCacheLookups.WithLabelValues("miss").Inc()
	case errors.Is(err, store.ErrNotFound):
		scoreCacheLookups.WithLabelValues("miss").Inc()
	default:
		scoreCacheLookups.WithLabelValues("error").Inc()
		slog.Warn("score cache read failed", "key", key, "error", err)
	}

	score := p.Compute()
	if err := c.CacheSet(ctx, key, strconv.FormatFloat(score, 'f', -1, 64), defaults.ScoreCacheTTL); err != nil {
		slog.Warn("score cache write failed", "key", key, "error", err)
	}
	return score
}

// GetInterests returns the interests stored for client id. A missing key
// yields an empty list; any other store failure is returned.
func GetInterests(ctx context.Context, g Getter, id int) ([]string, error) {
	key := interestsKeyPrefix + strconv.Itoa(id)

	raw, err := g.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read interests for client %d: %w", id, err)
	}
	if raw == "" {
		return []string{}, nil
	}

	var interests []string
	if err := json.Unmarshal([]byte(raw), &interests); err != nil {
		return nil, fmt.Errorf("failed to decode interests for client %d: %w", id, err)
	}
	if interests == nil {
		interests = []string{}
	}
	return interests, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
