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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/NVIDIA/scoring-api/pkg/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ptr[T any](v T) *T { return &v }

type brokenCache struct {
	sets int
}

func (b *brokenCache) CacheGet(context.Context, string) (string, error) {
	return "", store.ErrConnection
}

func (b *brokenCache) CacheSet(context.Context, string, string, time.Duration) error {
	b.sets++
	return store.ErrConnection
}

type brokenGetter struct{ err error }

func (b brokenGetter) Get(context.Context, string) (string, error) {
	return "", b.err
}

func TestCompute(t *testing.T) {
	birthday := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		p    Profile
		want float64
	}{
		{"empty", Profile{}, 0},
		{"phone and email", Profile{Phone: ptr("79175002040"), Email: ptr("a@b")}, 3.0},
		{"full name", Profile{FirstName: ptr("a"), LastName: ptr("b")}, 0.5},
		{"first name only", Profile{FirstName: ptr("a")}, 0},
		{"birthday and gender", Profile{Birthday: &birthday, Gender: ptr(1)}, 1.5},
		{"unknown gender does not count", Profile{Birthday: &birthday, Gender: ptr(0)}, 0},
		{"empty strings do not count", Profile{Phone: ptr(""), Email: ptr("")}, 0},
		{"everything", Profile{
			FirstName: ptr("a"), LastName: ptr("b"),
			Phone: ptr("79175002040"), Email: ptr("a@b"),
			Birthday: &birthday, Gender: ptr(2),
		}, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.p.Compute(), 1e-9)
		})
	}
}

func TestCacheKey(t *testing.T) {
	birthday := time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)
	p := Profile{FirstName: ptr("a"), LastName: ptr("b"), Phone: ptr("7"), Birthday: &birthday}

	key := p.CacheKey()
	assert.True(t, strings.HasPrefix(key, "uid:"))
	assert.Len(t, key, len("uid:")+32)

	// Email and gender are not part of the key.
	q := p
	q.Email = ptr("x@y")
	q.Gender = ptr(1)
	assert.Equal(t, key, q.CacheKey())

	// md5("") for an empty profile.
	assert.Equal(t, "uid:d41d8cd98f00b204e9800998ecf8427e", Profile{}.CacheKey())
}

func TestGetScoreCachesResult(t *testing.T) {
	s := store.New(store.NewMemory().Dialer())
	ctx := context.Background()
	p := Profile{Phone: ptr("79175002040"), Email: ptr("a@b")}

	assert.InDelta(t, 3.0, GetScore(ctx, s, p), 1e-9)

	v, err := s.CacheGet(ctx, p.CacheKey())
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestGetScoreUsesCachedValue(t *testing.T) {
	s := store.New(store.NewMemory().Dialer())
	ctx := context.Background()
	p := Profile{Phone: ptr("79175002040")}

	require.NoError(t, s.CacheSet(ctx, p.CacheKey(), "7.25", time.Hour))
	assert.InDelta(t, 7.25, GetScore(ctx, s, p), 1e-9)
}

func TestGetScoreIgnoresZeroCachedValue(t *testing.T) {
	s := store.New(store.NewMemory().Dialer())
	ctx := context.Background()
	p := Profile{Phone: ptr("79175002040")}

	require.NoError(t, s.CacheSet(ctx, p.CacheKey(), "0", time.Hour))
	assert.InDelta(t, 1.5, GetScore(ctx, s, p), 1e-9)
}

func TestGetScoreSurvivesCacheOutage(t *testing.T) {
	c := &brokenCache{}
	p := Profile{FirstName: ptr("a"), LastName: ptr("b")}

	assert.InDelta(t, 0.5, GetScore(context.Background(), c, p), 1e-9)
	assert.Equal(t, 1, c.sets)
}

func TestGetInterests(t *testing.T) {
	s := store.New(store.NewMemory().Dialer())
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "i:1", `["cars","pets"]`, 0))
	require.NoError(t, s.Set(ctx, "i:2", `[]`, 0))
	require.NoError(t, s.Set(ctx, "i:3", `not json`, 0))

	got, err := GetInterests(ctx, s, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"cars", "pets"}, got)

	got, err = GetInterests(ctx, s, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got)

	got, err = GetInterests(ctx, s, 99)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = GetInterests(ctx, s, 3)
	assert.Error(t, err)
}

func TestGetInterestsPropagatesStoreFailure(t *testing.T) {
	_, err := GetInterests(context.Background(), brokenGetter{err: store.ErrConnection}, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrConnection))
}
