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

package method

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	testingclock "k8s.io/utils/clock/testing"

	cnserrors "github.com/NVIDIA/scoring-api/pkg/errors"
	"github.com/NVIDIA/scoring-api/pkg/schema"
	"github.com/NVIDIA/scoring-api/pkg/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2025, time.June, 15, 13, 45, 0, 0, time.UTC)

type fixture struct {
	store *store.Store
	d     *Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	st := store.New(mem.Dialer(), store.WithRetryPolicy(store.RetryPolicy{Attempts: 2, Backoff: time.Millisecond}))
	return &fixture{
		store: st,
		d:     NewDispatcher(st, WithClock(testingclock.NewFakePassiveClock(fixedNow))),
	}
}

func userCall(account, login, method string, args map[string]any) map[string]any {
	return map[string]any{
		"account":   account,
		"login":     login,
		"method":    method,
		"token":     UserToken(account, login, DefaultSalt),
		"arguments": args,
	}
}

func adminCall(method string, args map[string]any) map[string]any {
	return map[string]any{
		"account":   "horns&hoofs",
		"login":     AdminLogin,
		"method":    method,
		"token":     AdminToken(fixedNow, DefaultAdminSalt),
		"arguments": args,
	}
}

func TestEmptyRequest(t *testing.T) {
	f := newFixture(t)
	resp, code, err := f.d.Handle(context.Background(), map[string]any{}, Context{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, schema.MsgRequired, resp)
}

func TestBadAuth(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"wrong user token", map[string]any{
			"account": "horns&hoofs", "login": "h&f", "method": MethodOnlineScore,
			"token": "55cc9ce545bcd144300fe9efc28e65d415b923ebb6be1e19d2750a2c03e80dd209a27954dca045e5bb12418e7d89b6d718a9e35af34e14e1d5bcd5a08f21fc95",
			"arguments": map[string]any{},
		}},
		{"empty token", map[string]any{
			"account": "horns&hoofs", "login": "h&f", "method": MethodOnlineScore,
			"token": "", "arguments": map[string]any{},
		}},
		{"admin with user-style token", map[string]any{
			"account": "", "login": AdminLogin, "method": MethodOnlineScore,
			"token": UserToken("", AdminLogin, DefaultSalt), "arguments": map[string]any{},
		}},
		{"admin token from previous hour", map[string]any{
			"account": "", "login": AdminLogin, "method": MethodOnlineScore,
			"token": AdminToken(fixedNow.Add(-time.Hour), DefaultAdminSalt), "arguments": map[string]any{},
		}},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, code, err := f.d.Handle(context.Background(), tt.body, Context{})
			require.NoError(t, err)
			assert.Equal(t, http.StatusForbidden, code)
			assert.Nil(t, resp)
		})
	}
}

func TestInvalidEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"missing method", map[string]any{"account": "a", "login": "b", "token": "c", "arguments": map[string]any{}}, schema.MsgRequired},
		{"missing arguments", map[string]any{"account": "a", "login": "b", "token": "c", "method": "m"}, schema.MsgRequired},
		{"null method", map[string]any{"login": "b", "token": "c", "arguments": map[string]any{}, "method": nil}, schema.MsgRequired},
		{"numeric login", map[string]any{"login": 5, "token": "c", "arguments": map[string]any{}, "method": "m"}, schema.MsgChar},
		{"arguments not an object", map[string]any{"login": "b", "token": "c", "arguments": "x", "method": "m"}, schema.MsgArguments},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, code, err := f.d.Handle(context.Background(), tt.body, Context{})
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, code)
			assert.Equal(t, tt.want, resp)
		})
	}
}

func TestUnexpectedMethod(t *testing.T) {
	f := newFixture(t)
	resp, code, err := f.d.Handle(context.Background(),
		userCall("horns&hoofs", "h&f", "delete_everything", map[string]any{}), Context{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, MsgUnexpectedMethod, resp)
}

func TestInvalidScoreRequest(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"empty", map[string]any{}},
		{"phone only", map[string]any{"phone": "79175002040"}},
		{"phone with 8 prefix", map[string]any{"phone": "89175002040", "email": "stupnikov@otus.ru"}},
		{"email without at", map[string]any{"phone": "79175002040", "email": "stupnikovotus.ru"}},
		{"gender out of range", map[string]any{"phone": "79175002040", "email": "stupnikov@otus.ru", "gender": -1}},
		{"gender as string", map[string]any{"phone": "79175002040", "email": "stupnikov@otus.ru", "gender": "1"}},
		{"birthday too old", map[string]any{"phone": "79175002040", "email": "stupnikov@otus.ru", "gender": 1, "birthday": "01.01.1890"}},
		{"birthday bad format", map[string]any{"phone": "79175002040", "email": "stupnikov@otus.ru", "gender": 1, "birthday": "XXX"}},
		{"first name not a string", map[string]any{"phone": "79175002040", "email": "stupnikov@otus.ru", "gender": 1, "birthday": "01.01.2000", "first_name": 1}},
		{"last name not a string", map[string]any{"phone": "79175002040", "email": "stupnikov@otus.ru", "gender": 1, "birthday": "01.01.2000", "first_name": "s", "last_name": 2}},
		{"no complete pair", map[string]any{"phone": "79175002040", "birthday": "01.01.2000", "first_name": "s"}},
		{"email and gender only", map[string]any{"email": "stupnikov@otus.ru", "gender": 1, "last_name": 2}},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := Context{}
			resp, code, err := f.d.Handle(context.Background(),
				userCall("horns&hoofs", "h&f", MethodOnlineScore, tt.args), rc)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, code)
			assert.NotEmpty(t, resp)
			assert.NotContains(t, rc, CtxHas)
		})
	}
}

func TestScoreBirthdayAgeLimit(t *testing.T) {
	tests := []struct {
		name     string
		daysBack int
		wantCode int
	}{
		{"last accepted day", 25550, http.StatusOK},
		{"first rejected day", 25551, http.StatusUnprocessableEntity},
		{"ten days over", 25560, http.StatusUnprocessableEntity},
		{"seventy calendar years", 25568, http.StatusUnprocessableEntity},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{
				"gender":   1,
				"birthday": fixedNow.AddDate(0, 0, -tt.daysBack).Format(schema.DateLayout),
			}
			resp, code, err := f.d.Handle(context.Background(),
				userCall("horns&hoofs", "h&f", MethodOnlineScore, args), Context{})
			require.NoError(t, err)
			require.Equal(t, tt.wantCode, code, resp)
			if code == http.StatusOK {
				assert.Equal(t, 1.5, resp.(map[string]any)["score"])
				return
			}
			assert.Equal(t, schema.MsgBirthDay, resp)
		})
	}
}

func TestOkScoreRequest(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want float64
	}{
		{"phone and email", map[string]any{"phone": "79175002040", "email": "stupnikov@otus.ru"}, 3.0},
		{"numeric phone", map[string]any{"phone": json.Number("79175002040"), "email": "stupnikov@otus.ru"}, 3.0},
		{"gender and birthday", map[string]any{"gender": 1, "birthday": "01.01.2000"}, 1.5},
		{"unknown gender and birthday", map[string]any{"gender": 0, "birthday": "01.01.2000"}, 0},
		{"full name", map[string]any{"first_name": "a", "last_name": "b"}, 0.5},
		{"everything", map[string]any{
			"gender": 2, "birthday": "01.01.2000", "first_name": "a", "last_name": "b",
			"phone": "79175002040", "email": "stupnikov@otus.ru",
		}, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rc := Context{}
			resp, code, err := f.d.Handle(context.Background(),
				userCall("horns&hoofs", "h&f", MethodOnlineScore, tt.args), rc)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, code, resp)

			body, ok := resp.(map[string]any)
			require.True(t, ok)
			score, ok := body["score"].(float64)
			require.True(t, ok)
			assert.InDelta(t, tt.want, score, 1e-9)

			has, ok := rc[CtxHas].([]string)
			require.True(t, ok)
			assert.ElementsMatch(t, keys(tt.args), has)
		})
	}
}

func TestScoreContextListsFieldsInDeclarationOrder(t *testing.T) {
	f := newFixture(t)
	rc := Context{}
	_, code, err := f.d.Handle(context.Background(), userCall("a", "b", MethodOnlineScore, map[string]any{
		"gender": 1, "phone": "79175002040", "email": "x@y", "birthday": "01.01.2000",
	}), rc)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)

	if diff := cmp.Diff([]string{"email", "phone", "birthday", "gender"}, rc[CtxHas]); diff != "" {
		t.Errorf("has mismatch (-want +got):\n%s", diff)
	}
}

func TestOkScoreAdminRequest(t *testing.T) {
	f := newFixture(t)
	rc := Context{}
	resp, code, err := f.d.Handle(context.Background(),
		adminCall(MethodOnlineScore, map[string]any{"phone": "79175002040", "email": "stupnikov@otus.ru"}), rc)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)

	score := resp.(map[string]any)["score"]
	assert.Equal(t, float64(AdminScore), score)
	assert.Equal(t, []string{"email", "phone"}, rc[CtxHas])

	key := BindScoreRequest(map[string]any{"phone": "79175002040", "email": "stupnikov@otus.ru"}, nil).Profile().CacheKey()
	_, err = f.store.CacheGet(context.Background(), key)
	assert.ErrorIs(t, err, store.ErrNotFound, "admin scores are not cached")
}

func TestScoreUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	args := map[string]any{"phone": "79175002040", "email": "stupnikov@otus.ru"}

	_, code, err := f.d.Handle(ctx, userCall("a", "b", MethodOnlineScore, args), Context{})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)

	key := BindScoreRequest(args, nil).Profile().CacheKey()
	cached, err := f.store.CacheGet(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "3", cached)

	require.NoError(t, f.store.CacheSet(ctx, key, "9.5", time.Hour))

	resp, _, err := f.d.Handle(ctx, userCall("a", "b", MethodOnlineScore, args), Context{})
	require.NoError(t, err)
	assert.Equal(t, 9.5, resp.(map[string]any)["score"])
}

func TestInvalidInterestsRequest(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"empty", map[string]any{}, schema.MsgRequired},
		{"date only", map[string]any{"date": "20.07.2017"}, schema.MsgRequired},
		{"empty ids", map[string]any{"client_ids": []any{}, "date": "20.07.2017"}, schema.MsgRequired},
		{"ids not a list", map[string]any{"client_ids": map[string]any{"1": 2}, "date": "20.07.2017"}, schema.MsgClientIDsList},
		{"string id", map[string]any{"client_ids": []any{"1", "2"}, "date": "20.07.2017"}, schema.MsgClientIDsInt},
		{"bad date", map[string]any{"client_ids": []any{1, 2}, "date": "XXX"}, schema.MsgDate},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := Context{}
			resp, code, err := f.d.Handle(context.Background(),
				userCall("horns&hoofs", "h&f", MethodClientsInterests, tt.args), rc)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, code)
			assert.Equal(t, tt.want, resp)
			assert.NotContains(t, rc, CtxNClients)
		})
	}
}

func TestOkInterestsRequest(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"two ids with date", map[string]any{"client_ids": []any{1, 2, 3}, "date": "19.07.2017"}},
		{"single id", map[string]any{"client_ids": []any{0}}},
		{"json numbers", map[string]any{"client_ids": []any{json.Number("1"), json.Number("2")}}},
		{"duplicates", map[string]any{"client_ids": []any{2, 2, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			require.NoError(t, f.store.Set(ctx, "i:1", `["cars","pets"]`, 0))
			require.NoError(t, f.store.Set(ctx, "i:2", `["books"]`, 0))

			rc := Context{}
			resp, code, err := f.d.Handle(ctx, userCall("horns&hoofs", "h&f", MethodClientsInterests, tt.args), rc)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, code, resp)

			body, ok := resp.(map[string][]string)
			require.True(t, ok)

			ids := tt.args["client_ids"].([]any)
			assert.Equal(t, len(ids), rc[CtxNClients])
			for _, raw := range ids {
				key := toKey(raw)
				v, ok := body[key]
				require.True(t, ok, "missing id %s", key)
				assert.NotNil(t, v)
			}

			if v, ok := body["1"]; ok {
				assert.Equal(t, []string{"cars", "pets"}, v)
			}
			if v, ok := body["3"]; ok {
				assert.Equal(t, []string{}, v)
			}
		})
	}
}

func TestInterestsDateInContext(t *testing.T) {
	f := newFixture(t)

	rc := Context{}
	_, code, err := f.d.Handle(context.Background(), userCall("horns&hoofs", "h&f", MethodClientsInterests,
		map[string]any{"client_ids": []any{1}, "date": "19.07.2017"}), rc)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "19.07.2017", rc[CtxDate])

	rc = Context{}
	_, code, err = f.d.Handle(context.Background(), userCall("horns&hoofs", "h&f", MethodClientsInterests,
		map[string]any{"client_ids": []any{1}, "date": nil}), rc)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, rc, CtxDate)
}

func TestOkInterestsAdminRequest(t *testing.T) {
	f := newFixture(t)
	resp, code, err := f.d.Handle(context.Background(),
		adminCall(MethodClientsInterests, map[string]any{"client_ids": []any{5}}), Context{})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string][]string{"5": {}}, resp)
}

func TestInterestsStoreUnavailable(t *testing.T) {
	calls := 0
	dial := func(context.Context) (store.Backend, error) {
		calls++
		return nil, store.ErrConnection
	}
	st := store.New(dial, store.WithRetryPolicy(store.RetryPolicy{Attempts: 3, Backoff: time.Millisecond}))
	d := NewDispatcher(st, WithClock(testingclock.NewFakePassiveClock(fixedNow)))

	resp, code, err := d.Handle(context.Background(),
		userCall("a", "b", MethodClientsInterests, map[string]any{"client_ids": []any{1, 2}}), Context{})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Nil(t, resp)
	assert.Equal(t, 3, calls, "stops at the first id")
	assert.True(t, cnserrors.HasCode(err, cnserrors.ErrCodeUnavailable))
}

func TestScoreSurvivesStoreOutage(t *testing.T) {
	dial := func(context.Context) (store.Backend, error) {
		return nil, store.ErrConnection
	}
	st := store.New(dial, store.WithRetryPolicy(store.RetryPolicy{Attempts: 3, Backoff: time.Millisecond}))
	d := NewDispatcher(st, WithClock(testingclock.NewFakePassiveClock(fixedNow)))

	resp, code, err := d.Handle(context.Background(),
		userCall("a", "b", MethodOnlineScore, map[string]any{"first_name": "a", "last_name": "b"}), Context{})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.5, resp.(map[string]any)["score"])
}

func TestNilArguments(t *testing.T) {
	f := newFixture(t)
	body := userCall("a", "b", MethodOnlineScore, nil)
	body["arguments"] = nil

	resp, code, err := f.d.Handle(context.Background(), body, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, MsgIncorrectData, resp)
}

func TestMissingAccountIsEmpty(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{
		"login":     "b",
		"method":    MethodOnlineScore,
		"token":     UserToken("", "b", DefaultSalt),
		"arguments": map[string]any{"first_name": "a", "last_name": "b"},
	}

	_, code, err := f.d.Handle(context.Background(), body, Context{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
}

func TestMethods(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{MethodClientsInterests, MethodOnlineScore}, f.d.Methods())
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func toKey(v any) string {
	switch n := v.(type) {
	case json.Number:
		return n.String()
	case int:
		return strconv.Itoa(n)
	}
	return ""
}
