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
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"k8s.io/utils/clock"

	"github.com/NVIDIA/scoring-api/pkg/defaults"
	"github.com/NVIDIA/scoring-api/pkg/schema"
	"github.com/NVIDIA/scoring-api/pkg/scoring"
)

// Context keys written by the dispatcher.
const (
	CtxRequestID = "request_id"
	CtxHas       = "has"
	CtxNClients  = "nclients"
	CtxDate      = "date"
)

// AdminScore is returned to admin callers of online_score.
const AdminScore = 42

// Context is the per-request observability map. Operations add keys to it
// and the transport logs it once the response is written.
type Context map[string]any

// Store is the key-value access the methods need.
type Store interface {
	scoring.Cache
	scoring.Getter
}

type handlerFunc func(ctx context.Context, env *Envelope, rc Context) (any, int, error)

// Dispatcher validates method calls, authenticates them and runs the
// requested operation.
type Dispatcher struct {
	store   Store
	auth    *Authenticator
	clock   clock.PassiveClock
	maxBody int64
	methods map[string]handlerFunc
}

// Option is a functional option for configuring Dispatcher instances.
type Option func(*Dispatcher)

// WithAuthenticator replaces the default authenticator.
func WithAuthenticator(a *Authenticator) Option {
	return func(d *Dispatcher) {
		d.auth = a
	}
}

// WithClock sets the clock used for birthday validation and, unless the
// authenticator has its own, for admin tokens.
func WithClock(clk clock.PassiveClock) Option {
	return func(d *Dispatcher) {
		d.clock = clk
	}
}

// WithMaxBodyBytes caps the request body read by ServeHTTP.
func WithMaxBodyBytes(n int64) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxBody = n
		}
	}
}

// NewDispatcher returns a Dispatcher backed by st.
func NewDispatcher(st Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:   st,
		clock:   clock.RealClock{},
		maxBody: defaults.ServerMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.auth == nil {
		d.auth = NewAuthenticator()
		d.auth.Clock = d.clock
	} else if d.auth.Clock == nil {
		d.auth.Clock = d.clock
	}

	d.methods = map[string]handlerFunc{
		MethodOnlineScore:      d.onlineScore,
		MethodClientsInterests: d.clientsInterests,
	}
	return d
}

// Methods returns the supported method names, sorted.
func (d *Dispatcher) Methods() []string {
	names := make([]string, 0, len(d.methods))
	for name := range d.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handle runs one method call. It returns the response body and status
// code; a non-nil error means the operation failed in a way the caller
// should report as an internal error.
func (d *Dispatcher) Handle(ctx context.Context, body map[string]any, rc Context) (any, int, error) {
	if rc == nil {
		rc = Context{}
	}

	env, rec := BindEnvelope(body, d.clock)
	if env == nil {
		return rec.ErrorText(), http.StatusUnprocessableEntity, nil
	}

	if !d.auth.Check(env) {
		slog.Debug("authentication failed",
			"requestID", rc[CtxRequestID],
			"login", env.Login,
			"admin", env.IsAdmin(),
		)
		return nil, http.StatusForbidden, nil
	}

	handler, ok := d.methods[env.Method]
	if !ok {
		return MsgUnexpectedMethod, http.StatusUnprocessableEntity, nil
	}
	return handler(ctx, env, rc)
}

func (d *Dispatcher) onlineScore(ctx context.Context, env *Envelope, rc Context) (any, int, error) {
	req := BindScoreRequest(env.Arguments, d.clock)
	if !req.CheckRequest() {
		return rejected(rc, req.Record)
	}

	var score float64
	if env.IsAdmin() {
		score = AdminScore
	} else {
		score = scoring.GetScore(ctx, d.store, req.Profile())
	}

	rc[CtxHas] = req.NotEmptyFields()
	return map[string]any{"score": score}, http.StatusOK, nil
}

func (d *Dispatcher) clientsInterests(ctx context.Context, env *Envelope, rc Context) (any, int, error) {
	req := BindInterestsRequest(env.Arguments, d.clock)
	if !req.CheckRequest() {
		return rejected(rc, req.Record)
	}

	ids := req.ClientIDs()
	rc[CtxNClients] = len(ids)
	if date := req.Date(); date != nil {
		rc[CtxDate] = date.Format(schema.DateLayout)
	}

	resp := make(map[string][]string, len(ids))
	for _, id := range ids {
		interests, err := scoring.GetInterests(ctx, d.store, id)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		resp[strconv.Itoa(id)] = interests
	}
	return resp, http.StatusOK, nil
}

// rejected answers a failed argument record with 422 and its error text.
func rejected(rc Context, rec *schema.Record) (any, int, error) {
	attrs := []any{"requestID", rc[CtxRequestID], "schema", rec.Schema().Name()}
	if ve := rec.Err(); ve != nil {
		attrs = append(attrs, "field", ve.Field)
	}
	slog.Debug("invalid arguments", attrs...)
	return rec.ErrorText(), http.StatusUnprocessableEntity, nil
}
