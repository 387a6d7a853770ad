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
	"time"

	"k8s.io/utils/clock"

	"github.com/NVIDIA/scoring-api/pkg/schema"
	"github.com/NVIDIA/scoring-api/pkg/scoring"
)

// Method names accepted in the envelope.
const (
	MethodOnlineScore      = "online_score"
	MethodClientsInterests = "clients_interests"
)

const (
	// MsgIncorrectData is reported when a score request has no usable
	// attribute pair.
	MsgIncorrectData = "incorrect data"

	// MsgUnexpectedMethod is reported for an unknown method name.
	MsgUnexpectedMethod = "unexpected method"
)

var envelopeSchema = schema.NewSchema("method_request",
	schema.Field{Name: "account", Kind: schema.KindChar, Nullable: true},
	schema.Field{Name: "login", Kind: schema.KindChar, Required: true, Nullable: true},
	schema.Field{Name: "token", Kind: schema.KindChar, Required: true, Nullable: true},
	schema.Field{Name: "arguments", Kind: schema.KindArguments, Required: true, Nullable: true},
	schema.Field{Name: "method", Kind: schema.KindChar, Required: true},
)

var scoreSchema = schema.NewSchema(MethodOnlineScore,
	schema.Field{Name: "first_name", Kind: schema.KindChar, Nullable: true},
	schema.Field{Name: "last_name", Kind: schema.KindChar, Nullable: true},
	schema.Field{Name: "email", Kind: schema.KindEmail, Nullable: true},
	schema.Field{Name: "phone", Kind: schema.KindPhone, Nullable: true},
	schema.Field{Name: "birthday", Kind: schema.KindBirthDay, Nullable: true},
	schema.Field{Name: "gender", Kind: schema.KindGender, Nullable: true},
)

var interestsSchema = schema.NewSchema(MethodClientsInterests,
	schema.Field{Name: "client_ids", Kind: schema.KindClientIDs, Required: true},
	schema.Field{Name: "date", Kind: schema.KindDate, Nullable: true},
)

// Envelope is a validated method call.
type Envelope struct {
	Account   string
	Login     string
	Token     string
	Arguments map[string]any
	Method    string
}

// IsAdmin reports whether the caller logged in as the admin user.
func (e *Envelope) IsAdmin() bool {
	return e.Login == AdminLogin
}

// BindEnvelope validates body as a method call. On failure the Envelope is
// nil and the returned record carries the error text.
func BindEnvelope(body map[string]any, clk clock.PassiveClock) (*Envelope, *schema.Record) {
	rec := envelopeSchema.Bind(body, clk)
	if !rec.CheckRequest() {
		return nil, rec
	}

	return &Envelope{
		Account:   text(rec, "account"),
		Login:     text(rec, "login"),
		Token:     text(rec, "token"),
		Arguments: rec.Map("arguments"),
		Method:    text(rec, "method"),
	}, rec
}

// ScoreRequest is the argument record of online_score.
type ScoreRequest struct {
	*schema.Record
}

// BindScoreRequest validates args and applies the pair rule: at least one
// of phone+email, first_name+last_name or gender+birthday must be present.
func BindScoreRequest(args map[string]any, clk clock.PassiveClock) *ScoreRequest {
	r := &ScoreRequest{Record: scoreSchema.Bind(args, clk)}
	if r.Valid() && !r.hasPair() {
		r.Invalidate(MsgIncorrectData)
	}
	return r
}

func (r *ScoreRequest) hasPair() bool {
	return (r.Has("phone") && r.Has("email")) ||
		(r.Has("first_name") && r.Has("last_name")) ||
		(r.Has("gender") && r.Has("birthday"))
}

// Profile returns the scoring attributes of the request.
func (r *ScoreRequest) Profile() scoring.Profile {
	return scoring.Profile{
		FirstName: r.Text("first_name"),
		LastName:  r.Text("last_name"),
		Email:     r.Text("email"),
		Phone:     r.Text("phone"),
		Birthday:  r.Time("birthday"),
		Gender:    r.Int("gender"),
	}
}

// InterestsRequest is the argument record of clients_interests.
type InterestsRequest struct {
	*schema.Record
}

// BindInterestsRequest validates args.
func BindInterestsRequest(args map[string]any, clk clock.PassiveClock) *InterestsRequest {
	return &InterestsRequest{Record: interestsSchema.Bind(args, clk)}
}

// ClientIDs returns the requested ids in order, duplicates included.
func (r *InterestsRequest) ClientIDs() []int {
	return r.Ints("client_ids")
}

// Date returns the optional date argument.
func (r *InterestsRequest) Date() *time.Time {
	return r.Time("date")
}

func text(rec *schema.Record, name string) string {
	if s := rec.Text(name); s != nil {
		return *s
	}
	return ""
}
