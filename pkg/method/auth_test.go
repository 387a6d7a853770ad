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
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testingclock "k8s.io/utils/clock/testing"
)

func sha(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestTokens(t *testing.T) {
	assert.Equal(t, sha("acc1user1Otus"), UserToken("acc1", "user1", DefaultSalt))
	assert.Equal(t, sha("202506151342"), AdminToken(fixedNow, DefaultAdminSalt))

	local := fixedNow.In(time.FixedZone("UTC+3", 3*60*60))
	assert.Equal(t, AdminToken(fixedNow, DefaultAdminSalt), AdminToken(local, DefaultAdminSalt),
		"admin token uses the UTC hour")
}

func TestAuthenticatorCheck(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(fixedNow)
	a := &Authenticator{Salt: DefaultSalt, AdminSalt: DefaultAdminSalt, Clock: clk}

	tests := []struct {
		name string
		env  Envelope
		want bool
	}{
		{"user ok", Envelope{Account: "acc", Login: "bob", Token: sha("accbobOtus")}, true},
		{"user wrong salt", Envelope{Account: "acc", Login: "bob", Token: sha("accbob")}, false},
		{"user uppercase digest", Envelope{Account: "acc", Login: "bob", Token: strings.ToUpper(sha("accbobOtus"))}, false},
		{"user empty token", Envelope{Account: "acc", Login: "bob"}, false},
		{"admin ok", Envelope{Login: AdminLogin, Token: sha("202506151342")}, true},
		{"admin ignores account", Envelope{Account: "x", Login: AdminLogin, Token: sha("202506151342")}, true},
		{"admin stale hour", Envelope{Login: AdminLogin, Token: sha("202506151242")}, false},
		{"admin login is case sensitive", Envelope{Login: "Admin", Token: sha("202506151342")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := tt.env
			assert.Equal(t, tt.want, a.Check(&env))
		})
	}
}

func TestAdminTokenValidWithinHour(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(time.Date(2025, time.June, 15, 13, 0, 0, 0, time.UTC))
	a := &Authenticator{Salt: DefaultSalt, AdminSalt: DefaultAdminSalt, Clock: clk}
	env := &Envelope{Login: AdminLogin, Token: a.ExpectedToken(&Envelope{Login: AdminLogin})}

	clk.SetTime(time.Date(2025, time.June, 15, 13, 59, 59, 0, time.UTC))
	assert.True(t, a.Check(env))

	clk.SetTime(time.Date(2025, time.June, 15, 14, 0, 0, 0, time.UTC))
	assert.False(t, a.Check(env))
}

func TestCustomSalts(t *testing.T) {
	a := &Authenticator{Salt: "pepper", AdminSalt: "7", Clock: testingclock.NewFakePassiveClock(fixedNow)}
	assert.True(t, a.Check(&Envelope{Account: "a", Login: "b", Token: sha("abpepper")}))
	assert.True(t, a.Check(&Envelope{Login: AdminLogin, Token: sha("20250615137")}))
}
