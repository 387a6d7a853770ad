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
	"crypto/subtle"
	"encoding/hex"
	"time"

	"k8s.io/utils/clock"
)

const (
	// AdminLogin is the login that authenticates with the hourly admin token.
	AdminLogin = "admin"

	// DefaultSalt is appended to account+login for user tokens.
	DefaultSalt = "Otus"

	// DefaultAdminSalt is appended to the current UTC hour for admin tokens.
	DefaultAdminSalt = "42"

	adminHourLayout = "2006010215"
)

// Authenticator verifies envelope tokens.
type Authenticator struct {
	Salt      string
	AdminSalt string
	Clock     clock.PassiveClock
}

// NewAuthenticator returns an Authenticator with the default salts and the
// real clock.
func NewAuthenticator() *Authenticator {
	return &Authenticator{
		Salt:      DefaultSalt,
		AdminSalt: DefaultAdminSalt,
		Clock:     clock.RealClock{},
	}
}

// ExpectedToken returns the token e must carry.
func (a *Authenticator) ExpectedToken(e *Envelope) string {
	if e.IsAdmin() {
		return AdminToken(a.now(), a.AdminSalt)
	}
	return UserToken(e.Account, e.Login, a.Salt)
}

// Check reports whether e carries the expected token. The comparison is
// exact and constant-time.
func (a *Authenticator) Check(e *Envelope) bool {
	want := a.ExpectedToken(e)
	return subtle.ConstantTimeCompare([]byte(want), []byte(e.Token)) == 1
}

func (a *Authenticator) now() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock.Now()
}

// AdminToken is hex(sha512(UTC hour "YYYYMMDDHH" + salt)).
func AdminToken(now time.Time, salt string) string {
	return digest(now.UTC().Format(adminHourLayout) + salt)
}

// UserToken is hex(sha512(account + login + salt)).
func UserToken(account, login, salt string) string {
	return digest(account + login + salt)
}

func digest(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
