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

package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"k8s.io/utils/clock"
)

// Kind selects the value-shape rule a Field enforces.
type Kind int

const (
	// KindChar accepts any string.
	KindChar Kind = iota
	// KindArguments accepts a JSON object.
	KindArguments
	// KindEmail accepts a string containing '@'.
	KindEmail
	// KindPhone accepts 11 digits starting with 7, as a string or a number.
	KindPhone
	// KindDate accepts a DD.MM.YYYY string.
	KindDate
	// KindBirthDay accepts a DD.MM.YYYY string no more than MaxAgeYears ago.
	KindBirthDay
	// KindGender accepts the integers 0, 1 and 2.
	KindGender
	// KindClientIDs accepts a list of integers. It skips the shared
	// required/nullable rule and applies its own, see validateClientIDs.
	KindClientIDs
)

const (
	// DateLayout is the accepted date format, DD.MM.YYYY.
	DateLayout = "02.01.2006"

	// MaxAgeYears is the oldest accepted age, in 365-day years.
	MaxAgeYears = 70

	phoneLength = 11
	phonePrefix = "7"
)

// Gender values.
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

var kindNames = map[Kind]string{
	KindChar:      "char",
	KindArguments: "arguments",
	KindEmail:     "email",
	KindPhone:     "phone",
	KindDate:      "date",
	KindBirthDay:  "birthday",
	KindGender:    "gender",
	KindClientIDs: "client_ids",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Field is an immutable validation unit for one named value. A Field is
// declared once in a Schema table and shared by every Record bound from it.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Nullable bool
}

// Validate checks raw against the field's rules using the wall clock and
// returns the normalized value. A nil value with a nil error means the field
// is nullable and was absent.
func (f Field) Validate(raw any) (any, error) {
	return f.ValidateAt(raw, clock.RealClock{})
}

// ValidateAt is Validate with an explicit clock for age checks.
//
// Normalized values per kind: string for char, email and phone;
// map[string]any for arguments; time.Time (UTC midnight) for date and
// birthday; int for gender; []int for client ids.
func (f Field) ValidateAt(raw any, clk clock.PassiveClock) (any, error) {
	if f.Kind == KindClientIDs {
		return f.validateClientIDs(raw)
	}

	if f.Required && raw == nil {
		return nil, f.fail(MsgRequired)
	}
	if raw == nil {
		if !f.Nullable {
			return nil, f.fail(MsgNotNullable)
		}
		return nil, nil
	}

	switch f.Kind {
	case KindChar:
		s, ok := raw.(string)
		if !ok {
			return nil, f.fail(MsgChar)
		}
		return s, nil

	case KindArguments:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, f.fail(MsgArguments)
		}
		return m, nil

	case KindEmail:
		s, ok := raw.(string)
		if !ok || !strings.Contains(s, "@") {
			return nil, f.fail(MsgEmail)
		}
		return s, nil

	case KindPhone:
		s, ok := stringify(raw)
		if !ok || len(s) != phoneLength || !isDigits(s) || !strings.HasPrefix(s, phonePrefix) {
			return nil, f.fail(MsgPhone)
		}
		return s, nil

	case KindDate:
		return f.parseDate(raw)

	case KindBirthDay:
		d, err := f.parseDate(raw)
		if err != nil {
			return nil, err
		}
		if tooOld(d, clk.Now()) {
			return nil, f.fail(MsgBirthDay)
		}
		return d, nil

	case KindGender:
		n, ok := asInt(raw)
		if !ok || n < GenderUnknown || n > GenderFemale {
			return nil, f.fail(MsgGender)
		}
		return n, nil
	}

	return nil, f.fail("unsupported field kind " + f.Kind.String())
}

// validateClientIDs treats an empty list like a missing one and never
// consults Nullable: an absent value on an optional client id field still
// fails the list check.
func (f Field) validateClientIDs(raw any) (any, error) {
	var items []any
	isList := true

	switch v := raw.(type) {
	case []any:
		items = v
	case []int:
		items = make([]any, len(v))
		for i, n := range v {
			items[i] = n
		}
	default:
		isList = false
	}

	if f.Required && (raw == nil || (isList && len(items) == 0)) {
		return nil, f.fail(MsgRequired)
	}
	if !isList {
		return nil, f.fail(MsgClientIDsList)
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := asInt(item)
		if !ok {
			return nil, f.fail(MsgClientIDsInt)
		}
		ids = append(ids, n)
	}
	return ids, nil
}

func (f Field) parseDate(raw any) (time.Time, error) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, f.fail(MsgDate)
	}
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, f.fail(MsgDate)
	}
	return d, nil
}

func (f Field) fail(msg string) *ValidationError {
	return &ValidationError{Field: f.Name, Message: msg}
}

// tooOld reports whether the age in whole days, divided by 365, exceeds
// MaxAgeYears. Partial days are dropped.
func tooOld(birthday, now time.Time) bool {
	days := int64(now.UTC().Sub(birthday) / (24 * time.Hour))
	return float64(days)/365 > MaxAgeYears
}

// asInt accepts Go integers, json.Number without a fraction or exponent,
// and integral float64 values. Booleans and strings are rejected.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		return int(i), true
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// stringify renders strings and numbers the way they appear in JSON.
func stringify(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case json.Number:
		return n.String(), true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	default:
		return "", false
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
