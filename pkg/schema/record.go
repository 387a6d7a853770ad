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
	"errors"
	"fmt"
	"time"

	"k8s.io/utils/clock"
)

// Schema is a named, ordered table of fields. It is built once at package
// initialization and shared read-only by every Record bound from it.
type Schema struct {
	name   string
	fields []Field
}

// NewSchema declares a schema. It panics on an empty or duplicate field
// name, since schemas are declared in package-level tables.
func NewSchema(name string, fields ...Field) *Schema {
	s := &Schema{
		name:   name,
		fields: append([]Field(nil), fields...),
	}
	seen := make(map[string]bool, len(fields))
	for i, f := range s.fields {
		if f.Name == "" {
			panic(fmt.Sprintf("schema %s: field %d has no name", name, i))
		}
		if seen[f.Name] {
			panic(fmt.Sprintf("schema %s: duplicate field %q", name, f.Name))
		}
		seen[f.Name] = true
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Bind validates raw against the schema and returns the resulting Record.
// Fields are assigned in declaration order; the first failure marks the
// record invalid and leaves every later field unset. Keys of raw that the
// schema does not declare are ignored. A nil clk means the wall clock.
func (s *Schema) Bind(raw map[string]any, clk clock.PassiveClock) *Record {
	if clk == nil {
		clk = clock.RealClock{}
	}

	r := &Record{
		schema: s,
		values: make(map[string]any, len(s.fields)),
	}

	for _, f := range s.fields {
		v, err := f.ValidateAt(raw[f.Name], clk)
		if err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				ve = &ValidationError{Field: f.Name, Message: err.Error()}
			}
			r.err = ve
			r.errText = ve.Message
			return r
		}
		if v != nil {
			r.values[f.Name] = v
		}
	}

	return r
}

// Record holds the values of one schema instance. It is owned by the call
// that bound it and is read-only apart from Invalidate.
type Record struct {
	schema  *Schema
	values  map[string]any
	err     *ValidationError
	errText string
}

// Schema returns the schema the record was bound from.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Valid reports whether every field validated and no cross-field rule
// has failed.
func (r *Record) Valid() bool {
	return r.errText == ""
}

// ErrorText returns the first failure message, or "" when valid.
func (r *Record) ErrorText() string {
	return r.errText
}

// Err returns the field validation failure, if any. Cross-field failures
// recorded with Invalidate are not field errors and leave Err nil.
func (r *Record) Err() *ValidationError {
	return r.err
}

// Invalidate marks the record invalid with msg. The first failure wins.
func (r *Record) Invalidate(msg string) {
	if r.errText == "" {
		r.errText = msg
	}
}

// CheckRequest returns the record validity. Request types with
// cross-field rules wrap it.
func (r *Record) CheckRequest() bool {
	return r.Valid()
}

// Has reports whether the named field holds a non-nil value.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Value returns the normalized value of the named field, or nil.
func (r *Record) Value(name string) any {
	return r.values[name]
}

// NotEmptyFields lists, in declaration order, the fields holding a value.
func (r *Record) NotEmptyFields() []string {
	out := make([]string, 0, len(r.values))
	for _, f := range r.schema.fields {
		if _, ok := r.values[f.Name]; ok {
			out = append(out, f.Name)
		}
	}
	return out
}

// Text returns the named string value or nil.
func (r *Record) Text(name string) *string {
	if s, ok := r.values[name].(string); ok {
		return &s
	}
	return nil
}

// Time returns the named date value or nil.
func (r *Record) Time(name string) *time.Time {
	if t, ok := r.values[name].(time.Time); ok {
		return &t
	}
	return nil
}

// Int returns the named integer value or nil.
func (r *Record) Int(name string) *int {
	if n, ok := r.values[name].(int); ok {
		return &n
	}
	return nil
}

// Ints returns the named integer list or nil.
func (r *Record) Ints(name string) []int {
	if ids, ok := r.values[name].([]int); ok {
		return append([]int(nil), ids...)
	}
	return nil
}

// Map returns the named object value or nil.
func (r *Record) Map(name string) map[string]any {
	if m, ok := r.values[name].(map[string]any); ok {
		return m
	}
	return nil
}
