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

// Package schema implements declarative validation of JSON method payloads.
//
// A Field is a tagged value (name, kind, required, nullable) consumed by
// Field.Validate. A Schema is an ordered table of fields declared at package
// level. Schema.Bind validates a decoded JSON object field by field and
// returns a Record holding the normalized values.
//
// # Validation Order
//
// Every kind except client ids first applies the shared rule:
//
//   - required and nil: "value is required"
//   - not nullable and nil: "value cannot be null"
//   - nullable and nil: stored as nil, no shape check
//
// The kind's own shape rule then runs. Binding stops at the first failing
// field; its message becomes Record.ErrorText and later fields stay unset.
//
// # Client IDs
//
// KindClientIDs applies its own rule instead: a required field rejects nil
// and the empty list, and Nullable is never consulted, so an absent value on
// an optional client id field fails the list check.
//
// # Example
//
//	var interests = schema.NewSchema("clients_interests",
//	    schema.Field{Name: "client_ids", Kind: schema.KindClientIDs, Required: true},
//	    schema.Field{Name: "date", Kind: schema.KindDate, Nullable: true},
//	)
//
//	rec := interests.Bind(args, nil)
//	if !rec.CheckRequest() {
//	    return rec.ErrorText(), http.StatusUnprocessableEntity
//	}
//	ids := rec.Ints("client_ids")
package schema
