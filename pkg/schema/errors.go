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

// Validation messages. They are returned to callers verbatim.
const (
	MsgRequired      = "value is required"
	MsgNotNullable   = "value cannot be null"
	MsgChar          = "value must be a string"
	MsgArguments     = "value must be an object"
	MsgEmail         = "email must be a string containing @"
	MsgPhone         = "phone must contain 11 digits and start with 7"
	MsgDate          = "date must have format DD.MM.YYYY"
	MsgBirthDay      = "age must not exceed 70 years"
	MsgGender        = "gender must be one of 0, 1, 2"
	MsgClientIDsList = "client_ids must be a list"
	MsgClientIDsInt  = "client_ids must contain only integers"
)

// ValidationError reports the first field that failed validation.
// Error returns Message alone so it can be surfaced to callers as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
