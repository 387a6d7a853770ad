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

// Package method implements the POST /method endpoint: envelope
// validation, token authentication and dispatch to the online_score and
// clients_interests operations.
//
// # Request
//
//	{
//	  "account": "horns&hoofs",
//	  "login": "h&f",
//	  "method": "online_score",
//	  "token": "<sha512 hex>",
//	  "arguments": {"phone": "79175002040", "email": "user@example.com"}
//	}
//
// # Authentication
//
// A caller with login "admin" must present hex(sha512(UTC hour as
// YYYYMMDDHH + admin salt)). Everyone else presents
// hex(sha512(account + login + salt)). A mismatch yields 403 with no
// explanatory text.
//
// # Responses
//
// Success is written as {"response": ..., "code": 200}. Validation failures
// are {"error": "<message>", "code": 422}. Malformed JSON or a non-object
// body is 400, and a durable store failure is 500.
//
// # Usage
//
//	st := store.New(store.NewMemory().Dialer())
//	d := method.NewDispatcher(st)
//	srv := server.New(server.WithHandler(map[string]http.HandlerFunc{
//	    "/method": d.ServeHTTP,
//	}))
//
// Handle can be called directly when the transport is not HTTP. It fills
// the supplied Context with "has" for online_score and "nclients" for
// clients_interests.
package method
