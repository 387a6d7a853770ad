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

// Package config loads scoringd settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables, then command line flags applied by the caller.
// Durations in the file use Go syntax ("250ms", "5s"). STORE_BACKOFF also
// accepts a bare number of seconds.
//
//	server:
//	  port: 8080
//	store:
//	  backend: redis
//	  addr: localhost:6379
//	  attempts: 5
//	  backoff: 5s
package config
