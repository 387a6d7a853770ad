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

// Package cli implements the scoringd command line.
//
// Running scoringd with no subcommand starts the server:
//
//	scoringd --port 8080 --store-backend redis --store-addr localhost:6379
//
// The token subcommand prints the token a caller must send:
//
//	scoringd token --account horns&hoofs --login h&f
//	scoringd token --login admin
//
// # Flags
//
//	--config, -c      YAML config file
//	--port, -p        HTTP listen port (default: 8080)
//	--log, -l         Log file (default: stderr)
//	--log-level       debug, info, warn, error (default: info)
//	--store-backend   memory, redis, sqlite (default: memory)
//	--store-addr      host:port for redis, file path for sqlite
//	--store-attempts  Attempts per durable store operation (default: 5)
//	--store-backoff   Pause between attempts (default: 5s)
//
// Flags override environment variables, which override the config file.
package cli
