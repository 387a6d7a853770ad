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

// Package serializer provides JSON response writing, JSON request decoding
// and JSON/YAML file loading.
//
// # HTTP
//
// RespondJSON buffers the encoded payload before writing headers so a
// failed encode never produces a partial response. DecodeObject reads a
// bounded request body, requires a JSON object and keeps numbers as
// json.Number so validators can tell 1 from 1.5.
//
// # Files
//
// FromFile and DecodeInto read local configuration files. The format is
// picked from the extension (.json, .yaml, .yml). YAML decoding uses
// gopkg.in/yaml.v3.
package serializer
