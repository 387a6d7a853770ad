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

package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a deserialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return false
	default:
		return true
	}
}

// FormatFromPath determines the format based on file extension.
// Extension matching is case-insensitive; unknown extensions default to YAML.
func FormatFromPath(filePath string) Format {
	lowerPath := strings.ToLower(filePath)
	switch {
	case strings.HasSuffix(lowerPath, ".json"):
		return FormatJSON
	case strings.HasSuffix(lowerPath, ".yaml"), strings.HasSuffix(lowerPath, ".yml"):
		return FormatYAML
	default:
		slog.Warn("unknown file extension, defaulting to YAML", "filePath", filePath)
		return FormatYAML
	}
}

// Reader handles deserialization of structured data from JSON or YAML.
//
// Close must be called when the Reader was created with NewFileReader.
// It is safe to call Close multiple times.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader creates a new Reader for deserializing data from input.
// If input implements io.Closer, Reader.Close closes it.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	r := &Reader{
		format: format,
		input:  input,
	}

	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}

	return r, nil
}

// NewFileReader creates a new Reader that reads from a local file.
func NewFileReader(format Format, filePath string) (*Reader, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	r, err := NewReader(format, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

// Deserialize decodes the input into v.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}

	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil

	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil {
			// An empty document leaves v untouched.
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases any resources held by the Reader.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}

	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// FromFile loads a local file and decodes it into a new T, detecting the
// format from the file extension.
func FromFile[T any](path string) (*T, error) {
	r, err := NewFileReader(FormatFromPath(path), path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			slog.Warn("failed to close reader", "path", path, "error", cerr)
		}
	}()

	var v T
	if err := r.Deserialize(&v); err != nil {
		return nil, fmt.Errorf("failed to deserialize %q: %w", path, err)
	}
	return &v, nil
}

// DecodeInto is like FromFile but decodes into an existing value, so fields
// absent from the file keep their current values.
func DecodeInto(path string, v any) error {
	r, err := NewFileReader(FormatFromPath(path), path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			slog.Warn("failed to close reader", "path", path, "error", cerr)
		}
	}()

	if err := r.Deserialize(v); err != nil {
		return fmt.Errorf("failed to deserialize %q: %w", path, err)
	}
	return nil
}
