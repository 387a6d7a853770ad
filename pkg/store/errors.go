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

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

var (
	// ErrNotFound is returned by Get when the key does not exist or expired.
	ErrNotFound = errors.New("key not found")

	// ErrConnection marks a failure to reach the backend. Durable
	// operations retry it.
	ErrConnection = errors.New("store connection failed")

	// ErrTimeout marks a backend call that did not complete in time.
	// Durable operations retry it.
	ErrTimeout = errors.New("store operation timed out")
)

// IsTransient reports whether err is a connection or timeout failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrConnection) || errors.Is(err, ErrTimeout)
}

// Classify maps low-level network errors onto ErrConnection and ErrTimeout
// so backends report failures in one vocabulary. Errors it does not
// recognize are returned unchanged.
func Classify(err error) error {
	if err == nil || IsTransient(err) || errors.Is(err, ErrNotFound) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ETIMEDOUT) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return err
}
