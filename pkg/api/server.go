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

package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/NVIDIA/scoring-api/pkg/config"
	"github.com/NVIDIA/scoring-api/pkg/logging"
	"github.com/NVIDIA/scoring-api/pkg/method"
	"github.com/NVIDIA/scoring-api/pkg/server"
	"github.com/NVIDIA/scoring-api/pkg/store"
)

const (
	name           = "scoringd"
	versionDefault = "dev"

	// MethodPath is the route of the method endpoint.
	MethodPath = "/method"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/scoring-api/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Version returns the build version.
func Version() string {
	return version
}

// App is the assembled service: store client, dispatcher and HTTP server.
type App struct {
	Store      *store.Store
	Dispatcher *method.Dispatcher
	Server     *server.Server
}

// New assembles the service from cfg without starting it.
func New(cfg *config.Config) (*App, error) {
	bc, err := cfg.BackendConfig()
	if err != nil {
		return nil, err
	}
	dial, err := store.NewDialer(bc)
	if err != nil {
		return nil, fmt.Errorf("failed to create store dialer: %w", err)
	}

	st := store.New(dial, store.WithRetryPolicy(cfg.RetryPolicy()))
	d := method.NewDispatcher(st,
		method.WithAuthenticator(cfg.Authenticator()),
		method.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)

	s := server.New(
		server.WithConfig(cfg.ServerOptions(name, version)),
		server.WithHandler(map[string]http.HandlerFunc{
			MethodPath: d.ServeHTTP,
		}),
		server.WithReadinessCheck(st.Ping),
	)

	return &App{Store: st, Dispatcher: d, Server: s}, nil
}

// Close releases the store connection.
func (a *App) Close() error {
	return a.Store.Close()
}

// Serve configures logging, assembles the service from cfg and blocks
// until ctx is done or the process is signalled.
func Serve(ctx context.Context, cfg *config.Config) error {
	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"storeBackend", cfg.Store.Backend,
		"storeAttempts", cfg.Store.Attempts,
		"storeBackoff", cfg.Store.Backoff.String(),
	)

	app, err := New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			slog.Warn("failed to close store", "error", cerr)
		}
	}()

	if err := app.Server.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// setupLogging installs the default logger. With a file configured, output
// is appended to it and the returned func closes it.
func setupLogging(lc config.LogConfig) (func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}

	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %q: %w", lc.File, err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logging.SetDefaultStructuredLoggerWithWriter(w, name, version, lc.Level)
	return closeFn, nil
}
