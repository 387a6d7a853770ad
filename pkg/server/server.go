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

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Server represents the HTTP server
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	checks      []ReadinessCheck
	mu          sync.RWMutex
	ready       bool
}

// Option is a functional option for configuring Server instances.
type Option func(*Server)

// WithConfig replaces the server configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithName sets the server name reported by the root route.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the server version.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// WithHandler adds routes to the server. Later options override earlier
// ones for the same path.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		if s.config.Handlers == nil {
			s.config.Handlers = make(map[string]http.HandlerFunc, len(handlers))
		}
		for path, h := range handlers {
			s.config.Handlers[path] = h
		}
	}
}

// WithReadinessCheck adds a check consulted by GET /ready.
func WithReadinessCheck(check ReadinessCheck) Option {
	return func(s *Server) {
		s.checks = append(s.checks, check)
	}
}

// New creates a new server instance
func New(opts ...Option) *Server {
	s := &Server{
		config: NewConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	s.httpServer = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.setupRoutes(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}

	return s
}

// Handler returns the root handler, including all routes.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) setReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *Server) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	slog.Info("server listening",
		"name", s.config.Name,
		"address", ln.Addr().String(),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	s.setReady(true)
	notifySystemd(daemon.SdNotifyReady)

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.setReady(false)
		if !ok {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.setReady(false)
	notifySystemd(daemon.SdNotifyStopping)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server", "timeout", s.config.ShutdownTimeout.String())
	return s.httpServer.Shutdown(shutdownCtx)
}

// Run starts the server and blocks until ctx is done or SIGINT/SIGTERM
// arrives.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("server config",
		slog.String("name", s.config.Name),
		slog.String("version", s.config.Version),
		slog.String("address", s.httpServer.Addr),
		slog.Any("rateLimit", s.config.RateLimit),
		slog.Int("rateLimitBurst", s.config.RateLimitBurst),
		slog.Duration("readTimeout", s.config.ReadTimeout),
		slog.Duration("writeTimeout", s.config.WriteTimeout),
		slog.Duration("idleTimeout", s.config.IdleTimeout),
		slog.Duration("shutdownTimeout", s.config.ShutdownTimeout),
	)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// notifySystemd reports state to the service manager. It is a no-op when
// not running under systemd.
func notifySystemd(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		slog.Warn("systemd notification failed", "state", state, "error", err)
		return
	}
	if sent {
		slog.Debug("systemd notified", "state", state)
	}
}
