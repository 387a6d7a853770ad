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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/scoring-api/pkg/defaults"
	cnserrors "github.com/NVIDIA/scoring-api/pkg/errors"
	"github.com/NVIDIA/scoring-api/pkg/logging"
	"github.com/NVIDIA/scoring-api/pkg/method"
	"github.com/NVIDIA/scoring-api/pkg/serializer"
	"github.com/NVIDIA/scoring-api/pkg/server"
	"github.com/NVIDIA/scoring-api/pkg/store"
)

// Environment variables read by ApplyEnv.
const (
	EnvPort            = "PORT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT_SECONDS"
	EnvStoreBackend    = "STORE_BACKEND"
	EnvStoreAddr       = "STORE_ADDR"
	EnvStorePassword   = "STORE_PASSWORD"
	EnvStoreAttempts   = "STORE_ATTEMPTS"
	EnvStoreBackoff    = "STORE_BACKOFF"
	EnvLogLevel        = logging.EnvLogLevel
	EnvLogFile         = "LOG_FILE"
)

// Config is the complete runtime configuration of scoringd.
type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Auth   AuthConfig   `json:"auth" yaml:"auth"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address         string        `json:"address" yaml:"address"`
	Port            int           `json:"port" yaml:"port"`
	RateLimit       float64       `json:"rateLimit" yaml:"rateLimit"`
	RateLimitBurst  int           `json:"rateLimitBurst" yaml:"rateLimitBurst"`
	MaxBodyBytes    int64         `json:"maxBodyBytes" yaml:"maxBodyBytes"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
}

// StoreConfig selects the key-value backend and its retry budget.
type StoreConfig struct {
	Backend     string        `json:"backend" yaml:"backend"`
	Addr        string        `json:"addr" yaml:"addr"`
	Password    string        `json:"password" yaml:"password"`
	DB          int           `json:"db" yaml:"db"`
	Attempts    int           `json:"attempts" yaml:"attempts"`
	Backoff     time.Duration `json:"backoff" yaml:"backoff"`
	DialTimeout time.Duration `json:"dialTimeout" yaml:"dialTimeout"`
	OpTimeout   time.Duration `json:"opTimeout" yaml:"opTimeout"`
}

// AuthConfig holds the token salts.
type AuthConfig struct {
	Salt      string `json:"salt" yaml:"salt"`
	AdminSalt string `json:"adminSalt" yaml:"adminSalt"`
}

// LogConfig controls the structured logger. An empty File means stderr.
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            defaults.ServerPort,
			RateLimit:       defaults.ServerRateLimit,
			RateLimitBurst:  defaults.ServerRateLimitBurst,
			MaxBodyBytes:    defaults.ServerMaxBodyBytes,
			ShutdownTimeout: defaults.ServerShutdownTimeout,
		},
		Store: StoreConfig{
			Backend:     string(store.KindMemory),
			Addr:        defaults.StoreAddr,
			Attempts:    defaults.StoreAttempts,
			Backoff:     defaults.StoreBackoff,
			DialTimeout: defaults.StoreDialTimeout,
			OpTimeout:   defaults.StoreOpTimeout,
		},
		Auth: AuthConfig{
			Salt:      method.DefaultSalt,
			AdminSalt: method.DefaultAdminSalt,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load returns the defaults overlaid with the file at path, when path is
// set, and then with the process environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := serializer.DecodeInto(path, cfg); err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidConfig, "failed to load config file", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvPort, v, err)
		}
		c.Server.Port = port
	}

	if v, ok := lookup(EnvShutdownTimeout); ok && v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvShutdownTimeout, v, err)
		}
		c.Server.ShutdownTimeout = time.Duration(seconds) * time.Second
	}

	if v, ok := lookup(EnvStoreBackend); ok && v != "" {
		c.Store.Backend = v
	}
	if v, ok := lookup(EnvStoreAddr); ok && v != "" {
		c.Store.Addr = v
	}
	if v, ok := lookup(EnvStorePassword); ok {
		c.Store.Password = v
	}

	if v, ok := lookup(EnvStoreAttempts); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvStoreAttempts, v, err)
		}
		c.Store.Attempts = n
	}

	if v, ok := lookup(EnvStoreBackoff); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return envError(EnvStoreBackoff, v, err)
		}
		c.Store.Backoff = d
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.Log.File = v
	}
	return nil
}

// Validate reports the first unusable value.
func (c *Config) Validate() error {
	switch {
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return invalid("server.port", c.Server.Port, "must be between 0 and 65535")
	case c.Server.RateLimit <= 0:
		return invalid("server.rateLimit", c.Server.RateLimit, "must be positive")
	case c.Server.RateLimitBurst <= 0:
		return invalid("server.rateLimitBurst", c.Server.RateLimitBurst, "must be positive")
	case c.Server.MaxBodyBytes <= 0:
		return invalid("server.maxBodyBytes", c.Server.MaxBodyBytes, "must be positive")
	case c.Server.ShutdownTimeout <= 0:
		return invalid("server.shutdownTimeout", c.Server.ShutdownTimeout, "must be positive")
	case c.Store.Attempts < 1:
		return invalid("store.attempts", c.Store.Attempts, "must be at least 1")
	case c.Store.Backoff < 0:
		return invalid("store.backoff", c.Store.Backoff, "must not be negative")
	case c.Auth.Salt == "" || c.Auth.AdminSalt == "":
		return invalid("auth", "", "salts must not be empty")
	}

	if _, err := store.ParseKind(c.Store.Backend); err != nil {
		return invalid("store.backend", c.Store.Backend,
			fmt.Sprintf("supported values: %v", store.SupportedKinds()))
	}
	if !knownLevel(c.Log.Level) {
		return invalid("log.level", c.Log.Level, "supported values: debug, info, warn, error")
	}
	return nil
}

// ServerOptions returns the server package configuration for name and
// version.
func (c *Config) ServerOptions(name, version string) *server.Config {
	sc := server.NewConfig()
	sc.Name = name
	sc.Version = version
	sc.Address = c.Server.Address
	sc.Port = c.Server.Port
	sc.RateLimit = rate.Limit(c.Server.RateLimit)
	sc.RateLimitBurst = c.Server.RateLimitBurst
	sc.MaxBodyBytes = c.Server.MaxBodyBytes
	sc.ShutdownTimeout = c.Server.ShutdownTimeout
	return sc
}

// BackendConfig converts to the store backend configuration.
func (c *Config) BackendConfig() (store.BackendConfig, error) {
	kind, err := store.ParseKind(c.Store.Backend)
	if err != nil {
		return store.BackendConfig{}, err
	}
	return store.BackendConfig{
		Kind:        kind,
		Addr:        c.Store.Addr,
		Password:    c.Store.Password,
		DB:          c.Store.DB,
		DialTimeout: c.Store.DialTimeout,
		OpTimeout:   c.Store.OpTimeout,
	}, nil
}

// RetryPolicy returns the durable operation retry budget.
func (c *Config) RetryPolicy() store.RetryPolicy {
	return store.RetryPolicy{
		Attempts: c.Store.Attempts,
		Backoff:  c.Store.Backoff,
	}
}

// Authenticator returns a token checker using the configured salts.
func (c *Config) Authenticator() *method.Authenticator {
	a := method.NewAuthenticator()
	a.Salt = c.Auth.Salt
	a.AdminSalt = c.Auth.AdminSalt
	return a
}

func knownLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// parseDuration accepts a Go duration or a bare number of seconds.
func parseDuration(v string) (time.Duration, error) {
	if seconds, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}

func envError(name, value string, err error) error {
	return cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidConfig,
		fmt.Sprintf("invalid value for %s", name), err,
		map[string]any{"env": name, "value": value})
}

func invalid(field string, value any, reason string) error {
	return cnserrors.WrapWithContext(cnserrors.ErrCodeInvalidConfig,
		fmt.Sprintf("invalid %s: %s", field, reason), nil,
		map[string]any{"field": field, "value": value})
}
