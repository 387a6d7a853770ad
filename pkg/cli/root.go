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

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/scoring-api/pkg/api"
	"github.com/NVIDIA/scoring-api/pkg/config"
	"github.com/NVIDIA/scoring-api/pkg/store"
)

const name = "scoringd"

// Execute runs the root command with the process arguments and exits
// non-zero on error.
func Execute() {
	if err := newRootCmd().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               api.Version(),
		EnableShellCompletion: true,
		Usage:                 "Scoring API server",
		Description: `Serves POST /method for online_score and clients_interests calls.

Settings are read from built-in defaults, then the --config file, then
environment variables (PORT, STORE_BACKEND, STORE_ADDR, STORE_ATTEMPTS,
STORE_BACKOFF, SHUTDOWN_TIMEOUT_SECONDS, LOG_LEVEL), then flags.`,
		Flags: serveFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return api.Serve(ctx, cfg)
		},
		Commands: []*cli.Command{
			tokenCmd(),
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML config file",
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "HTTP listen port",
		},
		&cli.StringFlag{
			Name:    "log",
			Aliases: []string{"l"},
			Usage:   "Append logs to this file instead of stderr",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  "store-backend",
			Usage: fmt.Sprintf("Key-value backend (supported values: %v)", store.SupportedKinds()),
		},
		&cli.StringFlag{
			Name:  "store-addr",
			Usage: "Backend address: host:port for redis, file path for sqlite",
		},
		&cli.IntFlag{
			Name:  "store-attempts",
			Usage: "Attempts per durable store operation",
		},
		&cli.DurationFlag{
			Name:  "store-backoff",
			Usage: "Pause between durable store attempts (e.g. 5s)",
		},
	}
}

// loadConfig layers explicitly set flags over config.Load.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("port") {
		cfg.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("log") {
		cfg.Log.File = cmd.String("log")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("store-backend") {
		cfg.Store.Backend = cmd.String("store-backend")
	}
	if cmd.IsSet("store-addr") {
		cfg.Store.Addr = cmd.String("store-addr")
	}
	if cmd.IsSet("store-attempts") {
		cfg.Store.Attempts = cmd.Int("store-attempts")
	}
	if cmd.IsSet("store-backoff") {
		cfg.Store.Backoff = cmd.Duration("store-backoff")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
