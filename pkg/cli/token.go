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
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/scoring-api/pkg/method"
)

func tokenCmd() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Print the token a caller must send",
		Description: `Prints hex(sha512(account + login + salt)) for a user, or the
current hour's admin token when --login is admin.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "account",
				Usage: "Caller account",
			},
			&cli.StringFlag{
				Name:     "login",
				Usage:    "Caller login",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "salt",
				Value: method.DefaultSalt,
				Usage: "User token salt",
			},
			&cli.StringFlag{
				Name:  "admin-salt",
				Value: method.DefaultAdminSalt,
				Usage: "Admin token salt",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintln(cmd.Root().Writer, token(cmd, time.Now()))
			return err
		},
	}
}

func token(cmd *cli.Command, now time.Time) string {
	login := cmd.String("login")
	if login == method.AdminLogin {
		return method.AdminToken(now, cmd.String("admin-salt"))
	}
	return method.UserToken(cmd.String("account"), login, cmd.String("salt"))
}
