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
	"database/sql"
	"errors"
	"fmt"
	"time"

	"k8s.io/utils/clock"
	"modernc.org/sqlite"
)

const (
	sqliteDriver = "sqlite"

	sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER
)`

	sqliteGet = `SELECT value, expires_at FROM kv WHERE key = ?`

	sqliteSet = `INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`

	sqliteDeleteExpired = `DELETE FROM kv WHERE key = ? AND expires_at IS NOT NULL AND expires_at <= ?`

	// Primary result codes, extended codes are masked down to these.
	sqliteBusy   = 5
	sqliteLocked = 6
)

// SQLiteConfig configures a SQLite Backend.
type SQLiteConfig struct {
	// Path is the database file. ":memory:" keeps data for the life of
	// the connection only.
	Path        string
	BusyTimeout time.Duration
	Clock       clock.PassiveClock
}

type sqliteBackend struct {
	db    *sql.DB
	clock clock.PassiveClock
}

// SQLiteDialer returns a Dialer that opens the database file, creates the
// kv table when missing and verifies the connection.
func SQLiteDialer(cfg SQLiteConfig) Dialer {
	if cfg.Path == "" {
		cfg.Path = ":memory:"
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}

	return func(ctx context.Context) (Backend, error) {
		db, err := sql.Open(sqliteDriver, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: open sqlite %s: %w", ErrConnection, cfg.Path, err)
		}
		// One connection matches the single-connection model of the Store
		// and keeps ":memory:" databases coherent.
		db.SetMaxOpenConns(1)

		if cfg.BusyTimeout > 0 {
			pragma := fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds())
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("%w: configure sqlite: %w", ErrConnection, err)
			}
		}

		if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: init sqlite schema: %w", ErrConnection, err)
		}

		return &sqliteBackend{db: db, clock: cfg.Clock}, nil
	}
}

func (s *sqliteBackend) Get(ctx context.Context, key string) (string, error) {
	var (
		value     string
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, sqliteGet, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", classifySQLite(err)
	}

	now := s.clock.Now().UnixMilli()
	if expiresAt.Valid && expiresAt.Int64 <= now {
		if _, err := s.db.ExecContext(ctx, sqliteDeleteExpired, key, now); err != nil {
			return "", classifySQLite(err)
		}
		return "", ErrNotFound
	}
	return value, nil
}

func (s *sqliteBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: s.clock.Now().Add(ttl).UnixMilli(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, sqliteSet, key, value, expiresAt)
	return classifySQLite(err)
}

func (s *sqliteBackend) Close() error {
	return s.db.Close()
}

func classifySQLite(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqliteBusy, sqliteLocked:
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
	}
	return Classify(err)
}
