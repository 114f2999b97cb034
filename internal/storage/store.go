// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Setting keys.
const (
	KeyTutorialCompleted = "tutorial_completed"
	KeySchemaVersion     = "schema_version"
)

// ErrNotFound is returned when a setting does not exist.
var ErrNotFound = errors.New("storage: not found")

// =============================================================================
// TYPES
// =============================================================================

// Source records how an assistant exchange was started.
type Source string

const (
	SourceVoice Source = "voice"
	SourceText  Source = "text"
)

// Exchange is one assistant round trip.
type Exchange struct {
	ID        string
	Source    Source
	Prompt    string
	Response  string
	Error     string
	Language  string
	CreatedAt time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store is the plates state database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO settings(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO NOTHING`,
		KeySchemaVersion, strconv.Itoa(SchemaVersion), time.Now().Unix(),
	)
	return err
}

// =============================================================================
// SETTINGS
// =============================================================================

// Setting returns the value stored under key, or ErrNotFound.
func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting stores value under key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write setting %q: %w", key, err)
	}
	return nil
}

// IsFirstRun reports whether the tutorial has never been completed.
func (s *Store) IsFirstRun(ctx context.Context) (bool, error) {
	value, err := s.Setting(ctx, KeyTutorialCompleted)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	done, _ := strconv.ParseBool(value)
	return !done, nil
}

// MarkTutorialCompleted records that the tutorial was finished.
func (s *Store) MarkTutorialCompleted(ctx context.Context) error {
	return s.SetSetting(ctx, KeyTutorialCompleted, "true")
}

// =============================================================================
// ASSISTANT HISTORY
// =============================================================================

// RecordExchange stores an assistant exchange, filling in ID and CreatedAt
// when unset. It returns the stored exchange's ID.
func (s *Store) RecordExchange(ctx context.Context, ex Exchange) (string, error) {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now()
	}
	if ex.Source == "" {
		ex.Source = SourceText
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges(id, source, prompt, response, error, language, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, string(ex.Source), ex.Prompt, ex.Response, ex.Error, ex.Language, ex.CreatedAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record exchange: %w", err)
	}
	return ex.ID, nil
}

// RecentExchanges returns up to limit exchanges, newest first.
func (s *Store) RecentExchanges(ctx context.Context, limit int) ([]Exchange, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, prompt, response, error, language, created_at
		 FROM exchanges ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		var ex Exchange
		var source string
		var created int64
		if err := rows.Scan(&ex.ID, &source, &ex.Prompt, &ex.Response, &ex.Error, &ex.Language, &created); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		ex.Source = Source(source)
		ex.CreatedAt = time.Unix(0, created)
		out = append(out, ex)
	}
	return out, rows.Err()
}

// PruneExchanges keeps only the newest keep exchanges and returns how many
// were deleted.
func (s *Store) PruneExchanges(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM exchanges WHERE id NOT IN (
		     SELECT id FROM exchanges ORDER BY created_at DESC, rowid DESC LIMIT ?
		 )`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune exchanges: %w", err)
	}
	return res.RowsAffected()
}
