// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	// Pure Go SQLite driver
	_ "modernc.org/sqlite"
)

// Common errors
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrDatabaseError      = errors.New("database error")
)

// =============================================================================
// TYPES
// =============================================================================

// Submission is one recorded screen result.
type Submission struct {
	// ID is the unique submission identifier
	ID string

	// ScreenID names the screen that produced the values
	ScreenID string

	// Values holds the collected field values
	Values map[string]any

	// SubmittedAt is when the submission was recorded
	SubmittedAt time.Time
}

// History is a SQLite-backed log of screen submissions.
type History struct {
	db *sql.DB
	mu sync.RWMutex
}

// =============================================================================
// OPEN / CLOSE
// =============================================================================

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*History, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
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
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &History{db: db}, nil
}

// Close releases the database connection.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.db.Close()
}

// =============================================================================
// RECORDING
// =============================================================================

// Record stores a submission and returns its generated ID.
func (h *History) Record(screenID string, values map[string]any) (string, error) {
	if screenID == "" {
		return "", errors.New("screen id cannot be empty")
	}
	if values == nil {
		values = map[string]any{}
	}

	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode values: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	_, err = h.db.Exec(
		"INSERT INTO submissions (id, screen_id, submitted_at, values_json) VALUES (?, ?, ?, ?)",
		id, screenID, time.Now().Unix(), string(data),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return id, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Get returns the submission with the given ID.
func (h *History) Get(id string) (*Submission, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	row := h.db.QueryRow(
		"SELECT id, screen_id, submitted_at, values_json FROM submissions WHERE id = ?",
		id,
	)
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return sub, nil
}

// Recent returns up to n submissions for screenID, newest first. A
// non-positive n returns all of them.
func (h *History) Recent(screenID string, n int) ([]Submission, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	query := "SELECT id, screen_id, submitted_at, values_json FROM submissions " +
		"WHERE screen_id = ? ORDER BY submitted_at DESC, rowid DESC"
	args := []any{screenID}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// Search returns submissions whose screen ID or recorded values contain
// the query text, newest first. Matching is case-insensitive.
func (h *History) Search(query string) ([]Submission, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	pattern := "%" + escapeLike(query) + "%"
	rows, err := h.db.Query(
		"SELECT id, screen_id, submitted_at, values_json FROM submissions "+
			"WHERE screen_id LIKE ? ESCAPE '\\' OR values_json LIKE ? ESCAPE '\\' "+
			"ORDER BY submitted_at DESC, rowid DESC",
		pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Prune deletes all but the newest max submissions and reports how many
// were removed. A non-positive max is a no-op.
func (h *History) Prune(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.db.Exec(
		"DELETE FROM submissions WHERE id NOT IN "+
			"(SELECT id FROM submissions ORDER BY submitted_at DESC, rowid DESC LIMIT ?)",
		max,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return int(removed), nil
}

// Clear deletes all submissions.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.db.Exec("DELETE FROM submissions"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(s scanner) (*Submission, error) {
	var (
		sub       Submission
		unix      int64
		valuesRaw string
	)
	if err := s.Scan(&sub.ID, &sub.ScreenID, &unix, &valuesRaw); err != nil {
		return nil, err
	}
	sub.SubmittedAt = time.Unix(unix, 0)
	if err := json.Unmarshal([]byte(valuesRaw), &sub.Values); err != nil {
		sub.Values = map[string]any{}
	}
	return &sub, nil
}

func collectSubmissions(rows *sql.Rows) ([]Submission, error) {
	var subs []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			// Skip corrupted rows rather than failing the whole query
			continue
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return subs, nil
}

// escapeLike escapes LIKE wildcards so query text matches literally.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
