// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// SQLite schema for the submission history log
const Schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Submissions table: one row per confirmed screen result
CREATE TABLE IF NOT EXISTS submissions (
    id TEXT PRIMARY KEY,
    screen_id TEXT NOT NULL,
    submitted_at INTEGER NOT NULL, -- Unix timestamp
    values_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_screen ON submissions(screen_id);
CREATE INDEX IF NOT EXISTS idx_submissions_time ON submissions(submitted_at);
`

// InitMetadata records the schema version on first open
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`
