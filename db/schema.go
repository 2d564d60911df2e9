// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	schema, ok := schemas[dialect]
	if !ok {
		return fmt.Errorf("unknown database dialect %q", dialect)
	}
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

var schemas = map[string]string{
	"postgres": postgresSchema,
	"sqlite":   sqliteSchema,
}

const postgresSchema = `
-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    creator_name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'open', 'closed')),
    share_slug TEXT UNIQUE,
    questions JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL,
    closed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_election_share_slug ON election(share_slug);
CREATE INDEX IF NOT EXISTS idx_election_status ON election(status);

-- Lotteries (one per election; the aggregate lives in payload,
-- enabled/executed/scheduled_at are lifted out for the scheduler's query)
CREATE TABLE IF NOT EXISTS lottery (
    election_id TEXT PRIMARY KEY REFERENCES election(id) ON DELETE CASCADE,
    enabled BOOLEAN NOT NULL DEFAULT FALSE,
    executed BOOLEAN NOT NULL DEFAULT FALSE,
    scheduled_at TIMESTAMP,
    payload JSONB NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lottery_scheduled ON lottery(scheduled_at) WHERE enabled = TRUE AND executed = FALSE;
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    creator_name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'open', 'closed')),
    share_slug TEXT UNIQUE,
    questions TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL,
    closed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_election_share_slug ON election(share_slug);
CREATE INDEX IF NOT EXISTS idx_election_status ON election(status);

CREATE TABLE IF NOT EXISTS lottery (
    election_id TEXT PRIMARY KEY REFERENCES election(id) ON DELETE CASCADE,
    enabled BOOLEAN NOT NULL DEFAULT FALSE,
    executed BOOLEAN NOT NULL DEFAULT FALSE,
    scheduled_at TIMESTAMP,
    payload TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lottery_scheduled ON lottery(scheduled_at) WHERE enabled = TRUE AND executed = FALSE;
`
