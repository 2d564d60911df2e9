// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db creates the database schema.

CreateSchema is dialect-aware ("postgres" or "sqlite") and idempotent; main
calls it on startup:

	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil { ... }

Two tables exist: election (columns plus a questions JSON payload) and
lottery (the aggregate as a JSON payload, with executed and scheduled_at
lifted into columns for the scheduler's due-lottery query).
*/
package db
