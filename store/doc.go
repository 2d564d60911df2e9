// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists elections and lotteries.

# The Store Interface

Two implementations exist:

  - Memory: in-process maps, used by tests and DATABASE_TYPE=memory
  - SQL: Postgres (lib/pq) or SQLite (modernc.org/sqlite)

# Update Closures

All mutation goes through UpdateLottery / UpdateElection:

	updated, err := st.UpdateLottery(electionID, func(l *models.Lottery) error {
		// read, validate, mutate
		return nil // or an error to abort with no state change
	})

The closure runs under per-election mutual exclusion: concurrent updates of
the same lottery serialize, and each closure sees the previously committed
state. This is what makes the executed false→true transition happen exactly
once under concurrent execute calls. An error returned by the closure is
passed back verbatim, so typed domain errors survive the storage boundary.

# Persistence Shape

The lottery aggregate is stored as one JSON payload per election, plus
executed and scheduled_at columns for the scheduler's due-lottery query.
Elections use plain columns with questions as a JSON payload.
*/
package store
