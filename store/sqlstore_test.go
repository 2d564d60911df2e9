// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/lucky-ballot/db"
	"github.com/danielhkuo/lucky-ballot/models"
)

var sqlClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newSQLStore opens a fresh in-memory SQLite database with the full schema.
// A single connection keeps every query on the same in-memory database.
func newSQLStore(t *testing.T) *SQL {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.CreateSchema(conn, "sqlite"))
	return NewSQL(conn, "sqlite")
}

func createSQLElection(t *testing.T, s *SQL, id, slug string) {
	t.Helper()
	require.NoError(t, s.CreateElection(&models.Election{
		ID:        id,
		Title:     "Test",
		Status:    models.StatusDraft,
		ShareSlug: slug,
		CreatedAt: sqlClock,
	}))
}

func TestSQLElections(t *testing.T) {
	s := newSQLStore(t)
	createSQLElection(t, s, "e1", "slug-1")

	got, err := s.GetElection("e1")
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Title)
	assert.Equal(t, models.StatusDraft, got.Status)

	bySlug, err := s.GetElectionBySlug("slug-1")
	require.NoError(t, err)
	assert.Equal(t, "e1", bySlug.ID)

	_, err = s.GetElection("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetElectionBySlug("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := s.UpdateElection("e1", func(e *models.Election) error {
		e.Status = models.StatusOpen
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, updated.Status)

	stored, err := s.GetElection("e1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, stored.Status)
}

func TestSQLUpdateLottery(t *testing.T) {
	t.Run("commits on nil error", func(t *testing.T) {
		s := newSQLStore(t)
		createSQLElection(t, s, "e1", "slug-1")
		require.NoError(t, s.CreateLottery(models.NewLottery("e1", sqlClock)))

		updated, err := s.UpdateLottery("e1", func(l *models.Lottery) error {
			l.ParticipantIDs = append(l.ParticipantIDs, 101)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{101}, updated.ParticipantIDs)

		stored, err := s.GetLottery("e1")
		require.NoError(t, err)
		assert.Equal(t, []int64{101}, stored.ParticipantIDs)
	})

	t.Run("discards all changes on error", func(t *testing.T) {
		s := newSQLStore(t)
		createSQLElection(t, s, "e1", "slug-1")
		require.NoError(t, s.CreateLottery(models.NewLottery("e1", sqlClock)))

		boom := errors.New("rejected")
		_, err := s.UpdateLottery("e1", func(l *models.Lottery) error {
			l.ParticipantIDs = append(l.ParticipantIDs, 101)
			l.Executed = true
			return boom
		})
		assert.ErrorIs(t, err, boom, "closure error must come back verbatim")

		stored, err := s.GetLottery("e1")
		require.NoError(t, err)
		assert.Empty(t, stored.ParticipantIDs)
		assert.False(t, stored.Executed)
	})

	t.Run("unknown election", func(t *testing.T) {
		s := newSQLStore(t)
		_, err := s.UpdateLottery("missing", func(l *models.Lottery) error { return nil })
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLDueScheduledLotteries(t *testing.T) {
	s := newSQLStore(t)
	past := sqlClock.Add(-time.Hour)
	future := sqlClock.Add(time.Hour)

	seed := func(id string, mutate func(*models.Lottery)) {
		createSQLElection(t, s, id, "slug-"+id)
		l := models.NewLottery(id, sqlClock)
		mutate(l)
		require.NoError(t, s.CreateLottery(l))
	}

	seed("due", func(l *models.Lottery) {
		l.Config.Enabled = true
		l.Config.ScheduledAt = &past
	})
	seed("future", func(l *models.Lottery) {
		l.Config.Enabled = true
		l.Config.ScheduledAt = &future
	})
	seed("disabled", func(l *models.Lottery) {
		l.Config.ScheduledAt = &past
	})
	seed("executed", func(l *models.Lottery) {
		l.Config.Enabled = true
		l.Config.ScheduledAt = &past
		l.Executed = true
	})
	seed("unscheduled", func(l *models.Lottery) {
		l.Config.Enabled = true
	})

	due, err := s.DueScheduledLotteries(sqlClock)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"due"}, due,
		"a disabled lottery past its scheduled time must not be reported")

	// Enabling through UpdateLottery must flip the queryable column too.
	_, err = s.UpdateLottery("disabled", func(l *models.Lottery) error {
		l.Config.Enabled = true
		return nil
	})
	require.NoError(t, err)

	due, err = s.DueScheduledLotteries(sqlClock)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"due", "disabled"}, due)
}
