// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/lucky-ballot/models"
)

var memClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMemoryElections(t *testing.T) {
	m := NewMemory()

	election := &models.Election{
		ID:        "e1",
		Title:     "Test",
		Status:    models.StatusDraft,
		ShareSlug: "slug-1",
		CreatedAt: memClock,
	}
	require.NoError(t, m.CreateElection(election))
	require.Error(t, m.CreateElection(election), "duplicate id must be rejected")

	got, err := m.GetElection("e1")
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Title)

	bySlug, err := m.GetElectionBySlug("slug-1")
	require.NoError(t, err)
	assert.Equal(t, "e1", bySlug.ID)

	_, err = m.GetElection("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetElectionBySlug("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// Mutating a returned copy must not leak into the store.
	got.Title = "Mutated"
	fresh, err := m.GetElection("e1")
	require.NoError(t, err)
	assert.Equal(t, "Test", fresh.Title)
}

func TestMemoryUpdateLottery(t *testing.T) {
	t.Run("commits on nil error", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.CreateLottery(models.NewLottery("e1", memClock)))

		updated, err := m.UpdateLottery("e1", func(l *models.Lottery) error {
			l.ParticipantIDs = append(l.ParticipantIDs, 101)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{101}, updated.ParticipantIDs)

		stored, err := m.GetLottery("e1")
		require.NoError(t, err)
		assert.Equal(t, []int64{101}, stored.ParticipantIDs)
	})

	t.Run("discards all changes on error", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.CreateLottery(models.NewLottery("e1", memClock)))

		boom := errors.New("rejected")
		_, err := m.UpdateLottery("e1", func(l *models.Lottery) error {
			l.ParticipantIDs = append(l.ParticipantIDs, 101)
			l.Executed = true
			return boom
		})
		assert.ErrorIs(t, err, boom, "closure error must come back verbatim")

		stored, err := m.GetLottery("e1")
		require.NoError(t, err)
		assert.Empty(t, stored.ParticipantIDs)
		assert.False(t, stored.Executed)
	})

	t.Run("unknown election", func(t *testing.T) {
		m := NewMemory()
		_, err := m.UpdateLottery("missing", func(l *models.Lottery) error { return nil })
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent updates serialize", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.CreateLottery(models.NewLottery("e1", memClock)))

		const writers = 50
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				_, err := m.UpdateLottery("e1", func(l *models.Lottery) error {
					l.ParticipantIDs = append(l.ParticipantIDs, id)
					return nil
				})
				if err != nil {
					t.Error(err)
				}
			}(int64(i))
		}
		wg.Wait()

		stored, err := m.GetLottery("e1")
		require.NoError(t, err)
		assert.Len(t, stored.ParticipantIDs, writers, "no update may be lost")
	})

	t.Run("decimal config survives the clone round-trip", func(t *testing.T) {
		m := NewMemory()
		l := models.NewLottery("e1", memClock)
		require.NoError(t, m.CreateLottery(l))

		want, err := decimal.NewFromString("123.45")
		require.NoError(t, err)
		_, err = m.UpdateLottery("e1", func(l *models.Lottery) error {
			l.Config.MonetaryAmount = want
			return nil
		})
		require.NoError(t, err)

		stored, err := m.GetLottery("e1")
		require.NoError(t, err)
		assert.True(t, stored.Config.MonetaryAmount.Equal(want))
	})
}

func TestMemoryDueScheduledLotteries(t *testing.T) {
	m := NewMemory()
	past := memClock.Add(-time.Hour)
	future := memClock.Add(time.Hour)

	seed := func(id string, mutate func(*models.Lottery)) {
		l := models.NewLottery(id, memClock)
		mutate(l)
		require.NoError(t, m.CreateLottery(l))
	}

	seed("due", func(l *models.Lottery) {
		l.Config.Enabled = true
		l.Config.ScheduledAt = &past
	})
	seed("exactly-now", func(l *models.Lottery) {
		now := memClock
		l.Config.Enabled = true
		l.Config.ScheduledAt = &now
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

	due, err := m.DueScheduledLotteries(memClock)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"due", "exactly-now"}, due)
}
