// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/lucky-ballot/models"
)

func TestEntryHash(t *testing.T) {
	l := newTestLottery()
	l.RNGSeed = "seed-a"
	l.ParticipantIDs = []int64{3, 1, 2}
	details := map[string]any{"action_detail": "x"}

	t.Run("deterministic for identical state", func(t *testing.T) {
		assert.Equal(t, EntryHash(l, details), EntryHash(l, details))
	})

	t.Run("participant order does not matter", func(t *testing.T) {
		reordered := newTestLottery()
		reordered.RNGSeed = "seed-a"
		reordered.ParticipantIDs = []int64{1, 2, 3}
		assert.Equal(t, EntryHash(l, details), EntryHash(reordered, details))
	})

	t.Run("seed change changes the hash", func(t *testing.T) {
		other := newTestLottery()
		other.RNGSeed = "seed-b"
		other.ParticipantIDs = []int64{3, 1, 2}
		assert.NotEqual(t, EntryHash(l, details), EntryHash(other, details))
	})

	t.Run("participant change changes the hash", func(t *testing.T) {
		other := newTestLottery()
		other.RNGSeed = "seed-a"
		other.ParticipantIDs = []int64{3, 1, 2, 4}
		assert.NotEqual(t, EntryHash(l, details), EntryHash(other, details))
	})

	t.Run("detail change changes the hash", func(t *testing.T) {
		assert.NotEqual(t,
			EntryHash(l, map[string]any{"action_detail": "x"}),
			EntryHash(l, map[string]any{"action_detail": "y"}),
		)
	})
}

func TestAppendAudit(t *testing.T) {
	l := newTestLottery()
	l.RNGSeed = "seed"
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	appendAudit(l, "first", map[string]any{"n": 1}, now)
	first := l.AuditTrail[0]

	appendAudit(l, "second", map[string]any{"n": 2}, now.Add(time.Minute))

	assert.Len(t, l.AuditTrail, 2)
	assert.Equal(t, first, l.AuditTrail[0], "existing entries must never change")
	assert.Equal(t, "second", l.AuditTrail[1].Action)
	assert.NotEmpty(t, l.AuditTrail[1].Hash)
}

func TestExecutionHash(t *testing.T) {
	l := newTestLottery()
	l.RNGSeed = "seed"
	executedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	winners := []models.Winner{
		{Rank: 1, ParticipantID: 500},
		{Rank: 2, ParticipantID: 100},
	}

	t.Run("stable across winner slice order", func(t *testing.T) {
		reversed := []models.Winner{winners[1], winners[0]}
		assert.Equal(t,
			ExecutionHash(l, winners, executedAt),
			ExecutionHash(l, reversed, executedAt),
		)
	})

	t.Run("sensitive to the winner set", func(t *testing.T) {
		other := []models.Winner{
			{Rank: 1, ParticipantID: 500},
			{Rank: 2, ParticipantID: 101},
		}
		assert.NotEqual(t,
			ExecutionHash(l, winners, executedAt),
			ExecutionHash(l, other, executedAt),
		)
	})

	t.Run("sensitive to the execution time", func(t *testing.T) {
		assert.NotEqual(t,
			ExecutionHash(l, winners, executedAt),
			ExecutionHash(l, winners, executedAt.Add(time.Second)),
		)
	})

	t.Run("timezone normalized before hashing", func(t *testing.T) {
		est := time.FixedZone("EST", -5*3600)
		assert.Equal(t,
			ExecutionHash(l, winners, executedAt),
			ExecutionHash(l, winners, executedAt.In(est)),
		)
	})
}
