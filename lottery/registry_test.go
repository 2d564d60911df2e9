// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddParticipant(t *testing.T) {
	t.Run("adds and counts", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true

		added, err := AddParticipant(l, 101)
		require.NoError(t, err)
		assert.True(t, added)
		assert.Equal(t, 1, l.ParticipantCount())
		assert.Equal(t, 1, l.TotalBalls())
	})

	t.Run("duplicate add is a no-op", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true

		added, err := AddParticipant(l, 101)
		require.NoError(t, err)
		assert.True(t, added)

		added, err = AddParticipant(l, 101)
		require.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, 1, l.ParticipantCount(), "duplicate must not inflate the ball count")
	})

	t.Run("rejected while disabled", func(t *testing.T) {
		l := newTestLottery()

		_, err := AddParticipant(l, 101)
		assert.True(t, IsKind(err, KindNotEnabled))
		assert.Equal(t, 0, l.ParticipantCount())
	})

	t.Run("rejected after execution", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true
		l.Executed = true

		_, err := AddParticipant(l, 101)
		assert.True(t, IsKind(err, KindAlreadyExecuted))
	})
}

func TestRemoveParticipant(t *testing.T) {
	t.Run("removes an existing participant", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true
		l.ParticipantIDs = []int64{101, 102, 103}

		removed, err := RemoveParticipant(l, 102)
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, []int64{101, 103}, l.ParticipantIDs)
	})

	t.Run("absent participant is a no-op", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true
		l.ParticipantIDs = []int64{101}

		removed, err := RemoveParticipant(l, 999)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 1, l.ParticipantCount())
	})

	t.Run("rejected after execution", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true
		l.ParticipantIDs = []int64{101}
		l.Executed = true

		_, err := RemoveParticipant(l, 101)
		assert.True(t, IsKind(err, KindAlreadyExecuted))
		assert.Equal(t, 1, l.ParticipantCount())
	})
}
