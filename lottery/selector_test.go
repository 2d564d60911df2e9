// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/lucky-ballot/models"
)

var drawTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestSelectWinners(t *testing.T) {
	t.Run("two winners split a monetary pool equally", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true
		l.Config.PrizeType = models.PrizeMonetary
		l.Config.MonetaryAmount = dec("300")
		l.Config.MonetaryCurrency = "EUR"
		l.Config.WinnerCount = 2
		l.ParticipantIDs = []int64{101, 102, 103}

		winners, err := SelectWinners(l, drawTime)
		require.NoError(t, err)
		require.Len(t, winners, 2)

		for i, w := range winners {
			assert.Equal(t, i+1, w.Rank)
			assert.Contains(t, []int64{101, 102, 103}, w.ParticipantID)
			assert.True(t, w.PrizeAmount.Equal(dec("150")))
			assert.Equal(t, "EUR", w.PrizeCurrency)
			assert.Equal(t, drawTime, w.SelectedAt)
		}
		assert.NotEqual(t, winners[0].ParticipantID, winners[1].ParticipantID,
			"a participant must not win two ranks")
	})

	t.Run("winner count bounded by pool size", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true
		l.Config.WinnerCount = 5
		l.ParticipantIDs = []int64{201, 202}

		winners, err := SelectWinners(l, drawTime)
		require.NoError(t, err)
		assert.Len(t, winners, 2)
	})

	t.Run("no winner repeats across many draws", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			l := newTestLottery()
			l.Config.Enabled = true
			l.Config.WinnerCount = 4
			l.ParticipantIDs = []int64{1, 2, 3, 4, 5, 6}

			winners, err := SelectWinners(l, drawTime)
			require.NoError(t, err)
			require.Len(t, winners, 4)

			seen := make(map[int64]bool)
			for _, w := range winners {
				assert.False(t, seen[w.ParticipantID], "participant %d drawn twice", w.ParticipantID)
				seen[w.ParticipantID] = true
			}
		}
	})

	t.Run("non-monetary prize pays in the default currency", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true
		l.Config.PrizeType = models.PrizeNonMonetary
		l.Config.NonMonetaryValueEstimate = dec("50")
		l.Config.MonetaryCurrency = "JPY"
		l.ParticipantIDs = []int64{1}

		winners, err := SelectWinners(l, drawTime)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultCurrency, winners[0].PrizeCurrency)
	})

	t.Run("empty pool is not executable", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true

		_, err := SelectWinners(l, drawTime)
		assert.True(t, IsKind(err, KindNotExecutable))
	})

	t.Run("disabled lottery is not executable", func(t *testing.T) {
		l := newTestLottery()
		l.ParticipantIDs = []int64{1}

		_, err := SelectWinners(l, drawTime)
		assert.True(t, IsKind(err, KindNotExecutable))
	})

	t.Run("already executed lottery refuses a second draw", func(t *testing.T) {
		l := newTestLottery()
		l.Config.Enabled = true
		l.ParticipantIDs = []int64{1}
		l.Executed = true

		_, err := SelectWinners(l, drawTime)
		assert.True(t, IsKind(err, KindAlreadyExecuted))
	})
}
