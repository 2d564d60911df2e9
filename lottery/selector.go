// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/danielhkuo/lucky-ballot/models"
)

// SelectWinners draws winner_count participants without replacement, rank 1
// drawn first. Each draw picks a uniformly random index into the remaining
// pool, so every remaining participant has equal probability at every step
// (a Fisher-Yates-style partial shuffle). If the pool is smaller than
// winner_count the draw stops early with fewer winners.
//
// The draw reads crypto/rand directly. The recorded rng seed is an audit
// commitment hashed into the trail, not an input to the draw: a seeded PRNG
// here would make winners predictable to anyone who learns the seed.
func SelectWinners(l *models.Lottery, now time.Time) ([]models.Winner, error) {
	if l.Executed {
		return nil, errAlreadyExecuted()
	}
	if !l.Config.Enabled {
		return nil, errNotExecutable("lottery is not enabled")
	}
	if l.ParticipantCount() == 0 {
		return nil, errNotExecutable("no eligible participants")
	}

	pool := slices.Clone(l.ParticipantIDs)
	count := l.Config.WinnerCount
	if count > len(pool) {
		count = len(pool)
	}

	currency := l.Config.MonetaryCurrency
	if l.Config.PrizeType != models.PrizeMonetary || currency == "" {
		currency = models.DefaultCurrency
	}

	winners := make([]models.Winner, 0, count)
	for rank := 1; rank <= count; rank++ {
		idx, err := secureIndex(len(pool))
		if err != nil {
			return nil, fmt.Errorf("secure random draw failed: %w", err)
		}
		winners = append(winners, models.Winner{
			Rank:          rank,
			ParticipantID: pool[idx],
			PrizeAmount:   PrizeForRank(l, rank),
			PrizeCurrency: currency,
			SelectedAt:    now,
		})
		// Winner leaves the pool; nobody wins two ranks.
		pool[idx] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}

	return winners, nil
}

// secureIndex returns a uniform random index in [0, n). crypto/rand.Int
// rejection-samples internally, so the result carries no modulo bias.
func secureIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
