// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"github.com/shopspring/decimal"

	"github.com/danielhkuo/lucky-ballot/models"
)

var hundred = decimal.NewFromInt(100)

// TotalPrizeValue computes the prize pool value from the configured prize
// model. Non-monetary prizes report their nominal estimate, which is a
// valuation for reporting, not a payable amount.
func TotalPrizeValue(l *models.Lottery) decimal.Decimal {
	cfg := l.Config
	switch cfg.PrizeType {
	case models.PrizeMonetary:
		return cfg.MonetaryAmount
	case models.PrizeNonMonetary:
		return cfg.NonMonetaryValueEstimate
	case models.PrizeProjectedRevenue:
		// Actual revenue wins over the projection once it has been recorded.
		base := cfg.ProjectedRevenueAmount
		if cfg.ActualRevenueAmount != nil {
			base = *cfg.ActualRevenueAmount
		}
		pct := cfg.RevenuePercentage
		if pct.IsZero() {
			pct = hundred
		}
		return base.Mul(pct).Div(hundred)
	default:
		return decimal.Zero
	}
}

// PrizeForRank computes the payout for one winner rank. Ranks listed in the
// prize distribution get their configured percentage of the pool; anything
// else falls back to an equal split across winner_count. winner_count >= 1 is
// enforced at configuration time, so the fallback division is safe.
func PrizeForRank(l *models.Lottery, rank int) decimal.Decimal {
	total := TotalPrizeValue(l)
	for _, share := range l.Config.PrizeDistribution {
		if share.Rank == rank {
			return total.Mul(share.Percentage).Div(hundred)
		}
	}
	return total.Div(decimal.NewFromInt(int64(l.Config.WinnerCount)))
}
