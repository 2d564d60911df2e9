// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/lucky-ballot/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestLottery() *models.Lottery {
	return models.NewLottery("elec-1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func TestTotalPrizeValue(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.LotteryConfig)
		expected string
	}{
		{
			name: "monetary prize",
			mutate: func(c *models.LotteryConfig) {
				c.PrizeType = models.PrizeMonetary
				c.MonetaryAmount = dec("500")
			},
			expected: "500",
		},
		{
			name: "non-monetary prize reports its estimate",
			mutate: func(c *models.LotteryConfig) {
				c.PrizeType = models.PrizeNonMonetary
				c.NonMonetaryDescription = "Concert tickets"
				c.NonMonetaryValueEstimate = dec("120")
			},
			expected: "120",
		},
		{
			name: "projected revenue uses projection before actuals exist",
			mutate: func(c *models.LotteryConfig) {
				c.PrizeType = models.PrizeProjectedRevenue
				c.ProjectedRevenueAmount = dec("10000")
				c.RevenuePercentage = dec("5")
			},
			expected: "500",
		},
		{
			name: "projected revenue prefers recorded actuals",
			mutate: func(c *models.LotteryConfig) {
				c.PrizeType = models.PrizeProjectedRevenue
				c.ProjectedRevenueAmount = dec("10000")
				actual := dec("8000")
				c.ActualRevenueAmount = &actual
				c.RevenuePercentage = dec("5")
			},
			expected: "400",
		},
		{
			name: "projected revenue defaults to 100 percent",
			mutate: func(c *models.LotteryConfig) {
				c.PrizeType = models.PrizeProjectedRevenue
				c.ProjectedRevenueAmount = dec("250")
			},
			expected: "250",
		},
		{
			name:     "unset prize type values to zero",
			mutate:   func(c *models.LotteryConfig) {},
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLottery()
			tt.mutate(&l.Config)
			got := TotalPrizeValue(l)
			assert.True(t, got.Equal(dec(tt.expected)),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestPrizeForRank(t *testing.T) {
	t.Run("equal split without a distribution table", func(t *testing.T) {
		l := newTestLottery()
		l.Config.PrizeType = models.PrizeMonetary
		l.Config.MonetaryAmount = dec("300")
		l.Config.WinnerCount = 2

		assert.True(t, PrizeForRank(l, 1).Equal(dec("150")))
		assert.True(t, PrizeForRank(l, 2).Equal(dec("150")))
	})

	t.Run("distribution table assigns per-rank percentages", func(t *testing.T) {
		l := newTestLottery()
		l.Config.PrizeType = models.PrizeMonetary
		l.Config.MonetaryAmount = dec("1000")
		l.Config.WinnerCount = 2
		l.Config.PrizeDistribution = []models.PrizeShare{
			{Rank: 1, Percentage: dec("70")},
			{Rank: 2, Percentage: dec("30")},
		}

		assert.True(t, PrizeForRank(l, 1).Equal(dec("700")))
		assert.True(t, PrizeForRank(l, 2).Equal(dec("300")))
	})

	t.Run("rank missing from the table falls back to equal split", func(t *testing.T) {
		l := newTestLottery()
		l.Config.PrizeType = models.PrizeMonetary
		l.Config.MonetaryAmount = dec("900")
		l.Config.WinnerCount = 3
		l.Config.PrizeDistribution = []models.PrizeShare{
			{Rank: 1, Percentage: dec("100")},
		}

		assert.True(t, PrizeForRank(l, 3).Equal(dec("300")))
	})
}
