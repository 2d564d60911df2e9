// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/danielhkuo/lucky-ballot/models"
)

// Notifier is the outbound notification sink. Calls are best-effort: the
// lottery engine invokes them after state is committed and never lets a
// delivery failure fail the triggering operation.
type Notifier interface {
	LotteryExecuted(electionID string, winners []models.Winner)
	PrizesDistributed(electionID string, records []models.DistributionRecord)
}

// Log writes notification events to the structured log. It stands in for a
// real delivery channel (email/SMS/push) and doubles as the audit point for
// what would have been sent.
type Log struct{}

func NewLog() Log {
	return Log{}
}

func (Log) LotteryExecuted(electionID string, winners []models.Winner) {
	slog.Info("notification: lottery executed",
		"event_id", uuid.NewString(),
		"election_id", electionID,
		"winner_count", len(winners),
	)
}

func (Log) PrizesDistributed(electionID string, records []models.DistributionRecord) {
	automatic := 0
	for _, r := range records {
		if r.Method == models.DistributionAutomatic {
			automatic++
		}
	}
	slog.Info("notification: prizes distributed",
		"event_id", uuid.NewString(),
		"election_id", electionID,
		"record_count", len(records),
		"automatic", automatic,
		"manual", len(records)-automatic,
	)
}
