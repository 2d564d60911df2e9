// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/lucky-ballot/models"
)

// RunScheduler sweeps for due scheduled lotteries on each tick and executes
// them with execution method "scheduled". Runs until the context is
// cancelled. Intended to be launched as a goroutine from main.
func (e *Engine) RunScheduler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("lottery scheduler started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("lottery scheduler stopped")
			return
		case <-ticker.C:
			e.RunDue()
		}
	}
}

// RunDue executes every lottery whose scheduled time has passed. Failures
// are logged per lottery and never stop the sweep; a lottery that was
// executed manually between the query and the sweep simply reports
// LotteryAlreadyExecuted and is skipped.
func (e *Engine) RunDue() {
	due, err := e.store.DueScheduledLotteries(e.now())
	if err != nil {
		slog.Error("failed to query due lotteries", "error", err)
		return
	}

	for _, electionID := range due {
		_, err := e.execute(electionID, "", models.ExecutionScheduled)
		switch {
		case err == nil:
			slog.Info("scheduled lottery executed", "election_id", electionID)
		case IsKind(err, KindAlreadyExecuted):
			// Lost the race to a manual trigger. Nothing to do.
		default:
			slog.Error("scheduled lottery execution failed", "election_id", electionID, "error", err)
		}
	}
}
