// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danielhkuo/lucky-ballot/auth"
	"github.com/danielhkuo/lucky-ballot/models"
	"github.com/danielhkuo/lucky-ballot/notify"
	"github.com/danielhkuo/lucky-ballot/store"
)

// Tolerance for prize distribution percentages: the shares must sum to 100
// within 0.01.
var percentageTolerance = decimal.NewFromFloat(0.01)

// Engine orchestrates the lottery state machine:
//
//	Draft (enabled=false) → Configured (enabled=true) → Executed → Distributed
//
// Transitions are one-directional. Execute and Distribute each happen at
// most once per lottery; the store's update closure serializes concurrent
// callers so exactly one wins each transition.
type Engine struct {
	store  store.Store
	notify notify.Notifier
	now    func() time.Time
}

// New builds an engine. clock may be nil, in which case time.Now is used;
// tests inject a fixed clock for deterministic timestamps.
func New(st store.Store, n notify.Notifier, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{store: st, notify: n, now: clock}
}

// Status returns the public view of a lottery.
func (e *Engine) Status(electionID string) (*models.LotteryStatus, error) {
	l, err := e.store.GetLottery(electionID)
	if err != nil {
		return nil, e.wrapStoreErr(electionID, err)
	}
	return &models.LotteryStatus{
		ElectionID:         l.ElectionID,
		Enabled:            l.Config.Enabled,
		PrizeType:          l.Config.PrizeType,
		TotalPrizeValue:    TotalPrizeValue(l),
		WinnerCount:        l.Config.WinnerCount,
		ParticipantCount:   l.ParticipantCount(),
		TotalBalls:         l.TotalBalls(),
		Executed:           l.Executed,
		ExecutionTimestamp: l.ExecutionTimestamp,
		ExecutionMethod:    l.ExecutionMethod,
		Winners:            l.Winners,
		PrizesDistributed:  l.PrizesDistributed,
		ScheduledAt:        l.Config.ScheduledAt,
	}, nil
}

// MachineData returns the ball list and outcome for the client-side draw
// machine animation.
func (e *Engine) MachineData(electionID string) (*models.MachineData, error) {
	l, err := e.store.GetLottery(electionID)
	if err != nil {
		return nil, e.wrapStoreErr(electionID, err)
	}
	return &models.MachineData{
		ElectionID:   l.ElectionID,
		Enabled:      l.Config.Enabled,
		Executed:     l.Executed,
		RNGAlgorithm: l.RNGAlgorithm,
		Balls:        slices.Clone(l.ParticipantIDs),
		TotalBalls:   l.TotalBalls(),
		Winners:      l.Winners,
	}, nil
}

// Verification returns the tamper-detection payload. A verifier recomputes
// each audit entry hash from the listed fields plus the seed and compares.
func (e *Engine) Verification(electionID string) (*models.Verification, error) {
	l, err := e.store.GetLottery(electionID)
	if err != nil {
		return nil, e.wrapStoreErr(electionID, err)
	}
	return &models.Verification{
		ElectionID:       l.ElectionID,
		Executed:         l.Executed,
		ExecutedAt:       l.ExecutionTimestamp,
		ExecutionMethod:  l.ExecutionMethod,
		RNGAlgorithm:     l.RNGAlgorithm,
		RNGSeed:          l.RNGSeed,
		ParticipantIDs:   slices.Clone(l.ParticipantIDs),
		Winners:          l.Winners,
		VerificationHash: l.VerificationHash,
		AuditTrail:       l.AuditTrail,
		ExternalAnchorID: l.ExternalAnchorID,
	}, nil
}

// UpdateConfig merges a partial configuration into the lottery. Allowed only
// before execution; the merged result is validated as a whole, so a patch
// can never leave the configuration invalid.
func (e *Engine) UpdateConfig(electionID string, patch models.LotteryConfigPatch) (*models.Lottery, error) {
	now := e.now()
	updated, err := e.store.UpdateLottery(electionID, func(l *models.Lottery) error {
		if l.Executed {
			return errAlreadyExecuted()
		}
		merged := l.Config
		changed := applyPatch(&merged, patch)
		if violations := validateConfig(merged); len(violations) > 0 {
			return errInvalidConfig(violations)
		}
		l.Config = merged
		l.UpdatedAt = now
		appendAudit(l, "config_updated", map[string]any{"updated_fields": changed}, now)
		return nil
	})
	if err != nil {
		return nil, e.wrapStoreErr(electionID, err)
	}
	slog.Info("lottery config updated", "election_id", electionID)
	return updated, nil
}

// Initialize generates the rng seed if no seed exists yet. Idempotent:
// calling it again before execution is a no-op.
func (e *Engine) Initialize(electionID string) (*models.Lottery, error) {
	now := e.now()
	updated, err := e.store.UpdateLottery(electionID, func(l *models.Lottery) error {
		if l.Executed {
			return errAlreadyExecuted()
		}
		if l.RNGSeed != "" {
			return nil
		}
		seed, err := auth.GenerateSeed()
		if err != nil {
			return fmt.Errorf("failed to generate rng seed: %w", err)
		}
		l.RNGSeed = seed
		l.UpdatedAt = now
		appendAudit(l, "initialized", map[string]any{"rng_algorithm": l.RNGAlgorithm}, now)
		return nil
	})
	if err != nil {
		return nil, e.wrapStoreErr(electionID, err)
	}
	return updated, nil
}

// AddParticipant registers one participant. Requires enabled=true and
// executed=false. Duplicate adds are no-ops and leave no audit entry.
func (e *Engine) AddParticipant(electionID string, participantID int64) (*models.Lottery, error) {
	now := e.now()
	updated, err := e.store.UpdateLottery(electionID, func(l *models.Lottery) error {
		added, err := AddParticipant(l, participantID)
		if err != nil {
			return err
		}
		if added {
			l.UpdatedAt = now
			appendAudit(l, "participant_added", map[string]any{
				"participant_id":    participantID,
				"participant_count": l.ParticipantCount(),
			}, now)
		}
		return nil
	})
	if err != nil {
		return nil, e.wrapStoreErr(electionID, err)
	}
	return updated, nil
}

// RemoveParticipant withdraws one participant before execution.
func (e *Engine) RemoveParticipant(electionID string, participantID int64) (*models.Lottery, error) {
	now := e.now()
	updated, err := e.store.UpdateLottery(electionID, func(l *models.Lottery) error {
		removed, err := RemoveParticipant(l, participantID)
		if err != nil {
			return err
		}
		if removed {
			l.UpdatedAt = now
			appendAudit(l, "participant_removed", map[string]any{
				"participant_id":    participantID,
				"participant_count": l.ParticipantCount(),
			}, now)
		}
		return nil
	})
	if err != nil {
		return nil, e.wrapStoreErr(electionID, err)
	}
	return updated, nil
}

// Execute runs the draw. Execution method is "manual" when a caller identity
// is provided, "automatic" otherwise. The executed flag transitions
// false→true exactly once; late callers get LotteryAlreadyExecuted.
func (e *Engine) Execute(electionID, executedBy string) (*models.Lottery, error) {
	method := models.ExecutionAutomatic
	if executedBy != "" {
		method = models.ExecutionManual
	}
	return e.execute(electionID, executedBy, method)
}

func (e *Engine) execute(electionID, executedBy, method string) (*models.Lottery, error) {
	now := e.now()
	updated, err := e.store.UpdateLottery(electionID, func(l *models.Lottery) error {
		if l.Executed {
			return errAlreadyExecuted()
		}
		if !l.Config.Enabled {
			return errNotEnabled()
		}
		if l.ParticipantCount() == 0 {
			return errNotExecutable("no eligible participants")
		}

		// The seed must exist before the draw so the audit entry and the
		// verification hash commit to it. Normally Initialize set it already.
		if l.RNGSeed == "" {
			seed, err := auth.GenerateSeed()
			if err != nil {
				return fmt.Errorf("failed to generate rng seed: %w", err)
			}
			l.RNGSeed = seed
		}

		winners, err := SelectWinners(l, now)
		if err != nil {
			return err
		}

		ts := now
		l.Executed = true
		l.ExecutionTimestamp = &ts
		l.ExecutionMethod = method
		l.Winners = winners
		l.VerificationHash = ExecutionHash(l, winners, now)
		l.UpdatedAt = now

		winnerIDs := make([]int64, len(winners))
		for i, w := range winners {
			winnerIDs[i] = w.ParticipantID
		}
		appendAudit(l, "executed", map[string]any{
			"execution_method":       method,
			"executed_by":            executedBy,
			"winner_participant_ids": winnerIDs,
			"verification_hash":      l.VerificationHash,
		}, now)
		return nil
	})
	if err != nil {
		return nil, e.wrapStoreErr(electionID, err)
	}

	slog.Info("lottery executed",
		"election_id", electionID,
		"winner_count", len(updated.Winners),
		"method", method,
	)
	e.dispatch(func() { e.notify.LotteryExecuted(electionID, updated.Winners) })
	return updated, nil
}

// Distribute records the payout ledger for every winner. Each record is
// classified automatic when its amount is at or below the configured
// threshold, manual above it. The comparison is currency-naive by design.
func (e *Engine) Distribute(electionID, distributedBy string) (*models.Lottery, error) {
	now := e.now()
	updated, err := e.store.UpdateLottery(electionID, func(l *models.Lottery) error {
		if !l.Executed {
			return errNotExecuted()
		}
		if l.PrizesDistributed {
			return errAlreadyDistributed()
		}

		threshold := l.Config.DistributionThreshold
		for _, w := range l.Winners {
			method := models.DistributionManual
			if w.PrizeAmount.LessThanOrEqual(threshold) {
				method = models.DistributionAutomatic
			}
			l.DistributionLog = append(l.DistributionLog, models.DistributionRecord{
				ID:            uuid.NewString(),
				Rank:          w.Rank,
				ParticipantID: w.ParticipantID,
				Amount:        w.PrizeAmount,
				Currency:      w.PrizeCurrency,
				Method:        method,
				DistributedBy: distributedBy,
				DistributedAt: now,
			})
		}
		l.PrizesDistributed = true
		l.UpdatedAt = now
		appendAudit(l, "prizes_distributed", map[string]any{
			"distributed_by": distributedBy,
			"record_count":   len(l.DistributionLog),
		}, now)
		return nil
	})
	if err != nil {
		return nil, e.wrapStoreErr(electionID, err)
	}

	slog.Info("prizes distributed",
		"election_id", electionID,
		"record_count", len(updated.DistributionLog),
	)
	e.dispatch(func() { e.notify.PrizesDistributed(electionID, updated.DistributionLog) })
	return updated, nil
}

// dispatch runs a notification callback without letting it block or fail
// the operation that triggered it.
func (e *Engine) dispatch(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("notification delivery panicked", "panic", r)
			}
		}()
		fn()
	}()
}

func (e *Engine) wrapStoreErr(electionID string, err error) error {
	var le *Error
	if errors.As(err, &le) {
		return le
	}
	if errors.Is(err, store.ErrNotFound) {
		return errNotFound(electionID)
	}
	return errPersistence(err)
}

// applyPatch merges non-nil patch fields into cfg and returns the names of
// the fields that changed, for the audit entry.
func applyPatch(cfg *models.LotteryConfig, p models.LotteryConfigPatch) []string {
	var changed []string
	set := func(name string) { changed = append(changed, name) }

	if p.Enabled != nil {
		cfg.Enabled = *p.Enabled
		set("enabled")
	}
	if p.PrizeType != nil {
		cfg.PrizeType = *p.PrizeType
		set("prize_type")
	}
	if p.MonetaryAmount != nil {
		cfg.MonetaryAmount = *p.MonetaryAmount
		set("monetary_amount")
	}
	if p.MonetaryCurrency != nil {
		cfg.MonetaryCurrency = *p.MonetaryCurrency
		set("monetary_currency")
	}
	if p.NonMonetaryDescription != nil {
		cfg.NonMonetaryDescription = *p.NonMonetaryDescription
		set("non_monetary_description")
	}
	if p.NonMonetaryValueEstimate != nil {
		cfg.NonMonetaryValueEstimate = *p.NonMonetaryValueEstimate
		set("non_monetary_value_estimate")
	}
	if p.VoucherCodes != nil {
		cfg.VoucherCodes = p.VoucherCodes
		set("voucher_codes")
	}
	if p.ProjectedRevenueAmount != nil {
		cfg.ProjectedRevenueAmount = *p.ProjectedRevenueAmount
		set("projected_revenue_amount")
	}
	if p.ActualRevenueAmount != nil {
		cfg.ActualRevenueAmount = p.ActualRevenueAmount
		set("actual_revenue_amount")
	}
	if p.RevenuePercentage != nil {
		cfg.RevenuePercentage = *p.RevenuePercentage
		set("revenue_percentage")
	}
	if p.RevenueSource != nil {
		cfg.RevenueSource = *p.RevenueSource
		set("revenue_source")
	}
	if p.WinnerCount != nil {
		cfg.WinnerCount = *p.WinnerCount
		set("winner_count")
	}
	if p.PrizeDistribution != nil {
		cfg.PrizeDistribution = p.PrizeDistribution
		set("prize_distribution")
	}
	if p.DistributionMethod != nil {
		cfg.DistributionMethod = *p.DistributionMethod
		set("distribution_method")
	}
	if p.DistributionThreshold != nil {
		cfg.DistributionThreshold = *p.DistributionThreshold
		set("distribution_threshold")
	}
	if p.ScheduledAt != nil {
		cfg.ScheduledAt = p.ScheduledAt
		set("scheduled_at")
	}
	return changed
}

// validateConfig checks the fully merged configuration and returns every
// violated rule, not just the first one.
func validateConfig(cfg models.LotteryConfig) []string {
	var violations []string

	if cfg.WinnerCount < 1 || cfg.WinnerCount > 100 {
		violations = append(violations, "winner_count must be between 1 and 100")
	}

	switch cfg.PrizeType {
	case "", models.PrizeMonetary, models.PrizeNonMonetary, models.PrizeProjectedRevenue:
	default:
		violations = append(violations, "prize_type must be one of monetary, non_monetary, projected_revenue")
	}

	if cfg.PrizeType == models.PrizeMonetary && !cfg.MonetaryAmount.IsPositive() {
		violations = append(violations, "monetary_amount must be greater than 0")
	}

	if cfg.PrizeType == models.PrizeProjectedRevenue {
		if cfg.RevenuePercentage.LessThan(decimal.NewFromInt(1)) || cfg.RevenuePercentage.GreaterThan(hundred) {
			violations = append(violations, "revenue_percentage must be between 1 and 100")
		}
	}

	switch cfg.DistributionMethod {
	case models.DistributionAutomatic, models.DistributionManual, models.DistributionHybrid:
	default:
		violations = append(violations, "distribution_method must be one of automatic, manual, hybrid")
	}

	if cfg.DistributionThreshold.IsNegative() {
		violations = append(violations, "distribution_threshold must not be negative")
	}

	if len(cfg.PrizeDistribution) > 0 {
		sum := decimal.Zero
		for _, share := range cfg.PrizeDistribution {
			if share.Rank < 1 {
				violations = append(violations, "prize_distribution ranks must be 1 or greater")
			}
			sum = sum.Add(share.Percentage)
		}
		if sum.Sub(hundred).Abs().GreaterThan(percentageTolerance) {
			violations = append(violations,
				fmt.Sprintf("prize_distribution percentages must sum to 100 (got %s)", sum.String()))
		}
	}

	return violations
}
