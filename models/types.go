// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Election status constants
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Prize type constants
const (
	PrizeMonetary         = "monetary"
	PrizeNonMonetary      = "non_monetary"
	PrizeProjectedRevenue = "projected_revenue"
)

// Distribution method constants
const (
	DistributionAutomatic = "automatic"
	DistributionManual    = "manual"
	DistributionHybrid    = "hybrid"
)

// Execution method constants
const (
	ExecutionAutomatic = "automatic"
	ExecutionManual    = "manual"
	ExecutionScheduled = "scheduled"
)

// DefaultRNGAlgorithm identifies the draw's random source in status and
// verification payloads.
const DefaultRNGAlgorithm = "crypto_random"

// DefaultCurrency is used for winner payouts when the prize is not monetary.
const DefaultCurrency = "USD"

// Request types

type QuestionInput struct {
	Text    string   `json:"text"`
	Answers []string `json:"answers"`
}

type CreateElectionRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	CreatorName string          `json:"creator_name"`
	Questions   []QuestionInput `json:"questions,omitempty"`
}

type AddParticipantRequest struct {
	ParticipantID int64 `json:"participant_id"`
}

type ExecuteRequest struct {
	ExecutedBy string `json:"executed_by,omitempty"`
}

type DistributeRequest struct {
	DistributedBy string `json:"distributed_by"`
}

// LotteryConfigPatch carries a partial configuration update. Nil fields are
// left untouched by the merge.
type LotteryConfigPatch struct {
	Enabled                  *bool            `json:"enabled,omitempty"`
	PrizeType                *string          `json:"prize_type,omitempty"`
	MonetaryAmount           *decimal.Decimal `json:"monetary_amount,omitempty"`
	MonetaryCurrency         *string          `json:"monetary_currency,omitempty"`
	NonMonetaryDescription   *string          `json:"non_monetary_description,omitempty"`
	NonMonetaryValueEstimate *decimal.Decimal `json:"non_monetary_value_estimate,omitempty"`
	VoucherCodes             []string         `json:"voucher_codes,omitempty"`
	ProjectedRevenueAmount   *decimal.Decimal `json:"projected_revenue_amount,omitempty"`
	ActualRevenueAmount      *decimal.Decimal `json:"actual_revenue_amount,omitempty"`
	RevenuePercentage        *decimal.Decimal `json:"revenue_percentage,omitempty"`
	RevenueSource            *string          `json:"revenue_source,omitempty"`
	WinnerCount              *int             `json:"winner_count,omitempty"`
	PrizeDistribution        []PrizeShare     `json:"prize_distribution,omitempty"`
	DistributionMethod       *string          `json:"distribution_method,omitempty"`
	DistributionThreshold    *decimal.Decimal `json:"distribution_threshold,omitempty"`
	ScheduledAt              *time.Time       `json:"scheduled_at,omitempty"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
	ShareSlug  string `json:"share_slug"`
}

type ExecuteResponse struct {
	Winners          []Winner  `json:"winners"`
	VerificationHash string    `json:"verification_hash"`
	ExecutedAt       time.Time `json:"executed_at"`
	ExecutionMethod  string    `json:"execution_method"`
}

type DistributeResponse struct {
	DistributionLog []DistributionRecord `json:"distribution_log"`
	DistributedAt   time.Time            `json:"distributed_at"`
}

type AddParticipantResponse struct {
	ParticipantCount int `json:"participant_count"`
	TotalBalls       int `json:"total_balls"`
}

// LotteryStatus is the public view of a lottery. The rng seed is deliberately
// absent; it only appears in the verification payload.
type LotteryStatus struct {
	ElectionID         string          `json:"election_id"`
	Enabled            bool            `json:"enabled"`
	PrizeType          string          `json:"prize_type,omitempty"`
	TotalPrizeValue    decimal.Decimal `json:"total_prize_value"`
	WinnerCount        int             `json:"winner_count"`
	ParticipantCount   int             `json:"participant_count"`
	TotalBalls         int             `json:"total_balls"`
	Executed           bool            `json:"executed"`
	ExecutionTimestamp *time.Time      `json:"execution_timestamp,omitempty"`
	ExecutionMethod    string          `json:"execution_method,omitempty"`
	Winners            []Winner        `json:"winners,omitempty"`
	PrizesDistributed  bool            `json:"prizes_distributed"`
	ScheduledAt        *time.Time      `json:"scheduled_at,omitempty"`
}

// MachineData feeds the draw-machine animation on the client.
type MachineData struct {
	ElectionID   string   `json:"election_id"`
	Enabled      bool     `json:"enabled"`
	Executed     bool     `json:"executed"`
	RNGAlgorithm string   `json:"rng_algorithm"`
	Balls        []int64  `json:"balls"`
	TotalBalls   int      `json:"total_balls"`
	Winners      []Winner `json:"winners,omitempty"`
}

// Verification is the tamper-detection payload: everything a verifier needs
// to recompute the audit hashes and the final verification hash.
type Verification struct {
	ElectionID       string       `json:"election_id"`
	Executed         bool         `json:"executed"`
	ExecutedAt       *time.Time   `json:"executed_at,omitempty"`
	ExecutionMethod  string       `json:"execution_method,omitempty"`
	RNGAlgorithm     string       `json:"rng_algorithm"`
	RNGSeed          string       `json:"rng_seed,omitempty"`
	ParticipantIDs   []int64      `json:"participant_ids"`
	Winners          []Winner     `json:"winners,omitempty"`
	VerificationHash string       `json:"verification_hash,omitempty"`
	AuditTrail       []AuditEntry `json:"audit_trail"`
	ExternalAnchorID string       `json:"external_anchor_id,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error      string   `json:"error"`
	Message    string   `json:"message,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

// Domain types

type Election struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatorName string     `json:"creator_name"`
	Status      string     `json:"status"`
	ShareSlug   string     `json:"share_slug"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

type Answer struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PrizeShare assigns a percentage of the prize pool to one winner rank.
type PrizeShare struct {
	Rank       int             `json:"rank"`
	Percentage decimal.Decimal `json:"percentage"`
}

// LotteryConfig holds everything an organizer can change before execution.
type LotteryConfig struct {
	Enabled                  bool             `json:"enabled"`
	PrizeType                string           `json:"prize_type"`
	MonetaryAmount           decimal.Decimal  `json:"monetary_amount"`
	MonetaryCurrency         string           `json:"monetary_currency"`
	NonMonetaryDescription   string           `json:"non_monetary_description,omitempty"`
	NonMonetaryValueEstimate decimal.Decimal  `json:"non_monetary_value_estimate"`
	VoucherCodes             []string         `json:"voucher_codes,omitempty"`
	ProjectedRevenueAmount   decimal.Decimal  `json:"projected_revenue_amount"`
	ActualRevenueAmount      *decimal.Decimal `json:"actual_revenue_amount,omitempty"`
	RevenuePercentage        decimal.Decimal  `json:"revenue_percentage"`
	RevenueSource            string           `json:"revenue_source,omitempty"`
	WinnerCount              int              `json:"winner_count"`
	PrizeDistribution        []PrizeShare     `json:"prize_distribution,omitempty"`
	DistributionMethod       string           `json:"distribution_method"`
	DistributionThreshold    decimal.Decimal  `json:"distribution_threshold"`
	ScheduledAt              *time.Time       `json:"scheduled_at,omitempty"`
}

// Lottery is the prize-drawing aggregate, exactly one per election.
type Lottery struct {
	ElectionID string        `json:"election_id"`
	Config     LotteryConfig `json:"config"`

	RNGAlgorithm string `json:"rng_algorithm"`
	RNGSeed      string `json:"rng_seed,omitempty"`

	ParticipantIDs []int64 `json:"participant_ids"`

	Executed           bool       `json:"executed"`
	ExecutionTimestamp *time.Time `json:"execution_timestamp,omitempty"`
	ExecutionMethod    string     `json:"execution_method,omitempty"`
	Winners            []Winner   `json:"winners,omitempty"`
	VerificationHash   string     `json:"verification_hash,omitempty"`

	PrizesDistributed bool                 `json:"prizes_distributed"`
	DistributionLog   []DistributionRecord `json:"distribution_log,omitempty"`

	AuditTrail       []AuditEntry `json:"audit_trail,omitempty"`
	ExternalAnchorID string       `json:"external_anchor_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParticipantCount is derived from the participant list so the count can
// never drift from the set it describes.
func (l *Lottery) ParticipantCount() int {
	return len(l.ParticipantIDs)
}

// TotalBalls reports entries in the draw. One ball per participant; the
// split from ParticipantCount is kept so weighted entries stay expressible.
func (l *Lottery) TotalBalls() int {
	return len(l.ParticipantIDs)
}

// HasParticipant reports whether the participant already holds a ball.
func (l *Lottery) HasParticipant(participantID int64) bool {
	for _, id := range l.ParticipantIDs {
		if id == participantID {
			return true
		}
	}
	return false
}

// NewLottery returns the draft-state lottery created alongside an election.
func NewLottery(electionID string, now time.Time) *Lottery {
	return &Lottery{
		ElectionID:   electionID,
		RNGAlgorithm: DefaultRNGAlgorithm,
		Config: LotteryConfig{
			Enabled:            false,
			MonetaryCurrency:   DefaultCurrency,
			WinnerCount:        1,
			DistributionMethod: DistributionAutomatic,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Winner is one drawn participant with rank and computed payout.
type Winner struct {
	Rank          int             `json:"rank"`
	ParticipantID int64           `json:"participant_id"`
	PrizeAmount   decimal.Decimal `json:"prize_amount"`
	PrizeCurrency string          `json:"prize_currency"`
	SelectedAt    time.Time       `json:"selected_at"`
}

// DistributionRecord is one ledger entry of the payout workflow. Amounts are
// compared against the threshold as raw numbers; no currency conversion is
// performed (single-currency deployments assumed).
type DistributionRecord struct {
	ID            string          `json:"id"`
	Rank          int             `json:"rank"`
	ParticipantID int64           `json:"participant_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method"`
	DistributedBy string          `json:"distributed_by"`
	DistributedAt time.Time       `json:"distributed_at"`
}

// AuditEntry is one link of the tamper-evident trail. Hash commits to the
// election id, the sorted participant snapshot, the entry details, and the
// rng seed at append time.
type AuditEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	Hash      string         `json:"hash"`
}
