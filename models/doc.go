// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateElectionRequest: title, description, creator_name, questions
  - AddParticipantRequest: participant_id
  - ExecuteRequest: executed_by (optional)
  - DistributeRequest: distributed_by
  - LotteryConfigPatch: partial lottery configuration (nil = unchanged)

# Response Types

Types for JSON responses:

  - CreateElectionResponse: election_id, admin_key, share_slug
  - AddParticipantResponse: participant_count, total_balls
  - ExecuteResponse: winners, verification_hash, executed_at
  - DistributeResponse: distribution_log, distributed_at
  - LotteryStatus: public lottery view (no rng seed)
  - MachineData: ball list for the draw animation
  - Verification: audit trail + seed for hash recomputation
  - ErrorResponse: error, message, violations

# Domain Types

Internal data structures:

  - Election: election metadata, questions, lifecycle state
  - Lottery: the prize-drawing aggregate, 1:1 with an election
  - LotteryConfig / PrizeShare: organizer-editable configuration
  - Winner: drawn participant with rank and payout
  - DistributionRecord: one payout ledger entry
  - AuditEntry: one link of the hash-chained audit trail

Money amounts and percentages are shopspring/decimal values, never floats,
so percentage splits and threshold comparisons are exact.

# Constants

Election status:

	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"

Prize types:

	PrizeMonetary         = "monetary"
	PrizeNonMonetary      = "non_monetary"
	PrizeProjectedRevenue = "projected_revenue"

Distribution methods:

	DistributionAutomatic = "automatic"
	DistributionManual    = "manual"
	DistributionHybrid    = "hybrid"

Execution methods:

	ExecutionAutomatic = "automatic"
	ExecutionManual    = "manual"
	ExecutionScheduled = "scheduled"
*/
package models
