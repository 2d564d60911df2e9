// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lottery implements the prize-drawing engine.

# State Machine

Each election owns at most one lottery, which moves one way through four
states:

	Draft (enabled=false) → Configured (enabled=true) → Executed → Distributed

The Engine orchestrates all transitions via the store's update closures, so
two concurrent execute calls never both succeed: one wins the
executed false→true transition, the other gets LotteryAlreadyExecuted.

	engine := lottery.New(st, notifier, nil)
	result, err := engine.Execute(electionID, "admin@example.com")

# Winner Selection

SelectWinners samples without replacement using crypto/rand: each rank draws
a uniformly random index into the remaining pool, and the winner leaves the
pool. This composes to the standard every-permutation-equally-likely
guarantee. The recorded rng seed never drives the draw; it is an audit
commitment hashed into the trail so the draw's inputs can be checked after
the fact.

# Prize Valuation

TotalPrizeValue supports three prize models (monetary, non-monetary with a
nominal estimate, projected revenue share) and PrizeForRank splits the pool
by configured percentages, falling back to an equal split. All arithmetic is
decimal.

# Audit Trail

Every mutating operation appends a hash-chained audit entry. EntryHash
commits to the election id, the sorted participant snapshot, the entry
details, and the rng seed; ExecutionHash is the final verification hash over
the winner set. Hashes are plain synchronous SHA-256 — tamper detection,
not cryptographic proof.

# Errors

All failures are *Error values with a stable Kind tag
(KindAlreadyExecuted, KindInvalidConfig, ...). Use IsKind to branch:

	if lottery.IsKind(err, lottery.KindAlreadyExecuted) { ... }
*/
package lottery
