// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"time"

	"github.com/danielhkuo/lucky-ballot/models"
)

// auditCommitment is the exact byte layout hashed for an audit entry. Field
// order is fixed by the struct, and encoding/json sorts map keys, so the
// same state always serializes to the same bytes.
type auditCommitment struct {
	ElectionID   string         `json:"election_id"`
	Participants []int64        `json:"participants"`
	Details      map[string]any `json:"details"`
	RNGSeed      string         `json:"rng_seed"`
}

// EntryHash computes the SHA-256 over the election id, the sorted snapshot
// of the current participant list, the entry details, and the rng seed.
// Replaying the same action with a different seed or participant set yields
// a different hash.
func EntryHash(l *models.Lottery, details map[string]any) string {
	participants := slices.Clone(l.ParticipantIDs)
	slices.Sort(participants)

	payload, err := json.Marshal(auditCommitment{
		ElectionID:   l.ElectionID,
		Participants: participants,
		Details:      details,
		RNGSeed:      l.RNGSeed,
	})
	if err != nil {
		// Details are plain JSON-typed maps built by this package; any
		// marshal failure is a programming error worth surfacing loudly.
		panic("lottery: audit commitment not serializable: " + err.Error())
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// appendAudit adds one entry to the trail. The trail is append-only; no code
// path mutates or removes existing entries.
func appendAudit(l *models.Lottery, action string, details map[string]any, now time.Time) {
	l.AuditTrail = append(l.AuditTrail, models.AuditEntry{
		Timestamp: now,
		Action:    action,
		Details:   details,
		Hash:      EntryHash(l, details),
	})
}

// executionCommitment is the byte layout of the final verification hash.
type executionCommitment struct {
	ElectionID string         `json:"election_id"`
	Winners    []winnerCommit `json:"winners"`
	RNGSeed    string         `json:"rng_seed"`
	ExecutedAt string         `json:"executed_at"`
}

type winnerCommit struct {
	Rank          int   `json:"rank"`
	ParticipantID int64 `json:"participant_id"`
}

// ExecutionHash computes the verification hash stored at execution: SHA-256
// over the election id, the winner (rank, participant) pairs sorted by
// participant id, the rng seed, and the execution timestamp.
func ExecutionHash(l *models.Lottery, winners []models.Winner, executedAt time.Time) string {
	commits := make([]winnerCommit, len(winners))
	for i, w := range winners {
		commits[i] = winnerCommit{Rank: w.Rank, ParticipantID: w.ParticipantID}
	}
	slices.SortFunc(commits, func(a, b winnerCommit) int {
		if a.ParticipantID < b.ParticipantID {
			return -1
		}
		if a.ParticipantID > b.ParticipantID {
			return 1
		}
		return 0
	})

	payload, err := json.Marshal(executionCommitment{
		ElectionID: l.ElectionID,
		Winners:    commits,
		RNGSeed:    l.RNGSeed,
		ExecutedAt: executedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		panic("lottery: execution commitment not serializable: " + err.Error())
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
