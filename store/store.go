// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"time"

	"github.com/danielhkuo/lucky-ballot/models"
)

// ErrNotFound is returned when no record exists for the given key.
var ErrNotFound = errors.New("record not found")

// Store is the persistence collaborator. Implementations must make
// UpdateLottery a serialized read-modify-write per election: two concurrent
// updates of the same lottery never interleave, and each closure observes
// the state the previous one committed. A closure returning an error aborts
// the update with no state change, and that error is returned verbatim.
type Store interface {
	CreateElection(e *models.Election) error
	GetElection(id string) (*models.Election, error)
	GetElectionBySlug(slug string) (*models.Election, error)
	UpdateElection(id string, fn func(*models.Election) error) (*models.Election, error)

	CreateLottery(l *models.Lottery) error
	GetLottery(electionID string) (*models.Lottery, error)
	UpdateLottery(electionID string, fn func(*models.Lottery) error) (*models.Lottery, error)

	// DueScheduledLotteries lists election ids of enabled, unexecuted
	// lotteries whose scheduled execution time is at or before now.
	DueScheduledLotteries(now time.Time) ([]string, error)
}
