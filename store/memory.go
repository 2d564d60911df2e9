// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/danielhkuo/lucky-ballot/models"
)

// Memory is an in-process Store. It backs tests and single-node deployments
// that run without a database (DATABASE_TYPE=memory).
type Memory struct {
	mu        sync.Mutex
	elections map[string]*models.Election
	lotteries map[string]*models.Lottery
	locks     keyedMutex
}

func NewMemory() *Memory {
	return &Memory{
		elections: make(map[string]*models.Election),
		lotteries: make(map[string]*models.Lottery),
	}
}

func (m *Memory) CreateElection(e *models.Election) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.elections[e.ID]; ok {
		return fmt.Errorf("election %s already exists", e.ID)
	}
	m.elections[e.ID] = cloneElection(e)
	return nil
}

func (m *Memory) GetElection(id string) (*models.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.elections[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneElection(e), nil
}

func (m *Memory) GetElectionBySlug(slug string) (*models.Election, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.elections {
		if e.ShareSlug == slug {
			return cloneElection(e), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UpdateElection(id string, fn func(*models.Election) error) (*models.Election, error) {
	unlock := m.locks.lock("election:" + id)
	defer unlock()

	m.mu.Lock()
	current, ok := m.elections[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	working := cloneElection(current)
	if err := fn(working); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.elections[id] = working
	m.mu.Unlock()
	return cloneElection(working), nil
}

func (m *Memory) CreateLottery(l *models.Lottery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lotteries[l.ElectionID]; ok {
		return fmt.Errorf("lottery for election %s already exists", l.ElectionID)
	}
	m.lotteries[l.ElectionID] = cloneLottery(l)
	return nil
}

func (m *Memory) GetLottery(electionID string) (*models.Lottery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lotteries[electionID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneLottery(l), nil
}

// UpdateLottery runs fn on a private copy under a per-election lock. The
// copy is committed only when fn returns nil, so a rejected operation never
// persists partial state.
func (m *Memory) UpdateLottery(electionID string, fn func(*models.Lottery) error) (*models.Lottery, error) {
	unlock := m.locks.lock("lottery:" + electionID)
	defer unlock()

	m.mu.Lock()
	current, ok := m.lotteries[electionID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	working := cloneLottery(current)
	if err := fn(working); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.lotteries[electionID] = working
	m.mu.Unlock()
	return cloneLottery(working), nil
}

func (m *Memory) DueScheduledLotteries(now time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var due []string
	for id, l := range m.lotteries {
		if l.Executed || !l.Config.Enabled || l.Config.ScheduledAt == nil {
			continue
		}
		if !l.Config.ScheduledAt.After(now) {
			due = append(due, id)
		}
	}
	return due, nil
}

// Clones go through JSON so callers never share slices or maps with the
// stored aggregates. The types round-trip losslessly (decimals marshal as
// strings).
func cloneLottery(l *models.Lottery) *models.Lottery {
	return cloneJSON(l)
}

func cloneElection(e *models.Election) *models.Election {
	return cloneJSON(e)
}

func cloneJSON[T any](v *T) *T {
	b, err := json.Marshal(v)
	if err != nil {
		panic("store: clone marshal failed: " + err.Error())
	}
	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		panic("store: clone unmarshal failed: " + err.Error())
	}
	return out
}
