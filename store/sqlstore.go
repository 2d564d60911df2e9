// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielhkuo/lucky-ballot/models"
)

// SQL is the database-backed Store. Elections live in columns; the lottery
// aggregate is persisted as a JSON payload alongside the columns needed for
// querying (enabled, executed, scheduled_at).
//
// Lottery updates run inside a transaction, with SELECT ... FOR UPDATE on
// Postgres. The keyed in-process mutex serializes same-election writers on
// SQLite too, where FOR UPDATE is unavailable; multi-process Postgres
// deployments rely on the row lock.
type SQL struct {
	db      *sql.DB
	dialect string
	locks   keyedMutex
}

// NewSQL wraps an open database connection. dialect is "postgres" or
// "sqlite" (matching cliparse.Config.DatabaseType).
func NewSQL(db *sql.DB, dialect string) *SQL {
	return &SQL{db: db, dialect: dialect}
}

func (s *SQL) CreateElection(e *models.Election) error {
	questions, err := json.Marshal(e.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO election (id, title, description, creator_name, status, share_slug, questions, created_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.Title, e.Description, e.CreatorName, e.Status, e.ShareSlug, string(questions), e.CreatedAt, e.ClosedAt)
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", err)
	}
	return nil
}

func (s *SQL) GetElection(id string) (*models.Election, error) {
	return s.scanElection(s.db.QueryRow(`
		SELECT id, title, description, creator_name, status, share_slug, questions, created_at, closed_at
		FROM election WHERE id = $1
	`, id))
}

func (s *SQL) GetElectionBySlug(slug string) (*models.Election, error) {
	return s.scanElection(s.db.QueryRow(`
		SELECT id, title, description, creator_name, status, share_slug, questions, created_at, closed_at
		FROM election WHERE share_slug = $1
	`, slug))
}

func (s *SQL) scanElection(row *sql.Row) (*models.Election, error) {
	var e models.Election
	var questions string
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.CreatorName, &e.Status,
		&e.ShareSlug, &questions, &e.CreatedAt, &e.ClosedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan election: %w", err)
	}
	if err := json.Unmarshal([]byte(questions), &e.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	return &e, nil
}

func (s *SQL) UpdateElection(id string, fn func(*models.Election) error) (*models.Election, error) {
	unlock := s.locks.lock("election:" + id)
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var e models.Election
	var questions string
	err = tx.QueryRow(`
		SELECT id, title, description, creator_name, status, share_slug, questions, created_at, closed_at
		FROM election WHERE id = $1`+s.forUpdate(), id).
		Scan(&e.ID, &e.Title, &e.Description, &e.CreatorName, &e.Status,
			&e.ShareSlug, &questions, &e.CreatedAt, &e.ClosedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load election: %w", err)
	}
	if err := json.Unmarshal([]byte(questions), &e.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}

	if err := fn(&e); err != nil {
		return nil, err
	}

	updatedQuestions, err := json.Marshal(e.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}
	_, err = tx.Exec(`
		UPDATE election SET title = $1, description = $2, status = $3, questions = $4, closed_at = $5
		WHERE id = $6
	`, e.Title, e.Description, e.Status, string(updatedQuestions), e.ClosedAt, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update election: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit election update: %w", err)
	}
	return &e, nil
}

func (s *SQL) CreateLottery(l *models.Lottery) error {
	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal lottery: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO lottery (election_id, enabled, executed, scheduled_at, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, l.ElectionID, l.Config.Enabled, l.Executed, l.Config.ScheduledAt, string(payload), l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert lottery: %w", err)
	}
	return nil
}

func (s *SQL) GetLottery(electionID string) (*models.Lottery, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM lottery WHERE election_id = $1`, electionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lottery: %w", err)
	}
	var l models.Lottery
	if err := json.Unmarshal([]byte(payload), &l); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lottery: %w", err)
	}
	return &l, nil
}

func (s *SQL) UpdateLottery(electionID string, fn func(*models.Lottery) error) (*models.Lottery, error) {
	unlock := s.locks.lock("lottery:" + electionID)
	defer unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var payload string
	err = tx.QueryRow(`SELECT payload FROM lottery WHERE election_id = $1`+s.forUpdate(), electionID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lottery: %w", err)
	}

	var l models.Lottery
	if err := json.Unmarshal([]byte(payload), &l); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lottery: %w", err)
	}

	if err := fn(&l); err != nil {
		return nil, err
	}

	updated, err := json.Marshal(&l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lottery: %w", err)
	}
	_, err = tx.Exec(`
		UPDATE lottery SET enabled = $1, executed = $2, scheduled_at = $3, payload = $4, updated_at = $5
		WHERE election_id = $6
	`, l.Config.Enabled, l.Executed, l.Config.ScheduledAt, string(updated), l.UpdatedAt, l.ElectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update lottery: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit lottery update: %w", err)
	}
	return &l, nil
}

func (s *SQL) DueScheduledLotteries(now time.Time) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT election_id FROM lottery
		WHERE enabled = TRUE AND executed = FALSE AND scheduled_at IS NOT NULL AND scheduled_at <= $1
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due lotteries: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan due lottery: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQL) forUpdate() string {
	if s.dialect == "postgres" {
		return " FOR UPDATE"
	}
	return ""
}
