// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/lucky-ballot/auth"
	"github.com/danielhkuo/lucky-ballot/cliparse"
	"github.com/danielhkuo/lucky-ballot/models"
	"github.com/danielhkuo/lucky-ballot/store"
)

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3419,
		DatabaseType:      "memory",
		AdminKeySalt:      "test-admin-salt",
		ElectionSlugSalt:  "test-slug-salt",
		SchedulerInterval: time.Minute,
	}
}

// CreateTestElection seeds an election with its draft lottery and returns the
// election ID, admin key, and share slug.
// status should be "draft", "open", or "closed"
func CreateTestElection(t *testing.T, st store.Store, cfg cliparse.Config, status string) (electionID, adminKey, shareSlug string) {
	t.Helper()

	electionID, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate election id: %v", err)
	}
	adminKey = auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)
	shareSlug = auth.GenerateShareSlug(electionID, cfg.ElectionSlugSalt)

	now := time.Now()
	election := &models.Election{
		ID:          electionID,
		Title:       "Test Election",
		Description: "A test election",
		CreatorName: "TestUser",
		Status:      status,
		ShareSlug:   shareSlug,
		CreatedAt:   now,
	}
	if status == models.StatusClosed {
		election.ClosedAt = &now
	}

	if err := st.CreateElection(election); err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}
	if err := st.CreateLottery(models.NewLottery(electionID, now)); err != nil {
		t.Fatalf("Failed to create test lottery: %v", err)
	}

	return electionID, adminKey, shareSlug
}

// EnableTestLottery flips the lottery to enabled and applies the given config
// mutation, if any.
func EnableTestLottery(t *testing.T, st store.Store, electionID string, mutate func(*models.LotteryConfig)) {
	t.Helper()

	_, err := st.UpdateLottery(electionID, func(l *models.Lottery) error {
		l.Config.Enabled = true
		if mutate != nil {
			mutate(&l.Config)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to enable test lottery: %v", err)
	}
}

// AddTestParticipants registers the given participant IDs directly in the store
func AddTestParticipants(t *testing.T, st store.Store, electionID string, ids ...int64) {
	t.Helper()

	_, err := st.UpdateLottery(electionID, func(l *models.Lottery) error {
		l.ParticipantIDs = append(l.ParticipantIDs, ids...)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to add test participants: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
