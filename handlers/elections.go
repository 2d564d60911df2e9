// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/lucky-ballot/auth"
	"github.com/danielhkuo/lucky-ballot/cliparse"
	"github.com/danielhkuo/lucky-ballot/middleware"
	"github.com/danielhkuo/lucky-ballot/models"
	"github.com/danielhkuo/lucky-ballot/store"
)

type ElectionHandler struct {
	store store.Store
	cfg   cliparse.Config
}

func NewElectionHandler(st store.Store, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{store: st, cfg: cfg}
}

// CreateElection handles POST /elections
// Creates the election and its draft lottery in one step.
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.CreatorName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "creator_name is required")
		return
	}
	for _, q := range req.Questions {
		if q.Text == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "question text is required")
			return
		}
	}

	electionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate election ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	adminKey := auth.GenerateAdminKey(electionID, h.cfg.AdminKeySalt)
	shareSlug := auth.GenerateShareSlug(electionID, h.cfg.ElectionSlugSalt)

	questions := make([]models.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questionID, err := auth.GenerateID(12)
		if err != nil {
			slog.Error("failed to generate question ID", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
			return
		}
		answers := make([]models.Answer, 0, len(q.Answers))
		for _, text := range q.Answers {
			answerID, err := auth.GenerateID(8)
			if err != nil {
				slog.Error("failed to generate answer ID", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
				return
			}
			answers = append(answers, models.Answer{ID: answerID, Text: text})
		}
		questions = append(questions, models.Question{ID: questionID, Text: q.Text, Answers: answers})
	}

	now := time.Now()
	election := &models.Election{
		ID:          electionID,
		Title:       req.Title,
		Description: req.Description,
		CreatorName: req.CreatorName,
		Status:      models.StatusDraft,
		ShareSlug:   shareSlug,
		Questions:   questions,
		CreatedAt:   now,
	}

	if err := h.store.CreateElection(election); err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	// Every election carries a lottery from birth, disabled until configured.
	if err := h.store.CreateLottery(models.NewLottery(electionID, now)); err != nil {
		slog.Error("failed to insert lottery", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", electionID, "creator", req.CreatorName)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: electionID,
		AdminKey:   adminKey,
		ShareSlug:  shareSlug,
	})
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	election, err := h.store.GetElection(electionID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, election)
}

// OpenElection handles POST /elections/{id}/open
func (h *ElectionHandler) OpenElection(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.StatusDraft, models.StatusOpen)
}

// CloseElection handles POST /elections/{id}/close
func (h *ElectionHandler) CloseElection(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.StatusOpen, models.StatusClosed)
}

func (h *ElectionHandler) transition(w http.ResponseWriter, r *http.Request, from, to string) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var conflict bool
	election, err := h.store.UpdateElection(electionID, func(e *models.Election) error {
		if e.Status != from {
			conflict = true
			return errors.New("election is not in " + from + " status")
		}
		e.Status = to
		if to == models.StatusClosed {
			now := time.Now()
			e.ClosedAt = &now
		}
		return nil
	})

	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if conflict {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not in "+from+" status")
		return
	}
	if err != nil {
		slog.Error("failed to update election", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update election")
		return
	}

	slog.Info("election status changed", "election_id", electionID, "status", to)

	middleware.JSONResponse(w, http.StatusOK, election)
}
