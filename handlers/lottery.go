// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/lucky-ballot/auth"
	"github.com/danielhkuo/lucky-ballot/cliparse"
	"github.com/danielhkuo/lucky-ballot/lottery"
	"github.com/danielhkuo/lucky-ballot/middleware"
	"github.com/danielhkuo/lucky-ballot/models"
	"github.com/danielhkuo/lucky-ballot/store"
)

type LotteryHandler struct {
	engine *lottery.Engine
	store  store.Store
	cfg    cliparse.Config
}

func NewLotteryHandler(engine *lottery.Engine, st store.Store, cfg cliparse.Config) *LotteryHandler {
	return &LotteryHandler{engine: engine, store: st, cfg: cfg}
}

// GetStatus handles GET /elections/{id}/lottery
// Public view: configuration summary and outcome, never the rng seed.
func (h *LotteryHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	status, err := h.engine.Status(electionID)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, status)
}

// GetMachine handles GET /elections/{id}/lottery/machine
func (h *LotteryHandler) GetMachine(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	data, err := h.engine.MachineData(electionID)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, data)
}

// GetVerification handles GET /elections/{id}/lottery/verification
// Admin access: the payload includes the rng seed and full audit trail.
func (h *LotteryHandler) GetVerification(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	verification, err := h.engine.Verification(electionID)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, verification)
}

// GetVerificationBySlug handles GET /v/{slug}
// Public access via the election's share slug. Sealed until execution so the
// seed cannot leak before the draw is final.
func (h *LotteryHandler) GetVerificationBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	election, err := h.store.GetElectionBySlug(slug)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	verification, err := h.engine.Verification(election.ID)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	if !verification.Executed {
		middleware.ErrorResponse(w, http.StatusForbidden, "Verification is sealed until the lottery is executed")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, verification)
}

// UpdateConfig handles POST /elections/{id}/lottery/config
func (h *LotteryHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var patch models.LotteryConfigPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	updated, err := h.engine.UpdateConfig(electionID, patch)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, updated.Config)
}

// Initialize handles POST /elections/{id}/lottery/initialize
// Generates the rng seed. Idempotent before execution.
func (h *LotteryHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	updated, err := h.engine.Initialize(electionID)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"election_id":   updated.ElectionID,
		"rng_algorithm": updated.RNGAlgorithm,
		"seed_present":  updated.RNGSeed != "",
	})
}

// AddParticipant handles POST /elections/{id}/lottery/participants
func (h *LotteryHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.AddParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ParticipantID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant_id must be a positive integer")
		return
	}

	updated, err := h.engine.AddParticipant(electionID, req.ParticipantID)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddParticipantResponse{
		ParticipantCount: updated.ParticipantCount(),
		TotalBalls:       updated.TotalBalls(),
	})
}

// RemoveParticipant handles DELETE /elections/{id}/lottery/participants/{pid}
func (h *LotteryHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	participantID, err := strconv.ParseInt(r.PathValue("pid"), 10, 64)
	if err != nil || participantID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant id must be a positive integer")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	updated, err := h.engine.RemoveParticipant(electionID, participantID)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AddParticipantResponse{
		ParticipantCount: updated.ParticipantCount(),
		TotalBalls:       updated.TotalBalls(),
	})
}

// Execute handles POST /elections/{id}/lottery/execute
func (h *LotteryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	// Body is optional; an empty body means an automatic trigger.
	var req models.ExecuteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && err != io.EOF {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Hashed caller address goes to the log for abuse tracing; the raw IP is
	// never stored.
	clientIP := middleware.GetClientIP(r)
	slog.Info("lottery execution requested",
		"election_id", electionID,
		"executed_by", req.ExecutedBy,
		"ip_hash", auth.HashIP(clientIP, h.cfg.AdminKeySalt),
	)

	updated, err := h.engine.Execute(electionID, req.ExecutedBy)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ExecuteResponse{
		Winners:          updated.Winners,
		VerificationHash: updated.VerificationHash,
		ExecutedAt:       *updated.ExecutionTimestamp,
		ExecutionMethod:  updated.ExecutionMethod,
	})
}

// Distribute handles POST /elections/{id}/lottery/distribute
func (h *LotteryHandler) Distribute(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.DistributeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.DistributedBy == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "distributed_by is required")
		return
	}

	updated, err := h.engine.Distribute(electionID, req.DistributedBy)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	var distributedAt = updated.UpdatedAt
	middleware.JSONResponse(w, http.StatusOK, models.DistributeResponse{
		DistributionLog: updated.DistributionLog,
		DistributedAt:   distributedAt,
	})
}

// writeLotteryError maps the engine's typed error kinds to HTTP status
// codes. The core never sees status codes; this is the only translation
// point.
func writeLotteryError(w http.ResponseWriter, err error) {
	var le *lottery.Error
	if !errors.As(err, &le) {
		slog.Error("unexpected lottery error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
		return
	}

	switch le.Kind {
	case lottery.KindNotFound:
		middleware.ErrorResponse(w, http.StatusNotFound, le.Message)
	case lottery.KindInvalidConfig:
		middleware.ViolationsResponse(w, http.StatusUnprocessableEntity, le.Message, le.Violations)
	case lottery.KindPersistence:
		slog.Error("lottery persistence failure", "error", le.Unwrap())
		middleware.ErrorResponse(w, http.StatusInternalServerError, le.Message)
	case lottery.KindNotEnabled, lottery.KindAlreadyExecuted, lottery.KindNotExecuted,
		lottery.KindAlreadyDistributed, lottery.KindNotExecutable:
		middleware.ErrorResponse(w, http.StatusConflict, le.Message)
	default:
		slog.Error("unmapped lottery error kind", "kind", le.Kind, "error", le)
		middleware.ErrorResponse(w, http.StatusInternalServerError, le.Message)
	}
}
