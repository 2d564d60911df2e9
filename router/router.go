// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/lucky-ballot/cliparse"
	"github.com/danielhkuo/lucky-ballot/handlers"
	"github.com/danielhkuo/lucky-ballot/lottery"
	"github.com/danielhkuo/lucky-ballot/middleware"
	"github.com/danielhkuo/lucky-ballot/store"
)

func NewRouter(st store.Store, engine *lottery.Engine, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(st, cfg)
	lotteryHandler := handlers.NewLotteryHandler(engine, st, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election lifecycle (admin operations)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("POST /elections/{id}/open", middleware.WithLogging(electionHandler.OpenElection))
	mux.HandleFunc("POST /elections/{id}/close", middleware.WithLogging(electionHandler.CloseElection))

	// Lottery state (public)
	mux.HandleFunc("GET /elections/{id}/lottery", middleware.WithLogging(lotteryHandler.GetStatus))
	mux.HandleFunc("GET /elections/{id}/lottery/machine", middleware.WithLogging(lotteryHandler.GetMachine))

	// Lottery management (admin, requires X-Admin-Key)
	mux.HandleFunc("GET /elections/{id}/lottery/verification", middleware.WithLogging(lotteryHandler.GetVerification))
	mux.HandleFunc("POST /elections/{id}/lottery/config", middleware.WithLogging(lotteryHandler.UpdateConfig))
	mux.HandleFunc("POST /elections/{id}/lottery/initialize", middleware.WithLogging(lotteryHandler.Initialize))
	mux.HandleFunc("POST /elections/{id}/lottery/participants", middleware.WithLogging(lotteryHandler.AddParticipant))
	mux.HandleFunc("DELETE /elections/{id}/lottery/participants/{pid}", middleware.WithLogging(lotteryHandler.RemoveParticipant))
	mux.HandleFunc("POST /elections/{id}/lottery/execute", middleware.WithLogging(lotteryHandler.Execute))
	mux.HandleFunc("POST /elections/{id}/lottery/distribute", middleware.WithLogging(lotteryHandler.Distribute))

	// Public verification via share slug
	mux.HandleFunc("GET /v/{slug}", middleware.WithLogging(lotteryHandler.GetVerificationBySlug))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("lucky-ballot API v1"))
	})

	return mux
}
