// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Lucky Ballot API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, engine, cfg)

# Endpoints

Health:

	GET /health

Election lifecycle (admin, requires X-Admin-Key except creation):

	POST /elections             - Create election with its draft lottery
	GET  /elections/{id}        - Get election details
	POST /elections/{id}/open   - Open for entries
	POST /elections/{id}/close  - Close election

Lottery state (public):

	GET /elections/{id}/lottery         - Status and outcome (no seed)
	GET /elections/{id}/lottery/machine - Draw-machine animation data

Lottery management (admin, requires X-Admin-Key):

	GET    /elections/{id}/lottery/verification       - Seed and audit trail
	POST   /elections/{id}/lottery/config             - Patch configuration
	POST   /elections/{id}/lottery/initialize         - Generate rng seed
	POST   /elections/{id}/lottery/participants       - Add participant
	DELETE /elections/{id}/lottery/participants/{pid} - Remove participant
	POST   /elections/{id}/lottery/execute            - Run the draw
	POST   /elections/{id}/lottery/distribute         - Record prize payouts

Public verification (uses share slug, sealed until executed):

	GET /v/{slug}

# Handler Initialization

The router creates handler instances with dependency injection:

	electionHandler := handlers.NewElectionHandler(st, cfg)
	lotteryHandler := handlers.NewLotteryHandler(engine, st, cfg)

Handlers receive the store, the lottery engine, and the configuration.
*/
package router
