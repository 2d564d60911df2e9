// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Lucky Ballot API server.

Lucky Ballot is an election backend with an integrated prize lottery: each
election carries exactly one lottery that draws winners from registered
participants with a cryptographically secure RNG and keeps a hash-chained
audit trail for public verification.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:lucky.db go run main.go

Or with flags:

	go run main.go -p 3419 -t sqlite -d "file:lucky.db"

A .env file in the working directory is loaded at startup if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): Connection string (unless -t memory)
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - ELECTION_SLUG_SALT (--slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3419)
  - DATABASE_TYPE (-t): postgres, sqlite, or memory (default: sqlite)
  - SCHEDULER_INTERVAL (-scheduler-interval): Scheduled-draw poll interval (default: 1m)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - lottery: Draw engine, valuation, audit trail, scheduler
  - handlers: HTTP request handlers (elections, lottery)
  - router: Route definitions using Go 1.22+ routing
  - store: Memory and SQL persistence behind one interface
  - notify: Winner and payout notifications
  - middleware: CORS, logging, JSON helpers
  - models: Domain and request/response types
  - auth: Key, slug, and seed generation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
