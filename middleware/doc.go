// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Request Logging

WithLogging wraps a handler and logs request start/completion with duration:

	mux.HandleFunc("POST /elections", middleware.WithLogging(h.CreateElection))

# JSON Helpers

  - JSONResponse: write a JSON body with a status code
  - ErrorResponse: write a models.ErrorResponse
  - ViolationsResponse: ErrorResponse plus the violated validation rules
  - ParseJSONBody: decode the request body

# CORS

CORS allows cross-origin requests and answers preflights. Applied to the
whole router in main.

# Client IP

GetClientIP resolves the caller's address through X-Forwarded-For and
X-Real-IP before falling back to RemoteAddr; handlers hash it into audit
details rather than storing it raw.
*/
package middleware
