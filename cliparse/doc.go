// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses server configuration from CLI flags and environment.

Flags take precedence; environment variables fill in the rest:

  - -p / PORT: server port (default 3419)
  - -d / DATABASE_URL: connection string (not needed for memory)
  - -t / DATABASE_TYPE: postgres, sqlite or memory (default sqlite)
  - -scheduler-interval / SCHEDULER_INTERVAL: due-lottery sweep interval
    (default 1m)
  - -admin-salt / ADMIN_KEY_SALT: secret for admin key HMAC (required)
  - -slug-salt / ELECTION_SLUG_SALT: secret for share slugs (required)

main loads a .env file via godotenv before calling ParseFlags, so local
development can keep secrets out of the shell history.
*/
package cliparse
