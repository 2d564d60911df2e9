// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides key generation and validation for election access.

# Admin Keys

Admin keys are HMAC-SHA256 signatures over the election ID, keyed by a
server-side salt. They are deterministic, so validation recomputes the key
instead of storing it:

	key := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, providedKey, salt)

The admin key is the capability check for every mutating lottery operation
(configure, add participants, execute, distribute).

# Share Slugs

Elections get a short base62 slug derived from their ID for the public
verification page:

	slug := auth.GenerateShareSlug(electionID, slugSalt)

# Random Material

GenerateID produces random hex identifiers; GenerateSeed produces the
32-byte lottery rng seed. Both read from crypto/rand.
*/
package auth
