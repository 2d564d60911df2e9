// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers contains the HTTP handlers for elections and their
// lotteries. Handlers validate input and admin keys, delegate to the store or
// the lottery engine, and translate typed engine errors into status codes.
package handlers
