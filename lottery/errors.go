// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lottery

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a stable tag identifying a lottery failure. Handlers map kinds to
// HTTP status codes; the core never deals in status codes itself.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindNotEnabled         Kind = "lottery_not_enabled"
	KindAlreadyExecuted    Kind = "lottery_already_executed"
	KindNotExecuted        Kind = "lottery_not_executed"
	KindAlreadyDistributed Kind = "prizes_already_distributed"
	KindNotExecutable      Kind = "lottery_not_executable"
	KindInvalidConfig      Kind = "invalid_lottery_config"
	KindPersistence        Kind = "persistence_failure"
)

// Error is the typed failure returned by every core operation. Violations is
// populated only for KindInvalidConfig.
type Error struct {
	Kind       Kind
	Message    string
	Violations []string
	cause      error
}

func (e *Error) Error() string {
	if len(e.Violations) > 0 {
		return e.Message + ": " + strings.Join(e.Violations, "; ")
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is (or wraps) a lottery Error of the given kind.
func IsKind(err error, k Kind) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == k
}

func errNotFound(electionID string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("no lottery exists for election %s", electionID)}
}

func errNotEnabled() *Error {
	return &Error{Kind: KindNotEnabled, Message: "lottery is not enabled"}
}

func errAlreadyExecuted() *Error {
	return &Error{Kind: KindAlreadyExecuted, Message: "lottery has already been executed"}
}

func errNotExecuted() *Error {
	return &Error{Kind: KindNotExecuted, Message: "lottery has not been executed yet"}
}

func errAlreadyDistributed() *Error {
	return &Error{Kind: KindAlreadyDistributed, Message: "prizes have already been distributed"}
}

func errNotExecutable(reason string) *Error {
	return &Error{Kind: KindNotExecutable, Message: "lottery cannot be executed: " + reason}
}

func errInvalidConfig(violations []string) *Error {
	return &Error{Kind: KindInvalidConfig, Message: "invalid lottery configuration", Violations: violations}
}

func errPersistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "storage operation failed", cause: err}
}
