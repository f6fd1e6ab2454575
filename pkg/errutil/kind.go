// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package errutil

import (
	"errors"
)

// Error kinds. Every domain error unwraps to exactly one of these.
var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInfrastructure = errors.New("infrastructure failure")
)

// Kind classifies an error for callers that translate errors into
// responses (HTTP status codes, CLI exit messages).
type Kind string

// Known kinds.
const (
	KindNone           Kind = ""
	KindValidation     Kind = "validation"
	KindConflict       Kind = "conflict"
	KindNotFound       Kind = "not_found"
	KindUnauthorized   Kind = "unauthorized"
	KindInfrastructure Kind = "infrastructure"
)

var kinds = []struct {
	sentinel error
	kind     Kind
}{
	{ErrValidation, KindValidation},
	{ErrConflict, KindConflict},
	{ErrNotFound, KindNotFound},
	{ErrUnauthorized, KindUnauthorized},
	{ErrInfrastructure, KindInfrastructure},
}

// KindOf returns the kind of err. A nil error has KindNone. Errors that
// carry no domain kind (driver errors, context deadlines, I/O) are
// infrastructure failures.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInfrastructure
}

// IsRetryable reports whether the operation that produced err may succeed
// if repeated unchanged. Only infrastructure failures qualify.
func IsRetryable(err error) bool {
	return KindOf(err) == KindInfrastructure
}

// kindError is a named sentinel that unwraps to a kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns a sentinel error with the given message that satisfies
// errors.Is(err, kind). Packages use it to declare their own sentinels:
//
//	var ErrNotFound = errutil.New(errutil.ErrNotFound, "user not found")
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Message returns the message of the outermost sentinel created by New in
// err's chain, or "" if there is none. It is safe to show to clients:
// unlike err.Error() it carries no wrapped context.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return ""
}
