// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package auth

import "github.com/holomush/messagely/pkg/errutil"

// Sentinel errors. Each one unwraps to an errutil kind.
var (
	// ErrNotFound is returned when no account exists for a username.
	ErrNotFound = errutil.New(errutil.ErrNotFound, "user not found")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errutil.New(errutil.ErrConflict, "username already taken")
	// ErrInvalidCredentials is returned by Login for unknown users and wrong passwords alike.
	ErrInvalidCredentials = errutil.New(errutil.ErrUnauthorized, "invalid credentials")
	// ErrInvalidToken is returned for missing, malformed, tampered, or expired tokens.
	ErrInvalidToken = errutil.New(errutil.ErrUnauthorized, "invalid token")
	// ErrInvalidInput is returned when user-supplied fields fail validation.
	ErrInvalidInput = errutil.New(errutil.ErrValidation, "invalid user input")
)
