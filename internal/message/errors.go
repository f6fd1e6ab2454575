// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package message

import "github.com/holomush/messagely/pkg/errutil"

// Sentinel errors.
var (
	ErrNotFound          = errutil.New(errutil.ErrNotFound, "message not found")
	ErrRecipientNotFound = errutil.New(errutil.ErrNotFound, "recipient not found")
	ErrSenderNotFound    = errutil.New(errutil.ErrNotFound, "sender not found")
	ErrForbidden         = errutil.New(errutil.ErrUnauthorized, "not permitted")
	ErrInvalidMessage    = errutil.New(errutil.ErrValidation, "invalid message")
)
