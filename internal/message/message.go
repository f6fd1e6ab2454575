// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

// Package message implements the lifecycle of two-party messages:
// creation, retrieval, read acknowledgement, and per-user listings.
//
// A message moves through two states. It is created unread (ReadAt nil)
// and becomes read once its recipient acknowledges it. The transition
// happens at most once and is never undone; repeated acknowledgements
// return the original timestamp.
package message

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// MaxBodyLength is the longest accepted body, in runes.
const MaxBodyLength = 5000

// Message is a single message between two users.
type Message struct {
	ID     ulid.ULID
	From   string
	To     string
	Body   string
	SentAt time.Time
	ReadAt *time.Time
}

// Sender returns the sending username.
func (m Message) Sender() string { return m.From }

// Recipient returns the receiving username.
func (m Message) Recipient() string { return m.To }

// IsRead reports whether the recipient has acknowledged the message.
func (m Message) IsRead() bool { return m.ReadAt != nil }

// Profile is the public contact card of a message participant.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

// Detail is a message with both participants' profiles.
type Detail struct {
	Message
	FromUser Profile
	ToUser   Profile
}

// Repository persists messages.
type Repository interface {
	// Create stores a new message. Returns ErrRecipientNotFound or
	// ErrSenderNotFound if a participant does not exist.
	Create(ctx context.Context, m *Message) error

	// Get retrieves a message with both profiles. Returns ErrNotFound if absent.
	Get(ctx context.Context, id ulid.ULID) (*Detail, error)

	// MarkRead sets read_at to at unless it is already set, in one atomic
	// statement, and returns the stored message. Returns ErrNotFound if absent.
	MarkRead(ctx context.Context, id ulid.ULID, at time.Time) (*Message, error)

	// ListFrom returns messages sent by username, oldest first.
	ListFrom(ctx context.Context, username string) ([]Detail, error)

	// ListTo returns messages received by username, oldest first.
	ListTo(ctx context.Context, username string) ([]Detail, error)
}

// UserDirectory answers whether a username is registered.
type UserDirectory interface {
	Exists(ctx context.Context, username string) (bool, error)
}
