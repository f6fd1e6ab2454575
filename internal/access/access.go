// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

// Package access decides who may see and acknowledge messages.
//
// Every function is pure and total: it reads only its arguments, never
// fails, and denies by default. An empty actor is never authorized.
// Callers are responsible for loading current state (the message, the
// authenticated username) before asking.
package access

// Participants exposes the two parties of a message.
type Participants interface {
	Sender() string
	Recipient() string
}

// CanViewMessage reports whether actor may read m: only its sender or
// recipient may.
func CanViewMessage(actor string, m Participants) bool {
	if actor == "" || m == nil {
		return false
	}
	return actor == m.Sender() || actor == m.Recipient()
}

// CanMarkRead reports whether actor may mark m as read: only its
// recipient may. The sender of a self-addressed message is also its
// recipient.
func CanMarkRead(actor string, m Participants) bool {
	if actor == "" || m == nil {
		return false
	}
	return actor == m.Recipient()
}

// CanViewMailbox reports whether actor may list the messages sent or
// received by owner.
func CanViewMailbox(actor, owner string) bool {
	return actor != "" && actor == owner
}

// CanViewProfile reports whether actor may read the full profile of
// username (phone number and login history).
func CanViewProfile(actor, username string) bool {
	return actor != "" && actor == username
}
