// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package message

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/messagely/internal/access"
)

// Service coordinates message operations and enforces access rules.
type Service struct {
	repo   Repository
	users  UserDirectory
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, users UserDirectory, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, oops.Code("MESSAGE_INVALID_SERVICE_CONFIG").Errorf("message repository is required")
	}
	if users == nil {
		return nil, oops.Code("MESSAGE_INVALID_SERVICE_CONFIG").Errorf("user directory is required")
	}
	s := &Service{repo: repo, users: users, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ParseID parses a message id. A malformed id cannot name an existing
// message, so it is reported as not found.
func ParseID(s string) (ulid.ULID, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return ulid.ULID{}, oops.Code("MESSAGE_NOT_FOUND").With("id", s).Wrap(ErrNotFound)
	}
	return id, nil
}

// Create stores a new unread message from one user to another. from is
// the authenticated sender; to must be a registered user. Sending to
// oneself is allowed.
func (s *Service) Create(ctx context.Context, from, to, body string) (*Message, error) {
	switch {
	case to == "":
		return nil, oops.Code("MESSAGE_RECIPIENT_REQUIRED").Wrapf(ErrInvalidMessage, "recipient is required")
	case strings.ContainsRune(to, 0):
		return nil, oops.Code("MESSAGE_RECIPIENT_INVALID").Wrapf(ErrInvalidMessage, "recipient cannot contain NUL characters")
	case strings.TrimSpace(body) == "":
		return nil, oops.Code("MESSAGE_BODY_EMPTY").Wrapf(ErrInvalidMessage, "body cannot be empty")
	case strings.ContainsRune(body, 0):
		return nil, oops.Code("MESSAGE_BODY_INVALID").Wrapf(ErrInvalidMessage, "body cannot contain NUL characters")
	case utf8.RuneCountInString(body) > MaxBodyLength:
		return nil, oops.Code("MESSAGE_BODY_TOO_LONG").
			With("max", MaxBodyLength).
			Wrapf(ErrInvalidMessage, "body exceeds %d characters", MaxBodyLength)
	}

	exists, err := s.users.Exists(ctx, to)
	if err != nil {
		return nil, oops.Code("MESSAGE_CREATE_FAILED").
			With("operation", "check recipient").
			With("to", to).
			Wrap(err)
	}
	if !exists {
		return nil, oops.Code("MESSAGE_RECIPIENT_NOT_FOUND").With("to", to).Wrap(ErrRecipientNotFound)
	}

	m := &Message{
		ID:     ulid.Make(),
		From:   from,
		To:     to,
		Body:   body,
		SentAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, ErrRecipientNotFound) || errors.Is(err, ErrSenderNotFound) {
			return nil, oops.Code("MESSAGE_PARTICIPANT_NOT_FOUND").With("from", from).With("to", to).Wrap(err)
		}
		return nil, oops.Code("MESSAGE_CREATE_FAILED").
			With("operation", "insert message").
			With("from", from).
			With("to", to).
			Wrap(err)
	}

	s.logger.DebugContext(ctx, "message created", "id", m.ID.String(), "from", from, "to", to)
	return m, nil
}

// Get returns a message with both profiles. It performs no visibility
// check; callers serving users should use View.
func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Detail, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, oops.With("operation", "get message").With("id", id.String()).Wrap(err)
	}
	return d, nil
}

// View returns a message if actor is one of its participants.
func (s *Service) View(ctx context.Context, id ulid.ULID, actor string) (*Detail, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanViewMessage(actor, d) {
		return nil, oops.Code("MESSAGE_VIEW_FORBIDDEN").
			With("id", id.String()).
			With("actor", actor).
			Wrap(ErrForbidden)
	}
	return d, nil
}

// MarkRead records that actor, the recipient, has read the message. The
// first call sets read_at; later calls, including concurrent ones, return
// the same timestamp.
func (s *Service) MarkRead(ctx context.Context, id ulid.ULID, actor string) (*Message, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanMarkRead(actor, d) {
		return nil, oops.Code("MESSAGE_MARK_READ_FORBIDDEN").
			With("id", id.String()).
			With("actor", actor).
			Wrap(ErrForbidden)
	}
	if d.IsRead() {
		m := d.Message
		return &m, nil
	}

	m, err := s.repo.MarkRead(ctx, id, s.now().UTC())
	if err != nil {
		return nil, oops.With("operation", "mark read").With("id", id.String()).Wrap(err)
	}
	return m, nil
}

// MessagesFrom returns messages sent by username, oldest first.
func (s *Service) MessagesFrom(ctx context.Context, username string) ([]Detail, error) {
	out, err := s.repo.ListFrom(ctx, username)
	if err != nil {
		return nil, oops.With("operation", "list sent messages").With("username", username).Wrap(err)
	}
	return nonNil(out), nil
}

// MessagesTo returns messages received by username, oldest first.
func (s *Service) MessagesTo(ctx context.Context, username string) ([]Detail, error) {
	out, err := s.repo.ListTo(ctx, username)
	if err != nil {
		return nil, oops.With("operation", "list received messages").With("username", username).Wrap(err)
	}
	return nonNil(out), nil
}

func nonNil(d []Detail) []Detail {
	if d == nil {
		return []Detail{}
	}
	return d
}
