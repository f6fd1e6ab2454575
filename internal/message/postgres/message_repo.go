// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

// Package postgres implements message storage on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/messagely/internal/message"
	"github.com/holomush/messagely/internal/store"
)

// Foreign key names assigned by PostgreSQL to the messages table.
const (
	fromUserConstraint = "messages_from_username_fkey"
	toUserConstraint   = "messages_to_username_fkey"
)

const detailColumns = `
	m.id, m.body, m.sent_at, m.read_at,
	f.username, f.first_name, f.last_name, f.phone,
	t.username, t.first_name, t.last_name, t.phone
`

const detailFrom = `
	FROM messages m
	JOIN users f ON f.username = m.from_username
	JOIN users t ON t.username = m.to_username
`

// MessageRepository implements message.Repository using PostgreSQL.
type MessageRepository struct {
	pool store.Querier
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(pool store.Querier) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create stores a new message.
func (r *MessageRepository) Create(ctx context.Context, m *message.Message) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO messages (id, from_username, to_username, body, sent_at, read_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID.String(), m.From, m.To, m.Body, m.SentAt, m.ReadAt)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.ForeignKeyViolation && pgErr.ConstraintName == toUserConstraint:
			return oops.Code("MESSAGE_RECIPIENT_NOT_FOUND").With("to", m.To).Wrap(message.ErrRecipientNotFound)
		case pgErr.Code == pgerrcode.ForeignKeyViolation && pgErr.ConstraintName == fromUserConstraint:
			return oops.Code("MESSAGE_SENDER_NOT_FOUND").With("from", m.From).Wrap(message.ErrSenderNotFound)
		case pgErr.Code == pgerrcode.CheckViolation:
			return oops.Code("MESSAGE_INVALID").With("constraint", pgErr.ConstraintName).Wrap(message.ErrInvalidMessage)
		case pgErr.Code == pgerrcode.CharacterNotInRepertoire || pgErr.Code == pgerrcode.UntranslatableCharacter:
			return oops.Code("MESSAGE_INVALID_TEXT").With("id", m.ID.String()).Wrap(errors.Join(message.ErrInvalidMessage, err))
		}
	}
	return oops.Code("MESSAGE_CREATE_FAILED").
		With("operation", "insert message").
		With("id", m.ID.String()).
		Wrap(err)
}

// Get retrieves a message with both participants' profiles.
func (r *MessageRepository) Get(ctx context.Context, id ulid.ULID) (*message.Detail, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+detailColumns+detailFrom+`WHERE m.id = $1`, id.String())
	d, err := scanDetail(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MESSAGE_NOT_FOUND").With("id", id.String()).Wrap(message.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("MESSAGE_GET_FAILED").
			With("operation", "get message").
			With("id", id.String()).
			Wrap(err)
	}
	return d, nil
}

// MarkRead sets read_at if it is unset. Concurrent callers all observe the
// first committed timestamp.
func (r *MessageRepository) MarkRead(ctx context.Context, id ulid.ULID, at time.Time) (*message.Message, error) {
	var (
		m     message.Message
		rawID string
	)
	err := r.pool.QueryRow(ctx, `
		UPDATE messages
		SET read_at = COALESCE(read_at, $2)
		WHERE id = $1
		RETURNING id, from_username, to_username, body, sent_at, read_at
	`, id.String(), at).Scan(&rawID, &m.From, &m.To, &m.Body, &m.SentAt, &m.ReadAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MESSAGE_NOT_FOUND").With("id", id.String()).Wrap(message.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("MESSAGE_UPDATE_FAILED").
			With("operation", "mark read").
			With("id", id.String()).
			Wrap(err)
	}
	if m.ID, err = parseStoredID(rawID); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListFrom returns messages sent by username, oldest first.
func (r *MessageRepository) ListFrom(ctx context.Context, username string) ([]message.Detail, error) {
	return r.list(ctx, "list sent messages", `WHERE m.from_username = $1`, username)
}

// ListTo returns messages received by username, oldest first.
func (r *MessageRepository) ListTo(ctx context.Context, username string) ([]message.Detail, error) {
	return r.list(ctx, "list received messages", `WHERE m.to_username = $1`, username)
}

func (r *MessageRepository) list(ctx context.Context, op, where, username string) ([]message.Detail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+detailColumns+detailFrom+where+` ORDER BY m.sent_at, m.id`, username)
	if err != nil {
		return nil, oops.Code("MESSAGE_LIST_FAILED").
			With("operation", op).
			With("username", username).
			Wrap(err)
	}
	defer rows.Close()

	out := []message.Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, oops.Code("MESSAGE_LIST_FAILED").
				With("operation", "scan message row").
				With("username", username).
				Wrap(err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("MESSAGE_LIST_FAILED").
			With("operation", "iterate messages").
			With("username", username).
			Wrap(err)
	}
	return out, nil
}

func scanDetail(row pgx.Row) (*message.Detail, error) {
	var (
		d     message.Detail
		rawID string
	)
	err := row.Scan(
		&rawID, &d.Body, &d.SentAt, &d.ReadAt,
		&d.FromUser.Username, &d.FromUser.FirstName, &d.FromUser.LastName, &d.FromUser.Phone,
		&d.ToUser.Username, &d.ToUser.FirstName, &d.ToUser.LastName, &d.ToUser.Phone,
	)
	if err != nil {
		return nil, err
	}
	if d.ID, err = parseStoredID(rawID); err != nil {
		return nil, err
	}
	d.From = d.FromUser.Username
	d.To = d.ToUser.Username
	return &d, nil
}

func parseStoredID(raw string) (ulid.ULID, error) {
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		return ulid.ULID{}, oops.Code("MESSAGE_CORRUPT_ID").With("id", raw).Wrap(err)
	}
	return id, nil
}

// Compile-time interface check.
var _ message.Repository = (*MessageRepository)(nil)
