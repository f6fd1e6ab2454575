// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

// Package postgres implements the credential store on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/holomush/messagely/internal/auth"
	"github.com/holomush/messagely/internal/store"
)

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	pool store.Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool store.Querier) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create stores a new account.
func (r *UserRepository) Create(ctx context.Context, account *auth.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (
			username, password_hash, first_name, last_name, phone,
			joined_at, last_login_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		account.Username,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Phone,
		account.JoinedAt,
		account.LastLoginAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_DUPLICATE").
				With("username", account.Username).
				Wrap(auth.ErrUsernameTaken)
		}
		if unencodable(err) {
			return oops.Code("USER_INVALID_TEXT").
				With("username", account.Username).
				Wrap(errors.Join(auth.ErrInvalidInput, err))
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", account.Username).
			Wrap(err)
	}
	return nil
}

// Get retrieves a user's profile.
func (r *UserRepository) Get(ctx context.Context, username string) (*auth.User, error) {
	var u auth.User
	err := r.pool.QueryRow(ctx, `
		SELECT username, first_name, last_name, phone, joined_at, last_login_at
		FROM users
		WHERE username = $1
	`, username).Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone, &u.JoinedAt, &u.LastLoginAt)
	if errors.Is(err, pgx.ErrNoRows) || unencodable(err) {
		return nil, oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user").
			With("username", username).
			Wrap(err)
	}
	return &u, nil
}

// PasswordHash retrieves the stored password hash.
func (r *UserRepository) PasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	err := r.pool.QueryRow(ctx, `SELECT password_hash FROM users WHERE username = $1`, username).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) || unencodable(err) {
		return "", oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return "", oops.Code("USER_GET_FAILED").
			With("operation", "get password hash").
			With("username", username).
			Wrap(err)
	}
	return hash, nil
}

// List returns all users ordered by last name, first name, username.
func (r *UserRepository) List(ctx context.Context) ([]auth.UserSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT username, first_name, last_name
		FROM users
		ORDER BY last_name, first_name, username
	`)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").With("operation", "list users").Wrap(err)
	}
	defer rows.Close()

	users := []auth.UserSummary{}
	for rows.Next() {
		var u auth.UserSummary
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName); err != nil {
			return nil, oops.Code("USER_LIST_FAILED").With("operation", "scan user row").Wrap(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_LIST_FAILED").With("operation", "iterate users").Wrap(err)
	}
	return users, nil
}

// Exists reports whether username is registered.
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if unencodable(err) {
		return false, nil
	}
	if err != nil {
		return false, oops.Code("USER_EXISTS_FAILED").With("username", username).Wrap(err)
	}
	return exists, nil
}

// UpdateLastLogin sets last_login_at.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	result, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE username = $1`, username, at)
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").
			With("operation", "update last login").
			With("username", username).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	return nil
}

// UpdatePasswordHash replaces the stored hash.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	result, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE username = $1`, username, hash)
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").
			With("operation", "update password hash").
			With("username", username).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	return nil
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)

// unencodable reports whether PostgreSQL refused a text argument it cannot
// store, such as one containing NUL. No stored row can match such a value.
func unencodable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.CharacterNotInRepertoire || pgErr.Code == pgerrcode.UntranslatableCharacter
}
