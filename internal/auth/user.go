// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/samber/oops"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// Profile field limits.
const (
	MaxNameLength  = 100
	MaxPhoneLength = 32
)

// usernameRegex matches usernames that:
// - Start with a letter (a-z, A-Z)
// - Contain only letters, numbers, and underscores
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// User is a registered user's profile.
type User struct {
	Username    string
	FirstName   string
	LastName    string
	Phone       string
	JoinedAt    time.Time
	LastLoginAt time.Time
}

// UserSummary is the directory entry for a user.
type UserSummary struct {
	Username  string
	FirstName string
	LastName  string
}

// Account is a User together with its password hash. Only the write path
// (UserRepository.Create) accepts it; no read path returns it.
type Account struct {
	User
	PasswordHash string
}

// RegisterInput holds the fields needed to create a user.
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Validate checks every field and reports all failures at once.
func (in RegisterInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.By(usernameRule)),
		validation.Field(&in.Password, validation.Required, NoNUL, validation.By(passwordRule)),
		validation.Field(&in.FirstName, validation.Required, NoNUL, validation.By(notBlank), validation.Length(1, MaxNameLength)),
		validation.Field(&in.LastName, validation.Required, NoNUL, validation.By(notBlank), validation.Length(1, MaxNameLength)),
		validation.Field(&in.Phone, validation.Required, NoNUL, validation.Length(1, MaxPhoneLength)),
	)
	if err != nil {
		return oops.Code("AUTH_INVALID_INPUT").
			With("username", in.Username).
			Wrap(errors.Join(ErrInvalidInput, err))
	}
	return nil
}

// NoNUL rejects strings containing U+0000, which PostgreSQL text columns
// cannot hold.
var NoNUL = validation.By(func(value any) error {
	s, _ := value.(string)
	if strings.ContainsRune(s, 0) {
		return errors.New("cannot contain NUL characters")
	}
	return nil
})

func usernameRule(value any) error {
	s, _ := value.(string)
	if err := ValidateUsername(s); err != nil {
		return errors.New(usernameHint(s))
	}
	return nil
}

func passwordRule(value any) error {
	s, _ := value.(string)
	if len(s) > MaxPasswordBytes {
		return errors.New("must be at most 72 bytes")
	}
	return nil
}

func notBlank(value any) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func usernameHint(s string) string {
	switch {
	case len(s) < MinUsernameLength:
		return "must be at least 3 characters"
	case len(s) > MaxUsernameLength:
		return "must be at most 30 characters"
	default:
		return "must start with a letter and contain only letters, numbers, and underscores"
	}
}

// ValidateUsername validates a username against rules.
// Username requirements:
// - Length: MinUsernameLength to MaxUsernameLength characters
// - Must start with a letter
// - May only contain letters, numbers, and underscores
//
// Usernames are case-sensitive identifiers.
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Wrapf(ErrInvalidInput, "username cannot be empty")
	}
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("length", len(username)).
			Wrapf(ErrInvalidInput, "username must be %d-%d characters", MinUsernameLength, MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("AUTH_INVALID_USERNAME").
			Wrapf(ErrInvalidInput, "username must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create persists a new account. Returns ErrUsernameTaken if the
	// username is already registered.
	Create(ctx context.Context, account *Account) error

	// Get retrieves a user's profile. Returns ErrNotFound if absent.
	Get(ctx context.Context, username string) (*User, error)

	// PasswordHash retrieves the stored hash for verification. Returns
	// ErrNotFound if absent.
	PasswordHash(ctx context.Context, username string) (string, error)

	// List returns all users ordered by last name, first name, username.
	List(ctx context.Context) ([]UserSummary, error)

	// Exists reports whether a username is registered.
	Exists(ctx context.Context, username string) (bool, error)

	// UpdateLastLogin sets last_login_at. Returns ErrNotFound if absent.
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error

	// UpdatePasswordHash replaces the stored hash. Returns ErrNotFound if absent.
	UpdatePasswordHash(ctx context.Context, username, hash string) error
}
