// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/messagely/internal/observability"
	"github.com/holomush/messagely/pkg/errutil"
)

// dummyPassword is hashed once per Service so that lookups of unknown
// usernames still cost one verification at the configured work factor.
//
//nolint:gosec // G101: not a credential.
const dummyPassword = "messagely-timing-equalizer"

// Service provides authentication operations.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *slog.Logger
	now    func() time.Time

	dummyMu   sync.Mutex
	dummyHash string
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets the logger used for best-effort failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			return oops.Code("AUTH_INVALID_SERVICE_CONFIG").Errorf("logger is required")
		}
		s.logger = logger
		return nil
	}
}

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) error {
		if now == nil {
			return oops.Code("AUTH_INVALID_SERVICE_CONFIG").Errorf("clock is required")
		}
		s.now = now
		return nil
	}
}

// NewAuthService creates a new Service.
func NewAuthService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE_CONFIG").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE_CONFIG").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE_CONFIG").Errorf("token issuer is required")
	}
	s := &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register validates input, hashes the password and stores a new user.
// joined_at and last_login_at are both set to the registration time.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			With("username", in.Username).
			Wrap(err)
	}

	now := s.now().UTC()
	account := &Account{
		User: User{
			Username:    in.Username,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Phone:       in.Phone,
			JoinedAt:    now,
			LastLoginAt: now,
		},
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, account); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, oops.Code("AUTH_USERNAME_TAKEN").With("username", in.Username).Wrap(err)
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			With("username", in.Username).
			Wrap(err)
	}

	user := account.User
	return &user, nil
}

// Authenticate reports whether password matches the stored hash for
// username. It returns an error wrapping ErrNotFound when no such user
// exists; callers exposing the result externally should not distinguish
// the two failure modes (see Login). A username that fails
// ValidateUsername cannot have been registered and is not looked up.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if ValidateUsername(username) != nil {
		s.verifyDummy(password)
		return false, oops.Code("AUTH_USER_NOT_FOUND").With("username", username).Wrap(ErrNotFound)
	}
	hash, err := s.users.PasswordHash(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.verifyDummy(password)
			return false, oops.Code("AUTH_USER_NOT_FOUND").With("username", username).Wrap(err)
		}
		return false, oops.Code("AUTH_LOOKUP_FAILED").
			With("operation", "get password hash").
			With("username", username).
			Wrap(err)
	}

	ok, err := s.hasher.Verify(password, hash)
	if err != nil {
		return false, oops.Code("AUTH_VERIFY_FAILED").With("username", username).Wrap(err)
	}
	if ok && s.hasher.NeedsUpgrade(hash) {
		s.upgradeHash(ctx, username, password)
	}
	return ok, nil
}

// verifyDummy spends one verification on a hash that never matches.
func (s *Service) verifyDummy(password string) {
	if hash := s.dummy(); hash != "" {
		_, _ = s.hasher.Verify(password, hash) //nolint:errcheck // result is discarded
	}
}

// dummy returns the cached dummy hash, computing it on first use. A failed
// computation is not cached; the next lookup tries again.
func (s *Service) dummy() string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash == "" {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			errutil.LogWarn(s.logger, "failed to prepare dummy hash", err)
			return ""
		}
		s.dummyHash = hash
	}
	return s.dummyHash
}

// upgradeHash re-hashes a verified password at the current work factor.
// Failures are logged; authentication has already succeeded.
func (s *Service) upgradeHash(ctx context.Context, username, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		observability.RecordBestEffortFailure("password_rehash")
		errutil.LogWarn(s.logger, "password hash upgrade failed", oops.With("username", username).Wrap(err))
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, username, hash); err != nil {
		observability.RecordBestEffortFailure("password_rehash")
		errutil.LogWarn(s.logger, "password hash upgrade failed", oops.With("username", username).Wrap(err))
		return
	}
	s.logger.Info("password hash upgraded", "username", username)
}

// IssueToken returns a signed token whose subject is username.
func (s *Service) IssueToken(username string) (string, error) {
	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").With("username", username).Wrap(err)
	}
	return token, nil
}

// VerifyToken returns the username a token was issued for.
func (s *Service) VerifyToken(token string) (string, error) {
	username, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}
	return username, nil
}

// UpdateLoginTimestamp sets the user's last_login_at to now.
func (s *Service) UpdateLoginTimestamp(ctx context.Context, username string) error {
	if err := s.users.UpdateLastLogin(ctx, username, s.now().UTC()); err != nil {
		return oops.Code("AUTH_LOGIN_TIMESTAMP_FAILED").With("username", username).Wrap(err)
	}
	return nil
}

// Login authenticates and returns a token. Unknown usernames and wrong
// passwords yield the same ErrInvalidCredentials. The login timestamp is
// updated best-effort: a failure is logged and the token still returned.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.Authenticate(ctx, username, password)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}
	if err != nil || !ok {
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").
			With("username", username).
			Wrap(ErrInvalidCredentials)
	}

	token, err := s.IssueToken(username)
	if err != nil {
		return "", err
	}

	if err := s.UpdateLoginTimestamp(ctx, username); err != nil {
		observability.RecordBestEffortFailure("login_timestamp")
		errutil.LogWarn(s.logger, "failed to record login", err)
	}
	return token, nil
}

// Signup registers a user and returns a token for them.
func (s *Service) Signup(ctx context.Context, in RegisterInput) (*User, string, error) {
	user, err := s.Register(ctx, in)
	if err != nil {
		return nil, "", err
	}
	token, err := s.IssueToken(user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser returns a user's profile.
func (s *Service) GetUser(ctx context.Context, username string) (*User, error) {
	if ValidateUsername(username) != nil {
		return nil, oops.Code("AUTH_USER_NOT_FOUND").With("username", username).Wrap(ErrNotFound)
	}
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, oops.With("operation", "get user").With("username", username).Wrap(err)
	}
	return user, nil
}

// ListUsers returns every user ordered by last name.
func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, oops.With("operation", "list users").Wrap(err)
	}
	if users == nil {
		users = []UserSummary{}
	}
	return users, nil
}

// Exists reports whether username is registered.
func (s *Service) Exists(ctx context.Context, username string) (bool, error) {
	if ValidateUsername(username) != nil {
		return false, nil
	}
	ok, err := s.users.Exists(ctx, username)
	if err != nil {
		return false, oops.With("operation", "check user exists").With("username", username).Wrap(err)
	}
	return ok, nil
}
