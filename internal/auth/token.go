// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// MinSecretKeyLength is the shortest accepted signing key, in bytes.
const MinSecretKeyLength = 16

// DefaultIssuer is the iss claim used when none is configured.
const DefaultIssuer = "messagely"

// TokenIssuer issues and verifies bearer tokens that identify a user.
type TokenIssuer interface {
	// Issue returns a signed token whose subject is username.
	Issue(username string) (string, error)
	// Verify returns the username a token was issued for. Any defect in
	// the token yields an error wrapping ErrInvalidToken.
	Verify(token string) (string, error)
}

// JWTConfig configures a JWTIssuer.
type JWTConfig struct {
	SecretKey []byte
	Issuer    string
	// TTL bounds token lifetime. Zero issues tokens without an expiry.
	TTL time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// JWTIssuer issues HS256-signed JWTs.
type JWTIssuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a JWTIssuer from cfg.
func NewJWTIssuer(cfg JWTConfig) (*JWTIssuer, error) {
	if len(cfg.SecretKey) < MinSecretKeyLength {
		return nil, oops.Code("AUTH_WEAK_SECRET").
			With("length", len(cfg.SecretKey)).
			Errorf("secret key must be at least %d bytes", MinSecretKeyLength)
	}
	if cfg.TTL < 0 {
		return nil, oops.Code("AUTH_INVALID_TTL").With("ttl", cfg.TTL).Errorf("token ttl cannot be negative")
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	key := make([]byte, len(cfg.SecretKey))
	copy(key, cfg.SecretKey)
	return &JWTIssuer{key: key, issuer: issuer, ttl: cfg.TTL, now: now}, nil
}

// Issue signs a token for username.
func (j *JWTIssuer) Issue(username string) (string, error) {
	if username == "" {
		return "", oops.Code("AUTH_TOKEN_SUBJECT_REQUIRED").Wrapf(ErrInvalidInput, "username is required")
	}

	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:  username,
		Issuer:   j.issuer,
		IssuedAt: jwt.NewNumericDate(now),
		ID:       uuid.NewString(),
	}
	if j.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").With("username", username).Wrap(err)
	}
	return signed, nil
}

// Verify validates signature, algorithm, issuer and, when present or
// required, expiry.
func (j *JWTIssuer) Verify(token string) (string, error) {
	if token == "" {
		return "", oops.Code("AUTH_TOKEN_MISSING").Wrap(ErrInvalidToken)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(j.now),
	}
	if j.ttl > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.key, nil
	}, opts...)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", oops.Code("AUTH_TOKEN_EXPIRED").With("cause", err.Error()).Wrap(ErrInvalidToken)
	case err != nil:
		return "", oops.Code("AUTH_TOKEN_INVALID").With("cause", err.Error()).Wrap(ErrInvalidToken)
	case claims.Subject == "":
		return "", oops.Code("AUTH_TOKEN_INVALID").With("cause", "missing subject").Wrap(ErrInvalidToken)
	}
	return claims.Subject, nil
}

var _ TokenIssuer = (*JWTIssuer)(nil)
