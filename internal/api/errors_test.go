// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package api

import (
	"errors"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	"github.com/holomush/messagely/internal/auth"
	"github.com/holomush/messagely/internal/message"
	"github.com/holomush/messagely/pkg/errutil"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"conflict", oops.Code("AUTH_USERNAME_TAKEN").Wrap(auth.ErrUsernameTaken), http.StatusConflict, "username already taken"},
		{"not found", oops.Code("MESSAGE_NOT_FOUND").Wrap(message.ErrNotFound), http.StatusNotFound, "message not found"},
		{"validation", oops.Code("MESSAGE_BODY_EMPTY").Wrapf(message.ErrInvalidMessage, "body cannot be empty"), http.StatusBadRequest, "invalid message"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", message.ErrForbidden, http.StatusUnauthorized, "Unauthorized"},
		{"driver failure", oops.Code("MESSAGE_GET_FAILED").Wrap(errors.New("connection refused")), http.StatusServiceUnavailable, "Service Unavailable"},
		{"bare kind", errutil.ErrConflict, http.StatusConflict, "Conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := describe(tt.err)
			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantMessage, d.Message)
			assert.Empty(t, d.Fields)
		})
	}
}

func TestDescribe_FlattensFieldErrors(t *testing.T) {
	fields := validation.Errors{
		"body": errors.New("cannot be blank"),
		"to": validation.Errors{
			"username": errors.New("is required"),
		},
	}
	d := describe(invalid(fields))

	assert.Equal(t, http.StatusBadRequest, d.Status)
	assert.Equal(t, "invalid request", d.Message)
	assert.Equal(t, map[string]string{
		"body":        "cannot be blank",
		"to.username": "is required",
	}, d.Fields)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		want   string
	}{
		{"bearer", "Bearer abc", "", "abc"},
		{"case insensitive scheme", "bearer abc", "", "abc"},
		{"other scheme", "Basic abc", "", ""},
		{"header wins over query", "Bearer abc", "xyz", "abc"},
		{"query fallback", "", "xyz", "xyz"},
		{"none", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/users", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.query != "" {
				r.URL.RawQuery = tokenQueryParam + "=" + tt.query
			}
			assert.Equal(t, tt.want, bearerToken(r))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw, region, want string
		wantErr           bool
	}{
		{"+12015550123", "US", "+12015550123", false},
		{"(201) 555-0123", "US", "+12015550123", false},
		{"+44 121 234 5678", "US", "+441212345678", false},
		{"not-a-phone", "US", "", true},
		{"+1 000", "US", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw, tt.region)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequests_RejectNUL(t *testing.T) {
	register := registerRequest{
		Username: "alice", Password: "pw", FirstName: "Al\x00ice", LastName: "Anderson", Phone: "+12015550123",
	}
	_, err := register.input(DefaultPhoneRegion)
	assert.ErrorIs(t, err, ErrInvalidField)
	assert.Equal(t, http.StatusBadRequest, statusFor(errutil.KindOf(err)))

	err = loginRequest{Username: "al\x00ice", Password: "pw"}.validate()
	assert.ErrorIs(t, err, ErrInvalidField)

	err = createMessageRequest{ToUsername: "bob", Body: "hi\x00"}.validate()
	assert.ErrorIs(t, err, ErrInvalidField)
	errutil.AssertKind(t, err, errutil.KindValidation)
}
