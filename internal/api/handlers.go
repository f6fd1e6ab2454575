// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/samber/oops"

	"github.com/holomush/messagely/internal/access"
	"github.com/holomush/messagely/internal/auth"
	"github.com/holomush/messagely/internal/message"
	"github.com/holomush/messagely/pkg/errutil"
)

type userSummaryJSON struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type userJSON struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinedAt    time.Time `json:"joined_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

type profileJSON struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// messageJSON covers every message shape; each endpoint fills the fields
// it exposes.
type messageJSON struct {
	ID           string       `json:"id"`
	FromUsername string       `json:"from_username,omitempty"`
	ToUsername   string       `json:"to_username,omitempty"`
	Body         string       `json:"body"`
	SentAt       time.Time    `json:"sent_at"`
	ReadAt       *time.Time   `json:"read_at"`
	FromUser     *profileJSON `json:"from_user,omitempty"`
	ToUser       *profileJSON `json:"to_user,omitempty"`
}

type readReceiptJSON struct {
	ID     string     `json:"id"`
	ReadAt *time.Time `json:"read_at"`
}

func profileOf(p message.Profile) *profileJSON {
	return &profileJSON{Username: p.Username, FirstName: p.FirstName, LastName: p.LastName, Phone: p.Phone}
}

// outcome labels an auth attempt for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errutil.KindOf(err) == errutil.KindInfrastructure:
		return "error"
	default:
		return "rejected"
	}
}

// POST /auth/register
func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	in, err := req.input(a.phoneRegion)
	if err != nil {
		a.metrics.RecordAuth("register", outcome(err))
		a.writeError(w, r, err)
		return
	}

	user, token, err := a.auth.Signup(r.Context(), in)
	a.metrics.RecordAuth("register", outcome(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusCreated, map[string]string{
		"username": user.Username,
		"token":    token,
	})
}

// POST /auth/login
func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		a.writeError(w, r, err)
		return
	}

	token, err := a.auth.Login(r.Context(), req.Username, req.Password)
	a.metrics.RecordAuth("login", outcome(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, map[string]string{"token": token})
}

// GET /users
func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.auth.ListUsers(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]userSummaryJSON, 0, len(users))
	for _, u := range users {
		out = append(out, userSummaryJSON{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName})
	}
	a.writeJSON(w, r, http.StatusOK, map[string]any{"users": out})
}

// GET /users/{username}
func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if !access.CanViewProfile(actor(r.Context()), username) {
		a.writeError(w, r, forbidden("API_PROFILE_FORBIDDEN", r, username))
		return
	}

	user, err := a.auth.GetUser(r.Context(), username)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, map[string]any{"user": toUserJSON(user)})
}

// GET /users/{username}/from
func (a *API) messagesFrom(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if !access.CanViewMailbox(actor(r.Context()), username) {
		a.writeError(w, r, forbidden("API_MAILBOX_FORBIDDEN", r, username))
		return
	}

	msgs, err := a.messages.MessagesFrom(r.Context(), username)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]messageJSON, 0, len(msgs))
	for _, d := range msgs {
		out = append(out, messageJSON{
			ID:     d.ID.String(),
			Body:   d.Body,
			SentAt: d.SentAt,
			ReadAt: d.ReadAt,
			ToUser: profileOf(d.ToUser),
		})
	}
	a.writeJSON(w, r, http.StatusOK, map[string]any{"messages": out})
}

// GET /users/{username}/to
func (a *API) messagesTo(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if !access.CanViewMailbox(actor(r.Context()), username) {
		a.writeError(w, r, forbidden("API_MAILBOX_FORBIDDEN", r, username))
		return
	}

	msgs, err := a.messages.MessagesTo(r.Context(), username)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	out := make([]messageJSON, 0, len(msgs))
	for _, d := range msgs {
		out = append(out, messageJSON{
			ID:       d.ID.String(),
			Body:     d.Body,
			SentAt:   d.SentAt,
			ReadAt:   d.ReadAt,
			FromUser: profileOf(d.FromUser),
		})
	}
	a.writeJSON(w, r, http.StatusOK, map[string]any{"messages": out})
}

// GET /messages/{id}
func (a *API) getMessage(w http.ResponseWriter, r *http.Request) {
	id, err := message.ParseID(mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	d, err := a.messages.View(r.Context(), id, actor(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, r, http.StatusOK, map[string]any{"message": messageJSON{
		ID:       d.ID.String(),
		Body:     d.Body,
		SentAt:   d.SentAt,
		ReadAt:   d.ReadAt,
		FromUser: profileOf(d.FromUser),
		ToUser:   profileOf(d.ToUser),
	}})
}

// POST /messages
func (a *API) createMessage(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		a.writeError(w, r, err)
		return
	}

	m, err := a.messages.Create(r.Context(), actor(r.Context()), req.ToUsername, req.Body)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.metrics.MessagesCreated.Inc()
	a.writeJSON(w, r, http.StatusCreated, map[string]any{"message": messageJSON{
		ID:           m.ID.String(),
		FromUsername: m.From,
		ToUsername:   m.To,
		Body:         m.Body,
		SentAt:       m.SentAt,
		ReadAt:       m.ReadAt,
	}})
}

// POST /messages/{id}/read
func (a *API) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := message.ParseID(mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	m, err := a.messages.MarkRead(r.Context(), id, actor(r.Context()))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.metrics.MessagesRead.Inc()
	a.writeJSON(w, r, http.StatusOK, map[string]any{"message": readReceiptJSON{
		ID:     m.ID.String(),
		ReadAt: m.ReadAt,
	}})
}

func toUserJSON(u *auth.User) userJSON {
	return userJSON{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinedAt:    u.JoinedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func forbidden(code string, r *http.Request, owner string) error {
	return oops.Code(code).
		With("actor", actor(r.Context())).
		With("owner", owner).
		Wrap(ErrUnauthorized)
}
