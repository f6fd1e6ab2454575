// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

// Package api serves the Messagely HTTP interface: registration, login,
// the user directory, and message exchange.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"

	"github.com/holomush/messagely/internal/auth"
	"github.com/holomush/messagely/internal/message"
	"github.com/holomush/messagely/internal/observability"
)

// Authenticator is the subset of auth.Service the API uses.
type Authenticator interface {
	Signup(ctx context.Context, in auth.RegisterInput) (*auth.User, string, error)
	Login(ctx context.Context, username, password string) (string, error)
	VerifyToken(token string) (string, error)
	GetUser(ctx context.Context, username string) (*auth.User, error)
	ListUsers(ctx context.Context) ([]auth.UserSummary, error)
}

// Messenger is the subset of message.Service the API uses.
type Messenger interface {
	Create(ctx context.Context, from, to, body string) (*message.Message, error)
	View(ctx context.Context, id ulid.ULID, actor string) (*message.Detail, error)
	MarkRead(ctx context.Context, id ulid.ULID, actor string) (*message.Message, error)
	MessagesFrom(ctx context.Context, username string) ([]message.Detail, error)
	MessagesTo(ctx context.Context, username string) ([]message.Detail, error)
}

// DefaultPhoneRegion interprets phone numbers written without a country code.
const DefaultPhoneRegion = "US"

// Config wires the API to its services.
type Config struct {
	Auth     Authenticator
	Messages Messenger

	// Metrics records request and domain counters. Nil uses a private registry.
	Metrics *observability.Metrics
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// PhoneRegion is the ISO 3166 region for national phone formats.
	PhoneRegion string
	// RequestTimeout bounds each request's context. Zero means no limit.
	RequestTimeout time.Duration
}

// API holds the handlers' dependencies.
type API struct {
	auth           Authenticator
	messages       Messenger
	metrics        *observability.Metrics
	logger         *slog.Logger
	phoneRegion    string
	requestTimeout time.Duration
}

// NewHandler builds the routed, instrumented HTTP handler.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Auth == nil {
		return nil, oops.Code("API_INVALID_CONFIG").Errorf("auth service is required")
	}
	if cfg.Messages == nil {
		return nil, oops.Code("API_INVALID_CONFIG").Errorf("message service is required")
	}

	a := &API{
		auth:           cfg.Auth,
		messages:       cfg.Messages,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		phoneRegion:    cfg.PhoneRegion,
		requestTimeout: cfg.RequestTimeout,
	}
	if a.metrics == nil {
		a.metrics = observability.NewMetrics(prometheus.NewRegistry())
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.phoneRegion == "" {
		a.phoneRegion = DefaultPhoneRegion
	}

	return a.routes(), nil
}

func (a *API) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = a.instrument(http.HandlerFunc(a.notFound))
	r.MethodNotAllowedHandler = a.instrument(http.HandlerFunc(a.methodNotAllowed))
	r.Use(a.requestID, a.trace, a.instrument, a.recoverPanic, a.timeout)

	r.HandleFunc("/auth/register", a.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", a.login).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(a.authenticate)

	protected.HandleFunc("/users", a.listUsers).Methods(http.MethodGet)
	protected.HandleFunc("/users/{username}", a.getUser).Methods(http.MethodGet)
	protected.HandleFunc("/users/{username}/from", a.messagesFrom).Methods(http.MethodGet)
	protected.HandleFunc("/users/{username}/to", a.messagesTo).Methods(http.MethodGet)

	protected.HandleFunc("/messages", a.createMessage).Methods(http.MethodPost)
	protected.HandleFunc("/messages/{id}", a.getMessage).Methods(http.MethodGet)
	protected.HandleFunc("/messages/{id}/read", a.markRead).Methods(http.MethodPost)

	return r
}

func (a *API) notFound(w http.ResponseWriter, r *http.Request) {
	a.writeError(w, r, oops.Code("API_ROUTE_NOT_FOUND").With("path", r.URL.Path).Wrap(ErrRouteNotFound))
}

func (a *API) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, r, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
		Message: http.StatusText(http.StatusMethodNotAllowed),
		Status:  http.StatusMethodNotAllowed,
	}})
}
