// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package api

import (
	"encoding/json"
	"net/http"

	"github.com/holomush/messagely/pkg/errutil"
)

func (a *API) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.DebugContext(r.Context(), "response write failed", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	detail := describe(err)
	if detail.Status >= http.StatusInternalServerError {
		errutil.LogErrorContext(r.Context(), a.logger.With("method", r.Method, "path", r.URL.Path), "request failed", err)
	}
	a.writeJSON(w, r, detail.Status, errorBody{Error: detail})
}
