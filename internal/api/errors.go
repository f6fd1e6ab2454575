// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package api

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/holomush/messagely/pkg/errutil"
)

// Request errors raised by the HTTP layer itself.
var (
	ErrMalformedBody = errutil.New(errutil.ErrValidation, "malformed request body")
	ErrInvalidField  = errutil.New(errutil.ErrValidation, "invalid request")
	ErrUnauthorized  = errutil.New(errutil.ErrUnauthorized, "unauthorized")
	ErrRouteNotFound = errutil.New(errutil.ErrNotFound, "route not found")
)

// errorBody is the JSON envelope for every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind errutil.Kind) int {
	switch kind {
	case errutil.KindValidation:
		return http.StatusBadRequest
	case errutil.KindConflict:
		return http.StatusConflict
	case errutil.KindNotFound:
		return http.StatusNotFound
	case errutil.KindUnauthorized:
		return http.StatusUnauthorized
	case errutil.KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// describe builds the client-facing error. Authentication and
// authorization failures share one shape; server failures reveal nothing.
func describe(err error) errorDetail {
	status := statusFor(errutil.KindOf(err))
	detail := errorDetail{Status: status}

	switch {
	case status == http.StatusUnauthorized:
		detail.Message = "Unauthorized"
	case status >= http.StatusInternalServerError:
		detail.Message = http.StatusText(status)
	default:
		detail.Message = errutil.Message(err)
		if detail.Message == "" {
			detail.Message = http.StatusText(status)
		}
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			detail.Fields = flatten("", verrs)
		}
	}
	return detail
}

// flatten turns nested ozzo errors into dotted field paths.
func flatten(prefix string, verrs validation.Errors) map[string]string {
	out := make(map[string]string, len(verrs))
	for field, err := range verrs {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			for k, v := range flatten(key, nested) {
				out[k] = v
			}
			continue
		}
		out[key] = err.Error()
	}
	return out
}
