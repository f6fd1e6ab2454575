// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package api

import (
	"encoding/json"
	"errors"
	"io"
	"maps"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
	"github.com/samber/oops"

	"github.com/holomush/messagely/internal/auth"
	"github.com/holomush/messagely/internal/message"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// decode reads a single JSON object into dst, rejecting unknown fields and
// trailing data.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return oops.Code("API_MALFORMED_BODY").With("path", r.URL.Path).Wrap(errors.Join(ErrMalformedBody, err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return oops.Code("API_MALFORMED_BODY").With("path", r.URL.Path).
			Wrap(errors.Join(ErrMalformedBody, errors.New("body must contain a single JSON object")))
	}
	return nil
}

func invalid(err error) error {
	return oops.Code("API_INVALID_REQUEST").Wrap(errors.Join(ErrInvalidField, err))
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// input validates the request and returns it as auth input, with the phone
// normalised to E.164. Field failures from both checks are reported together.
func (req registerRequest) input(region string) (auth.RegisterInput, error) {
	in := auth.RegisterInput(req)
	fields := validation.Errors{}
	if err := in.Validate(); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return in, err
		}
		maps.Copy(fields, verrs)
	}
	if _, bad := fields["phone"]; !bad && in.Phone != "" {
		phone, err := NormalizePhone(in.Phone, region)
		if err != nil {
			fields["phone"] = err
		} else {
			in.Phone = phone
		}
	}
	if len(fields) > 0 {
		return in, invalid(fields)
	}
	return in, nil
}

// NormalizePhone parses a phone number, interpreting national formats in
// region, and returns it in E.164 form.
func NormalizePhone(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", errors.New("is not a phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", errors.New("is not a valid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req loginRequest) validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Username, validation.Required, auth.NoNUL),
		validation.Field(&req.Password, validation.Required, auth.NoNUL),
	)
	if err != nil {
		return invalid(err)
	}
	return nil
}

type createMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

func (req createMessageRequest) validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.ToUsername, validation.Required, auth.NoNUL),
		validation.Field(&req.Body, validation.Required, auth.NoNUL, validation.RuneLength(1, message.MaxBodyLength)),
	)
	if err != nil {
		return invalid(err)
	}
	return nil
}
