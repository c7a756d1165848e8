// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-care-sync/models"
)

// StatusError is a non-2xx answer. Code and Message come from the server's
// models.ErrorResponse body when it sent one, otherwise Message is the raw body.
type StatusError struct {
	Status  int
	Code    string
	Message string

	kind error
}

func (e *StatusError) Error() string {
	if e.kind == nil {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Message)
}

func (e *StatusError) Unwrap() error { return e.kind }

var statusKinds = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnprocessableEntity: ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusConflict:            ErrConflict,
	http.StatusBadGateway:          ErrBadGateway,
	http.StatusGatewayTimeout:      ErrBadGateway,
	http.StatusServiceUnavailable:  ErrUnavailable,
	http.StatusTooManyRequests:     ErrUnavailable,
}

func mapHTTPError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	statusErr := &StatusError{Status: status, kind: statusKinds[status]}
	if statusErr.kind == nil && status >= http.StatusInternalServerError {
		statusErr.kind = ErrInternalServerError
	}

	raw := strings.TrimSpace(string(resp.Body()))
	var body models.ErrorResponse
	if json.Unmarshal([]byte(raw), &body) == nil && body.Message != "" {
		statusErr.Code, statusErr.Message = body.Code, body.Message
	} else {
		statusErr.Message = raw
	}
	if statusErr.Message == "" {
		statusErr.Message = http.StatusText(status)
	}

	return statusErr
}
