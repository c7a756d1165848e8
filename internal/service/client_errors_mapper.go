// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/go-care-sync/internal/adapter"
	"github.com/MKhiriev/go-care-sync/internal/app"
)

// mapAdapterError translates the adapter's transport error into a service
// business error. Unmapped errors are returned unchanged so retryable
// transport failures keep their classification.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := serverMessage(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		switch msg {
		case app.MsgInvalidDataProvided:
			return ErrInvalidDataProvided
		case app.MsgVersionIsNotSpecified:
			return ErrVersionIsNotSpecified
		}

	case errors.Is(err, adapter.ErrUnauthorized):
		return ErrUnauthorized

	case errors.Is(err, adapter.ErrForbidden):
		if msg == app.MsgEditorMismatch {
			return ErrEditorMismatch
		}
		return ErrServerForbidden
	}

	return err
}

// serverMessage is the message of the server's error body, or "" when err
// did not come from an HTTP answer.
func serverMessage(err error) string {
	var statusErr *adapter.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	return ""
}
