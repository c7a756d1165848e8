// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Errors produced while decoding a request before it reaches a service.
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// request carries no "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	ErrInvalidCursor  = errors.New("invalid pull cursor")
	ErrInvalidLimit   = errors.New("invalid pull limit")
	ErrInvalidOrder   = errors.New("unsupported pull order")
	ErrInvalidBody    = errors.New("invalid request body")
	ErrInvalidNumber  = errors.New("invalid revision number")
	ErrKeyMismatch    = errors.New("idempotency key does not match operation id")
	ErrEntityMismatch = errors.New("path id does not match entity id")
)
