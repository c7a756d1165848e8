// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides small helpers shared by the client and the server:
// typed context keys, JWT handling, content hashing, JSON responses, the
// HTTP client wrapper and id generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-care-sync/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

var (
	// UserIDCtxKey holds the authenticated caller's user id (string).
	UserIDCtxKey = contextKey("userID")

	// TokenCtxKey holds the verified models.Token of the request.
	TokenCtxKey = contextKey("token")

	// TraceIDCtxKey holds the request trace id.
	TraceIDCtxKey = contextKey("traceID")
)

// GetUserIDFromContext returns the caller's user id and whether it was set.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}

// WithToken stores token and its user id in ctx.
func WithToken(ctx context.Context, token models.Token) context.Context {
	ctx = context.WithValue(ctx, TokenCtxKey, token)
	return context.WithValue(ctx, UserIDCtxKey, token.UserID)
}

// GetTokenFromContext returns the verified token stored by WithToken.
func GetTokenFromContext(ctx context.Context) (models.Token, bool) {
	token, ok := ctx.Value(TokenCtxKey).(models.Token)
	return token, ok
}

// WithTraceID stores traceID in ctx.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDCtxKey, traceID)
}

// GetTraceIDFromContext returns the trace id or an empty string.
func GetTraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDCtxKey).(string)
	return traceID
}
