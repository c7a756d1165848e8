// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT claim set issued by the authentication provider.
//
// The subject is the caller's user ID. Scopes lists the care circles the
// caller is a member of; requests for any other scope are rejected.
type Claims struct {
	jwt.RegisteredClaims

	Scopes []string `json:"scopes"`
}

// Token is a parsed and verified session token.
type Token struct {
	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"-"`

	UserID string   `json:"user_id"`
	Scopes []string `json:"scopes"`
}

// HasScope reports whether the token grants access to scopeID.
func (t Token) HasScope(scopeID string) bool {
	return slices.Contains(t.Scopes, scopeID)
}

// String returns the compact JWS serialization of the token.
func (t Token) String() string {
	return t.SignedString
}
