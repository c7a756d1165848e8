// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks sync requests, local intents and structured
// briefs before they reach services or storage.
//
// Every validator takes optional field names that restrict the check to a
// subset; without them a default set is validated.
package validators

import "context"

// Validator validates obj, optionally restricted to the named fields.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
