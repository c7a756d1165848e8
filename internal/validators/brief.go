// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/MKhiriev/go-care-sync/models"
)

// Field names accepted by BriefValidator.
const (
	// FieldSchema checks the brief against the CUE schema and the variant rules.
	FieldSchema = "schema"

	// FieldMedicationConfirmed requires every medication change to be confirmed.
	FieldMedicationConfirmed = "medication_confirmed"
)

//go:embed brief.cue
var briefSchema string

// BriefValidator checks structured briefs returned by the structuring
// service and edited during review.
//
// The CUE schema covers shape and value ranges. Variant exclusivity and
// id uniqueness are checked in Go.
type BriefValidator struct {
	mu    sync.Mutex
	cue   *cue.Context
	brief cue.Value
}

// NewBriefValidator compiles the embedded schema. It panics if the schema
// does not compile, which can only happen on a broken build.
func NewBriefValidator() *BriefValidator {
	cueCtx := cuecontext.New()

	schema := cueCtx.CompileString(briefSchema, cue.Filename("brief.cue"))
	if err := schema.Err(); err != nil {
		panic(fmt.Sprintf("compiling brief schema: %v", err))
	}

	return &BriefValidator{
		cue:   cueCtx,
		brief: schema.LookupPath(cue.ParsePath("#Brief")),
	}
}

// Validate accepts models.StructuredBrief or a pointer to it. Without
// fields only the schema is checked.
func (v *BriefValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.StructuredBrief:
		return v.validateBrief(ctx, value, fields...)
	case *models.StructuredBrief:
		if value == nil {
			return ErrInvalidBrief
		}
		return v.validateBrief(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *BriefValidator) validateBrief(ctx context.Context, brief models.StructuredBrief, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSchema}
	}

	for _, f := range fields {
		switch f {
		case FieldSchema:
			if err := v.checkSchema(brief); err != nil {
				return err
			}
			if err := checkVariants(brief); err != nil {
				return err
			}
		case FieldMedicationConfirmed:
			if ids := brief.UnconfirmedMedicationChanges(); len(ids) > 0 {
				return fmt.Errorf("%w: %v", ErrUnconfirmedMedicationChange, ids)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *BriefValidator) checkSchema(brief models.StructuredBrief) error {
	if brief.Fields == nil {
		brief.Fields = []models.BriefField{}
	}
	data, err := json.Marshal(brief)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBrief, err)
	}

	// cue values built from one context must not be used concurrently
	v.mu.Lock()
	defer v.mu.Unlock()

	value := v.cue.CompileBytes(data, cue.Filename("brief.json"))
	if err = value.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBrief, err)
	}
	if err = v.brief.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBrief, err)
	}

	return nil
}

// checkVariants enforces that every field carries exactly the variant its
// kind names.
func checkVariants(brief models.StructuredBrief) error {
	seen := make(map[string]struct{}, len(brief.Fields))

	for i, f := range brief.Fields {
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateBriefFieldID, f.ID)
		}
		seen[f.ID] = struct{}{}

		var ok bool
		switch f.Kind {
		case models.KindMedicationChange:
			ok = f.Medication != nil && f.Symptom == nil && f.NextStep == nil
		case models.KindSymptomChange:
			ok = f.Symptom != nil && f.Medication == nil && f.NextStep == nil
		case models.KindNextStep:
			ok = f.NextStep != nil && f.Medication == nil && f.Symptom == nil
		default:
			return fmt.Errorf("%w at index %d: %q", ErrUnknownBriefFieldKind, i, f.Kind)
		}
		if !ok {
			return fmt.Errorf("%w at index %d", ErrBriefVariantMismatch, i)
		}
	}

	return nil
}
