// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// BriefFieldKind tags the variant carried by a [BriefField].
type BriefFieldKind string

const (
	KindMedicationChange BriefFieldKind = "medication_change"
	KindSymptomChange    BriefFieldKind = "symptom_change"
	KindNextStep         BriefFieldKind = "next_step"
)

// StructuredBrief is the structured content of a handoff, produced by the
// structuring service and edited by a human during review.
type StructuredBrief struct {
	Summary string       `json:"summary"`
	Fields  []BriefField `json:"fields"`
}

// BriefField is an extracted field with its confidence score in [0,1].
//
// Exactly one of Medication, Symptom and NextStep is set, matching Kind.
type BriefField struct {
	ID         string         `json:"id"`
	Kind       BriefFieldKind `json:"kind"`
	Confidence float64        `json:"confidence"`

	Medication *MedicationChange `json:"medication,omitempty"`
	Symptom    *SymptomChange    `json:"symptom,omitempty"`
	NextStep   *NextStep         `json:"next_step,omitempty"`
}

// MedicationChange must be confirmed by a human before the brief can be
// published. Confidence never substitutes for confirmation.
type MedicationChange struct {
	Medication string `json:"medication"`
	Change     string `json:"change"`
	Dosage     string `json:"dosage,omitempty"`
	Confirmed  bool   `json:"confirmed"`
}

type SymptomChange struct {
	Symptom  string `json:"symptom"`
	Change   string `json:"change"`
	Severity string `json:"severity,omitempty"`
}

type NextStep struct {
	Action     string `json:"action"`
	AssigneeID string `json:"assignee_id,omitempty"`
	DueAt      string `json:"due_at,omitempty"`
}

// UnconfirmedMedicationChanges returns the IDs of medication changes still
// awaiting human confirmation.
func (b StructuredBrief) UnconfirmedMedicationChanges() []string {
	var ids []string
	for _, f := range b.Fields {
		if f.Kind == KindMedicationChange && (f.Medication == nil || !f.Medication.Confirmed) {
			ids = append(ids, f.ID)
		}
	}
	return ids
}
