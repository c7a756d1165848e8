// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/MKhiriev/go-care-sync/models"
)

// Outcome is the resolver's verdict on a rejected push.
type Outcome string

const (
	// OutcomeAutoMerged means the server's concurrent change was disjoint from
	// the operation's; the operation is re-pushed once with the merged payload.
	OutcomeAutoMerged Outcome = "auto_merged"

	// OutcomeServerWins means every competing field was authoritative. The
	// operation is resolved without a push.
	OutcomeServerWins Outcome = "server_wins"

	// OutcomeManualMerge means both sides changed the same user-authored field,
	// or the record was deleted on one side and modified on the other.
	OutcomeManualMerge Outcome = "needs_manual_merge"

	// OutcomeAlreadyApplied means the server already holds the operation's effect.
	OutcomeAlreadyApplied Outcome = "already_applied"
)

const (
	reasonSameField     = "same field changed on client and server"
	reasonServerDeleted = "record was deleted on the server"
	reasonDeleteChanged = "record deleted locally was modified on the server"
)

// Resolution is returned by ConflictResolver.Resolve.
type Resolution struct {
	Outcome Outcome

	// Kind and Payload form the operation to re-push after an auto-merge.
	// A conflicting CREATE becomes an UPDATE of the existing record.
	Kind    models.OperationKind
	Payload models.Fields

	// Dropped lists authoritative fields where the server value won.
	Dropped []string

	// Conflict is set for OutcomeManualMerge.
	Conflict *models.MergeConflict
}

// FieldPolicy classifies the fields of one entity type. Unknown fields are
// user-authored, so a missing entry can surface a conflict but never lose text.
type FieldPolicy struct {
	authoritative map[string]struct{}
}

// NewFieldPolicy returns a policy treating the named fields as authoritative.
func NewFieldPolicy(authoritative ...string) FieldPolicy {
	p := FieldPolicy{authoritative: make(map[string]struct{}, len(authoritative))}
	for _, f := range authoritative {
		p.authoritative[f] = struct{}{}
	}
	return p
}

// Authoritative reports whether the server value of field always wins.
func (p FieldPolicy) Authoritative(field string) bool {
	_, ok := p.authoritative[field]
	return ok
}

var commonAuthoritativeFields = []string{
	"status", "owner_id", "assignee_id", "created_at", "completed_at",
}

// DefaultFieldPolicies returns the policy of every synced entity type.
func DefaultFieldPolicies() map[models.EntityType]FieldPolicy {
	return map[models.EntityType]FieldPolicy{
		models.EntityTasks:       NewFieldPolicy(commonAuthoritativeFields...),
		models.EntityBinderItems: NewFieldPolicy(commonAuthoritativeFields...),
		models.EntityHandoffs:    NewFieldPolicy(append(slices.Clone(commonAuthoritativeFields), "published_at", "current_revision")...),
	}
}

type conflictResolver struct {
	policies map[models.EntityType]FieldPolicy
}

// NewConflictResolver returns a resolver using policies. Types without a
// policy treat every field as user-authored.
func NewConflictResolver(policies map[models.EntityType]FieldPolicy) ConflictResolver {
	return &conflictResolver{policies: policies}
}

// Resolve compares op against the server's current record.
//
// The server's concurrent changes are the fields where current differs from
// the op's base. Client values already equal to the server are dropped from
// the payload. Text is compared after NFC normalization.
func (r *conflictResolver) Resolve(op models.PendingOperation, current models.Entity) Resolution {
	serverChanged := changedFields(op.Base, current.Fields)

	if op.Kind == models.OperationDelete {
		return r.resolveDelete(op, current, serverChanged)
	}

	if current.IsTombstone() {
		return manualMerge(current, reasonServerDeleted, clientSideConflicts(op, current))
	}

	policy := r.policies[op.EntityType]
	payload := models.Fields{}
	var dropped []string
	var conflicts []models.FieldConflict

	for _, field := range sortedKeys(op.Payload) {
		value := op.Payload[field]
		serverValue := current.Fields[field]
		if sameText(value, serverValue) {
			continue
		}
		if _, changed := serverChanged[field]; !changed {
			payload[field] = value
			continue
		}
		if policy.Authoritative(field) {
			dropped = append(dropped, field)
			continue
		}
		conflicts = append(conflicts, models.FieldConflict{
			Field:       field,
			BaseValue:   op.Base[field],
			ClientValue: value,
			ServerValue: serverValue,
		})
	}

	switch {
	case len(conflicts) > 0:
		return manualMerge(current, reasonSameField, conflicts)
	case len(payload) > 0:
		return Resolution{Outcome: OutcomeAutoMerged, Kind: models.OperationUpdate, Payload: payload, Dropped: dropped}
	case len(dropped) > 0:
		return Resolution{Outcome: OutcomeServerWins, Dropped: dropped}
	default:
		return Resolution{Outcome: OutcomeAlreadyApplied}
	}
}

func (r *conflictResolver) resolveDelete(op models.PendingOperation, current models.Entity, serverChanged map[string]struct{}) Resolution {
	if current.IsTombstone() {
		return Resolution{Outcome: OutcomeAlreadyApplied}
	}
	if len(serverChanged) > 0 {
		conflicts := make([]models.FieldConflict, 0, len(serverChanged))
		for _, field := range sortedKeys(serverChanged) {
			conflicts = append(conflicts, models.FieldConflict{
				Field:       field,
				BaseValue:   op.Base[field],
				ServerValue: current.Fields[field],
			})
		}
		return manualMerge(current, reasonDeleteChanged, conflicts)
	}
	// only the version moved; the delete still expresses the user's intent
	return Resolution{Outcome: OutcomeAutoMerged, Kind: models.OperationDelete}
}

func manualMerge(current models.Entity, reason string, conflicts []models.FieldConflict) Resolution {
	return Resolution{
		Outcome: OutcomeManualMerge,
		Conflict: &models.MergeConflict{
			Reason:        reason,
			ServerVersion: current.Version,
			ServerDeleted: current.IsTombstone(),
			Fields:        conflicts,
		},
	}
}

// clientSideConflicts lists every payload field so the caller can see the
// values a server-side delete would otherwise discard.
func clientSideConflicts(op models.PendingOperation, current models.Entity) []models.FieldConflict {
	conflicts := make([]models.FieldConflict, 0, len(op.Payload))
	for _, field := range sortedKeys(op.Payload) {
		conflicts = append(conflicts, models.FieldConflict{
			Field:       field,
			BaseValue:   op.Base[field],
			ClientValue: op.Payload[field],
			ServerValue: current.Fields[field],
		})
	}
	return conflicts
}

// changedFields returns the fields whose value differs between base and current.
func changedFields(base, current models.Fields) map[string]struct{} {
	changed := make(map[string]struct{})
	for field, value := range current {
		if !sameText(value, base[field]) {
			changed[field] = struct{}{}
		}
	}
	for field, value := range base {
		if _, ok := current[field]; !ok && value != "" {
			changed[field] = struct{}{}
		}
	}
	return changed
}

func sameText(a, b string) bool {
	return a == b || norm.NFC.String(a) == norm.NFC.String(b)
}

// normalizeFields returns fields with every value in NFC.
func normalizeFields(fields models.Fields) models.Fields {
	if fields == nil {
		return nil
	}
	out := make(models.Fields, len(fields))
	for k, v := range fields {
		out[k] = norm.NFC.String(v)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
