// Package audit derives history diffs from before/after lead pairs. History
// is never independently authored; every entry is mechanically computed here.
package audit

import (
	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
)

// ForCreate returns the creation marker written as a lead's first history
// entry. No per-field comparison is performed.
func ForCreate(_ *domain.Lead) domain.Diff {
	return domain.Diff{domain.CreatedMarker: {Old: nil, New: true}}
}

// ForUpdate compares every mutable field between the previously stored lead
// and its replacement, by value. It returns nil when nothing changed, in
// which case no history entry is written. id, ownerId and createdAt are
// immutable and never compared.
func ForUpdate(previous, next *domain.Lead) domain.Diff {
	diff := domain.Diff{}

	if previous.FullName != next.FullName {
		diff["fullName"] = domain.FieldChange{Old: previous.FullName, New: next.FullName}
	}
	if change, changed := compareOptional(previous.Email, next.Email); changed {
		diff["email"] = change
	}
	if previous.Phone != next.Phone {
		diff["phone"] = domain.FieldChange{Old: previous.Phone, New: next.Phone}
	}
	if previous.City != next.City {
		diff["city"] = domain.FieldChange{Old: string(previous.City), New: string(next.City)}
	}
	if previous.PropertyType != next.PropertyType {
		diff["propertyType"] = domain.FieldChange{Old: string(previous.PropertyType), New: string(next.PropertyType)}
	}
	if change, changed := compareBHK(previous.BHK, next.BHK); changed {
		diff["bhk"] = change
	}
	if previous.Purpose != next.Purpose {
		diff["purpose"] = domain.FieldChange{Old: string(previous.Purpose), New: string(next.Purpose)}
	}
	if change, changed := compareBudget(previous.BudgetMin, next.BudgetMin); changed {
		diff["budgetMin"] = change
	}
	if change, changed := compareBudget(previous.BudgetMax, next.BudgetMax); changed {
		diff["budgetMax"] = change
	}
	if previous.Timeline != next.Timeline {
		diff["timeline"] = domain.FieldChange{Old: string(previous.Timeline), New: string(next.Timeline)}
	}
	if previous.Source != next.Source {
		diff["source"] = domain.FieldChange{Old: string(previous.Source), New: string(next.Source)}
	}
	if previous.Status != next.Status {
		diff["status"] = domain.FieldChange{Old: string(previous.Status), New: string(next.Status)}
	}
	if change, changed := compareOptional(previous.Notes, next.Notes); changed {
		diff["notes"] = change
	}
	if !equalTags(previous.Tags, next.Tags) {
		diff["tags"] = domain.FieldChange{Old: previous.Tags, New: next.Tags}
	}

	if len(diff) == 0 {
		return nil
	}
	return diff
}

// compareOptional treats absent-vs-absent as equal and absent-vs-present as
// a change, recording nil for the absent side.
func compareOptional(previous, next *string) (domain.FieldChange, bool) {
	switch {
	case previous == nil && next == nil:
		return domain.FieldChange{}, false
	case previous != nil && next != nil && *previous == *next:
		return domain.FieldChange{}, false
	}
	return domain.FieldChange{Old: optionalValue(previous), New: optionalValue(next)}, true
}

func compareBHK(previous, next *domain.BHK) (domain.FieldChange, bool) {
	return compareOptional(bhkString(previous), bhkString(next))
}

func compareBudget(previous, next *int64) (domain.FieldChange, bool) {
	switch {
	case previous == nil && next == nil:
		return domain.FieldChange{}, false
	case previous != nil && next != nil && *previous == *next:
		return domain.FieldChange{}, false
	}
	var change domain.FieldChange
	if previous != nil {
		change.Old = *previous
	}
	if next != nil {
		change.New = *next
	}
	return change, true
}

// equalTags is order-sensitive: reordering tags counts as a change.
func equalTags(previous, next []string) bool {
	if len(previous) != len(next) {
		return false
	}
	for i := range previous {
		if previous[i] != next[i] {
			return false
		}
	}
	return true
}

func bhkString(val *domain.BHK) *string {
	if val == nil {
		return nil
	}
	str := string(*val)
	return &str
}

func optionalValue(val *string) any {
	if val == nil {
		return nil
	}
	return *val
}
