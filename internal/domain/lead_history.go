package domain

import "time"

// CreatedMarker is the diff key written for the first history entry of a lead.
const CreatedMarker = "created"

// FieldChange holds the before/after values for a single field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Diff maps field names to their recorded change. A diff containing only
// CreatedMarker denotes lead creation rather than an edit.
type Diff map[string]FieldChange

// IsCreation reports whether the diff is a creation marker.
func (d Diff) IsCreation() bool {
	_, ok := d[CreatedMarker]
	return ok
}

// LeadHistory is an immutable audit trail entry.
type LeadHistory struct {
	ID        string
	LeadID    string
	ChangedBy *string
	Diff      Diff
	ChangedAt time.Time
}
