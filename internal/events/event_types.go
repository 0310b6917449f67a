package events

import (
	"time"

	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCreated   EventType = "lead_created"
	EventLeadUpdated   EventType = "lead_updated"
	EventLeadDeleted   EventType = "lead_deleted"
	EventLeadsImported EventType = "leads_imported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	LeadID    string      `json:"lead_id,omitempty"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	City         domain.City         `json:"city"`
	PropertyType domain.PropertyType `json:"property_type"`
	Purpose      domain.Purpose      `json:"purpose"`
	Source       domain.LeadSource   `json:"source"`
	Status       domain.LeadStatus   `json:"status"`
}

// LeadUpdatedPayload payload.
type LeadUpdatedPayload struct {
	Diff domain.Diff `json:"diff"`
}

// LeadDeletedPayload payload.
type LeadDeletedPayload struct {
	FullName string `json:"full_name"`
}

// LeadsImportedPayload payload.
type LeadsImportedPayload struct {
	TotalRows int `json:"total_rows"`
	Imported  int `json:"imported"`
	Failed    int `json:"failed"`
}
