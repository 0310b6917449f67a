package dto

import (
	"time"

	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
)

// LeadPayload carries the editable lead fields, shared by create and update.
// Field names match the CSV exchange format and error attribution.
type LeadPayload struct {
	FullName     string   `json:"fullName"`
	Email        *string  `json:"email"`
	Phone        string   `json:"phone"`
	City         string   `json:"city"`
	PropertyType string   `json:"propertyType"`
	BHK          *string  `json:"bhk"`
	Purpose      string   `json:"purpose"`
	BudgetMin    *int64   `json:"budgetMin"`
	BudgetMax    *int64   `json:"budgetMax"`
	Timeline     string   `json:"timeline"`
	Source       string   `json:"source"`
	Status       string   `json:"status"`
	Notes        *string  `json:"notes"`
	Tags         []string `json:"tags"`
}

// UpdateLeadRequest adds the concurrency token the editor last observed.
type UpdateLeadRequest struct {
	LeadPayload
	UpdatedAt time.Time `json:"updatedAt"`
}

// LeadResponse is the full lead representation.
type LeadResponse struct {
	ID           string              `json:"id"`
	FullName     string              `json:"fullName"`
	Email        *string             `json:"email"`
	Phone        string              `json:"phone"`
	City         domain.City         `json:"city"`
	PropertyType domain.PropertyType `json:"propertyType"`
	BHK          *domain.BHK         `json:"bhk"`
	Purpose      domain.Purpose      `json:"purpose"`
	BudgetMin    *int64              `json:"budgetMin"`
	BudgetMax    *int64              `json:"budgetMax"`
	Timeline     domain.Timeline     `json:"timeline"`
	Source       domain.LeadSource   `json:"source"`
	Status       domain.LeadStatus   `json:"status"`
	Notes        *string             `json:"notes"`
	Tags         []string            `json:"tags"`
	OwnerID      string              `json:"ownerId"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// LeadListResponse is one page of leads.
type LeadListResponse struct {
	Items    []LeadResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// HistoryEntryResponse is one audit trail entry.
type HistoryEntryResponse struct {
	ID        string      `json:"id"`
	ChangedBy *string     `json:"changedBy"`
	Diff      domain.Diff `json:"diff"`
	ChangedAt time.Time   `json:"changedAt"`
}

// LeadDetailResponse bundles a lead with its recent history.
type LeadDetailResponse struct {
	Lead    LeadResponse           `json:"lead"`
	History []HistoryEntryResponse `json:"history"`
}
