package intake

import (
	"strconv"
	"strings"
)

// Candidate is the normalized intermediate shape both entry paths produce
// before validation. All loosely-typed values are carried as strings so the
// validator applies identical rules regardless of where the record came from.
type Candidate struct {
	// Row is the 1-based CSV row number, or 0 for form input.
	Row          int
	FullName     string
	Email        *string
	Phone        string
	City         string
	PropertyType string
	BHK          *string
	Purpose      string
	BudgetMin    *string
	BudgetMax    *string
	Timeline     string
	Source       string
	Status       string
	Notes        *string
	Tags         []string
}

// FormInput carries an already-typed payload from the interactive form.
type FormInput struct {
	FullName     string
	Email        *string
	Phone        string
	City         string
	PropertyType string
	BHK          *string
	Purpose      string
	BudgetMin    *int64
	BudgetMax    *int64
	Timeline     string
	Source       string
	Status       string
	Notes        *string
	Tags         []string
}

// CandidateFromForm adapts a typed form payload into the shared candidate
// shape. Numeric budgets are rendered to decimal strings so the validator's
// digits-only rule applies uniformly to both entry paths.
func CandidateFromForm(in FormInput) Candidate {
	return Candidate{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        optionalText(deref(in.Email)),
		Phone:        strings.TrimSpace(in.Phone),
		City:         strings.TrimSpace(in.City),
		PropertyType: strings.TrimSpace(in.PropertyType),
		BHK:          optionalText(deref(in.BHK)),
		Purpose:      strings.TrimSpace(in.Purpose),
		BudgetMin:    formatBudget(in.BudgetMin),
		BudgetMax:    formatBudget(in.BudgetMax),
		Timeline:     strings.TrimSpace(in.Timeline),
		Source:       strings.TrimSpace(in.Source),
		Status:       strings.TrimSpace(in.Status),
		Notes:        optionalText(deref(in.Notes)),
		Tags:         trimTags(in.Tags),
	}
}

// CSV column order, shared by import and export.
const (
	colFullName = iota
	colEmail
	colPhone
	colCity
	colPropertyType
	colBHK
	colPurpose
	colBudgetMin
	colBudgetMax
	colTimeline
	colSource
	colNotes
	colTags
	colStatus
	columnCount
)

// CandidateFromCSVRow adapts one parsed CSV row into the shared candidate
// shape. Empty cells mean "absent" for optional fields; the tags cell is a
// single comma-joined string.
func CandidateFromCSVRow(row []string, rowNum int) Candidate {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	return Candidate{
		Row:          rowNum,
		FullName:     cell(colFullName),
		Email:        optionalText(cell(colEmail)),
		Phone:        cell(colPhone),
		City:         cell(colCity),
		PropertyType: cell(colPropertyType),
		BHK:          optionalText(cell(colBHK)),
		Purpose:      cell(colPurpose),
		BudgetMin:    optionalText(cell(colBudgetMin)),
		BudgetMax:    optionalText(cell(colBudgetMax)),
		Timeline:     cell(colTimeline),
		Source:       cell(colSource),
		Status:       cell(colStatus),
		Notes:        optionalText(cell(colNotes)),
		Tags:         SplitTags(cell(colTags)),
	}
}

// SplitTags breaks a comma-joined tags cell into trimmed tags. An empty cell
// yields an empty sequence. Tags containing a literal comma cannot survive
// this encoding; that is a known limitation of the format, not escaped here.
func SplitTags(cell string) []string {
	tags := []string{}
	for _, part := range strings.Split(cell, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func optionalText(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func formatBudget(val *int64) *string {
	if val == nil {
		return nil
	}
	formatted := strconv.FormatInt(*val, 10)
	return &formatted
}

func deref(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
