package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func bhkPtr(b domain.BHK) *domain.BHK { return &b }

func sampleLead() *domain.Lead {
	return &domain.Lead{
		ID:           "a2f1c7e8-0000-4000-8000-000000000001",
		FullName:     "Asha Verma",
		Email:        strPtr("asha@example.com"),
		Phone:        "9876543210",
		City:         domain.CityChandigarh,
		PropertyType: domain.PropertyApartment,
		BHK:          bhkPtr(domain.BHKTwo),
		Purpose:      domain.PurposeBuy,
		BudgetMin:    int64Ptr(5000000),
		BudgetMax:    int64Ptr(7500000),
		Timeline:     domain.TimelineZeroToThree,
		Source:       domain.SourceWebsite,
		Status:       domain.StatusNew,
		Notes:        strPtr("prefers a corner unit"),
		Tags:         []string{"urgent", "family"},
		OwnerID:      "owner-1",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestForCreateEmitsCreationMarker(t *testing.T) {
	diff := ForCreate(sampleLead())
	require.Len(t, diff, 1)
	change, ok := diff[domain.CreatedMarker]
	require.True(t, ok)
	assert.Nil(t, change.Old)
	assert.Equal(t, true, change.New)
	assert.True(t, diff.IsCreation())
}

func TestForUpdateIdenticalLeadsYieldNil(t *testing.T) {
	previous := sampleLead()
	next := sampleLead()

	assert.Nil(t, ForUpdate(previous, next))
}

func TestForUpdateSingleFieldChange(t *testing.T) {
	previous := sampleLead()
	next := sampleLead()
	next.Status = domain.StatusQualified

	diff := ForUpdate(previous, next)
	require.Len(t, diff, 1)
	assert.Equal(t, domain.FieldChange{Old: "New", New: "Qualified"}, diff["status"])
	assert.False(t, diff.IsCreation())
}

func TestForUpdateMultipleFieldChanges(t *testing.T) {
	previous := sampleLead()
	next := sampleLead()
	next.Phone = "9876543299"
	next.BudgetMax = int64Ptr(9000000)
	next.Timeline = domain.TimelineThreeToSix

	diff := ForUpdate(previous, next)
	require.Len(t, diff, 3)
	assert.Equal(t, domain.FieldChange{Old: "9876543210", New: "9876543299"}, diff["phone"])
	assert.Equal(t, domain.FieldChange{Old: int64(7500000), New: int64(9000000)}, diff["budgetMax"])
	assert.Equal(t, domain.FieldChange{Old: "0-3m", New: "3-6m"}, diff["timeline"])
}

func TestForUpdateOptionalTransitions(t *testing.T) {
	t.Run("cleared", func(t *testing.T) {
		previous := sampleLead()
		next := sampleLead()
		next.Notes = nil

		diff := ForUpdate(previous, next)
		require.Len(t, diff, 1)
		assert.Equal(t, "prefers a corner unit", diff["notes"].Old)
		assert.Nil(t, diff["notes"].New)
	})

	t.Run("set", func(t *testing.T) {
		previous := sampleLead()
		previous.Email = nil
		next := sampleLead()

		diff := ForUpdate(previous, next)
		require.Len(t, diff, 1)
		assert.Nil(t, diff["email"].Old)
		assert.Equal(t, "asha@example.com", diff["email"].New)
	})

	t.Run("absent on both sides is equal", func(t *testing.T) {
		previous := sampleLead()
		previous.BHK = nil
		previous.PropertyType = domain.PropertyPlot
		next := sampleLead()
		next.BHK = nil
		next.PropertyType = domain.PropertyPlot

		assert.Nil(t, ForUpdate(previous, next))
	})
}

func TestForUpdateBHKChange(t *testing.T) {
	previous := sampleLead()
	next := sampleLead()
	next.BHK = bhkPtr(domain.BHKThree)

	diff := ForUpdate(previous, next)
	require.Len(t, diff, 1)
	assert.Equal(t, domain.FieldChange{Old: "2", New: "3"}, diff["bhk"])
}

func TestForUpdateTagsAreOrderSensitive(t *testing.T) {
	previous := sampleLead()
	next := sampleLead()
	next.Tags = []string{"family", "urgent"}

	diff := ForUpdate(previous, next)
	require.Len(t, diff, 1)
	assert.Equal(t, []string{"urgent", "family"}, diff["tags"].Old)
	assert.Equal(t, []string{"family", "urgent"}, diff["tags"].New)
}

func TestForUpdateIgnoresImmutableFields(t *testing.T) {
	previous := sampleLead()
	next := sampleLead()
	next.ID = "different-id"
	next.OwnerID = "owner-2"
	next.CreatedAt = previous.CreatedAt.Add(-time.Hour)
	next.UpdatedAt = previous.UpdatedAt.Add(time.Hour)

	assert.Nil(t, ForUpdate(previous, next))
}
