package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
	"github.com/stutiagarwal3007/esahayak-2025/internal/intake"
	"github.com/stutiagarwal3007/esahayak-2025/internal/repository"
	apperrors "github.com/stutiagarwal3007/esahayak-2025/pkg/util/errorutil"
)

const leadOwner = "owner-1"

func newLeadFixture() (*LeadService, *fakeLeadRepo, *fakeHistoryRepo) {
	leadRepo := newFakeLeadRepo()
	historyRepo := &fakeHistoryRepo{}
	svc := NewLeadService(LeadDependencies{
		LeadRepo:    leadRepo,
		HistoryRepo: historyRepo,
	})
	return svc, leadRepo, historyRepo
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func formInput() intake.FormInput {
	return intake.FormInput{
		FullName:     "Asha Verma",
		Email:        strPtr("asha@example.com"),
		Phone:        "9876543210",
		City:         "Chandigarh",
		PropertyType: "Apartment",
		BHK:          strPtr("2"),
		Purpose:      "Buy",
		BudgetMin:    int64Ptr(5000000),
		BudgetMax:    int64Ptr(7500000),
		Timeline:     "0-3m",
		Source:       "Website",
		Tags:         []string{"urgent"},
	}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestCreateLeadPersistsAndRecordsCreation(t *testing.T) {
	svc, leadRepo, historyRepo := newLeadFixture()

	lead, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, leadOwner, lead.OwnerID)
	assert.False(t, lead.CreatedAt.IsZero())
	assert.Len(t, leadRepo.leads, 1)

	entries := historyRepo.forLead(lead.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Diff.IsCreation())
	require.NotNil(t, entries[0].ChangedBy)
	assert.Equal(t, leadOwner, *entries[0].ChangedBy)
}

func TestCreateLeadValidationFailure(t *testing.T) {
	svc, leadRepo, _ := newLeadFixture()

	in := formInput()
	in.Phone = "12"

	lead, err := svc.CreateLead(context.Background(), leadOwner, in)
	assert.Nil(t, lead)
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
	assert.Equal(t, 0, leadRepo.createCalls)
}

func TestCreateLeadStorageFailure(t *testing.T) {
	svc, leadRepo, historyRepo := newLeadFixture()
	leadRepo.failNextCreate = fmt.Errorf("connection reset")

	lead, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	assert.Nil(t, lead)
	assert.Equal(t, "STORAGE_FAILURE", domainCode(t, err))
	assert.Empty(t, historyRepo.entries)
}

func TestUpdateLeadAppliesDiffAndHistory(t *testing.T) {
	svc, _, historyRepo := newLeadFixture()

	created, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	in := formInput()
	in.Status = "Qualified"
	in.BudgetMax = int64Ptr(9000000)

	updated, err := svc.UpdateLead(context.Background(), leadOwner, created.ID, in, created.UpdatedAt)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusQualified, updated.Status)
	require.NotNil(t, updated.BudgetMax)
	assert.Equal(t, int64(9000000), *updated.BudgetMax)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	entries := historyRepo.forLead(created.ID)
	require.Len(t, entries, 2)
	diff := entries[1].Diff
	require.Len(t, diff, 2)
	assert.Equal(t, domain.FieldChange{Old: "New", New: "Qualified"}, diff["status"])
	assert.Equal(t, domain.FieldChange{Old: int64(7500000), New: int64(9000000)}, diff["budgetMax"])
}

func TestUpdateLeadNoChangeSkipsWriteAndHistory(t *testing.T) {
	svc, _, historyRepo := newLeadFixture()

	created, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	updated, err := svc.UpdateLead(context.Background(), leadOwner, created.ID, formInput(), created.UpdatedAt)
	require.NoError(t, err)

	assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)
	assert.Len(t, historyRepo.forLead(created.ID), 1)
}

func TestUpdateLeadNoChangeStaleTokenStillConflicts(t *testing.T) {
	svc, _, _ := newLeadFixture()

	created, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	_, err = svc.UpdateLead(context.Background(), leadOwner, created.ID, formInput(), created.UpdatedAt.Add(-time.Minute))
	assert.Equal(t, "STALE", domainCode(t, err))
}

func TestUpdateLeadStaleToken(t *testing.T) {
	svc, _, _ := newLeadFixture()

	created, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	in := formInput()
	in.Status = "Contacted"
	_, err = svc.UpdateLead(context.Background(), leadOwner, created.ID, in, created.UpdatedAt.Add(-time.Minute))
	assert.Equal(t, "STALE", domainCode(t, err))
}

func TestUpdateLeadSequentialEditsNeedFreshToken(t *testing.T) {
	svc, _, _ := newLeadFixture()

	created, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	first := formInput()
	first.Status = "Contacted"
	afterFirst, err := svc.UpdateLead(context.Background(), leadOwner, created.ID, first, created.UpdatedAt)
	require.NoError(t, err)

	// Replaying the original token after another edit landed must conflict.
	second := formInput()
	second.Status = "Qualified"
	_, err = svc.UpdateLead(context.Background(), leadOwner, created.ID, second, created.UpdatedAt)
	assert.Equal(t, "STALE", domainCode(t, err))

	// The fresh token from the first edit succeeds.
	_, err = svc.UpdateLead(context.Background(), leadOwner, created.ID, second, afterFirst.UpdatedAt)
	require.NoError(t, err)
}

func TestUpdateLeadForbiddenForNonOwner(t *testing.T) {
	svc, _, _ := newLeadFixture()

	created, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	_, err = svc.UpdateLead(context.Background(), "owner-2", created.ID, formInput(), created.UpdatedAt)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestUpdateLeadNotFound(t *testing.T) {
	svc, _, _ := newLeadFixture()

	_, err := svc.UpdateLead(context.Background(), leadOwner, "missing", formInput(), time.Now())
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestUpdateLeadMapsRepositoryStale(t *testing.T) {
	svc, leadRepo, _ := newLeadFixture()

	created, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	leadRepo.failUpdateAlways = repository.ErrStale
	in := formInput()
	in.Status = "Dropped"
	_, err = svc.UpdateLead(context.Background(), leadOwner, created.ID, in, created.UpdatedAt)
	assert.Equal(t, "STALE", domainCode(t, err))
}

func TestGetLeadReturnsRecentHistory(t *testing.T) {
	svc, _, _ := newLeadFixture()

	created, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	statuses := []string{"Contacted", "Qualified", "Visited", "Negotiation", "Converted", "Dropped"}
	token := created.UpdatedAt
	for _, status := range statuses {
		in := formInput()
		in.Status = status
		updated, err := svc.UpdateLead(context.Background(), leadOwner, created.ID, in, token)
		require.NoError(t, err)
		token = updated.UpdatedAt
	}

	lead, history, err := svc.GetLead(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDropped, lead.Status)

	// Seven entries exist; only the newest five are surfaced.
	require.Len(t, history, RecentHistoryLimit)
	assert.Equal(t, domain.FieldChange{Old: "Converted", New: "Dropped"}, history[0].Diff["status"])
}

func TestGetLeadNotFound(t *testing.T) {
	svc, _, _ := newLeadFixture()

	_, _, err := svc.GetLead(context.Background(), "missing")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestListLeadsPagesNewestFirst(t *testing.T) {
	svc, _, _ := newLeadFixture()

	for i := 0; i < 13; i++ {
		in := formInput()
		in.Phone = "98765432" + string(rune('0'+i%10)) + string(rune('0'+i/10))
		_, err := svc.CreateLead(context.Background(), leadOwner, in)
		require.NoError(t, err)
	}

	page1, total, err := svc.ListLeads(context.Background(), LeadListFilter{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 13, total)
	require.Len(t, page1, 10)

	page2, total, err := svc.ListLeads(context.Background(), LeadListFilter{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 13, total)
	require.Len(t, page2, 3)

	// Newest first across the page boundary.
	assert.True(t, page1[0].UpdatedAt.After(page1[9].UpdatedAt))
	assert.True(t, page1[9].UpdatedAt.After(page2[0].UpdatedAt))
}

func TestListLeadsFilters(t *testing.T) {
	svc, _, _ := newLeadFixture()

	chandigarh := formInput()
	_, err := svc.CreateLead(context.Background(), leadOwner, chandigarh)
	require.NoError(t, err)

	mohali := formInput()
	mohali.FullName = "Ravi Kumar"
	mohali.Phone = "9812345678"
	mohali.City = "Mohali"
	mohali.PropertyType = "Plot"
	mohali.BHK = nil
	_, err = svc.CreateLead(context.Background(), leadOwner, mohali)
	require.NoError(t, err)

	city := domain.CityMohali
	byCity, total, err := svc.ListLeads(context.Background(), LeadListFilter{City: &city, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byCity, 1)
	assert.Equal(t, "Ravi Kumar", byCity[0].FullName)

	query := "ravi"
	byQuery, total, err := svc.ListLeads(context.Background(), LeadListFilter{Query: &query, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Ravi Kumar", byQuery[0].FullName)
}

func TestDeleteLead(t *testing.T) {
	svc, leadRepo, _ := newLeadFixture()

	created, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLead(context.Background(), leadOwner, created.ID))
	assert.Empty(t, leadRepo.leads)

	err = svc.DeleteLead(context.Background(), leadOwner, created.ID)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestDeleteLeadForbiddenForNonOwner(t *testing.T) {
	svc, leadRepo, _ := newLeadFixture()

	created, err := svc.CreateLead(context.Background(), leadOwner, formInput())
	require.NoError(t, err)

	err = svc.DeleteLead(context.Background(), "owner-2", created.ID)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
	assert.Len(t, leadRepo.leads, 1)
}
