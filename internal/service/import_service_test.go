package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stutiagarwal3007/esahayak-2025/internal/config"
	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
	apperrors "github.com/stutiagarwal3007/esahayak-2025/pkg/util/errorutil"
)

const importOwner = "owner-1"

func newImportFixture(cfg config.ImportConfig) (*ImportService, *fakeLeadRepo, *fakeHistoryRepo) {
	leadRepo := newFakeLeadRepo()
	historyRepo := &fakeHistoryRepo{}
	svc := NewImportService(cfg, ImportDependencies{
		LeadRepo:    leadRepo,
		HistoryRepo: historyRepo,
	})
	return svc, leadRepo, historyRepo
}

func csvRow(fullName, phone string) []string {
	return []string{
		fullName, "", phone, "Mohali", "Plot",
		"", "Buy", "", "", ">6m", "Call",
		"", "", "",
	}
}

func manyRows(n int) [][]string {
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, csvRow(fmt.Sprintf("Buyer %03d", i+1), fmt.Sprintf("98%08d", i)))
	}
	return rows
}

func TestImportRowsRejectsOversizedBatchBeforeValidation(t *testing.T) {
	svc, leadRepo, _ := newImportFixture(config.ImportConfig{MaxRows: 200, BatchSize: 10})

	rows := manyRows(201)
	// A validation error in the first row must not surface; the size check
	// runs first.
	rows[0] = csvRow("X", "bad-phone")

	result, err := svc.ImportRows(context.Background(), rows, importOwner)
	assert.Nil(t, result)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "BATCH_TOO_LARGE", domainErr.Code)
	assert.Equal(t, 0, leadRepo.batchCalls)
}

func TestImportRowsAllValid(t *testing.T) {
	svc, leadRepo, historyRepo := newImportFixture(config.ImportConfig{MaxRows: 200, BatchSize: 10})

	result, err := svc.ImportRows(context.Background(), manyRows(25), importOwner)
	require.NoError(t, err)

	assert.Equal(t, 25, result.Imported)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.PerRow, 25)
	for i, outcome := range result.PerRow {
		assert.Equal(t, i+1, outcome.Row)
		require.NotNil(t, outcome.Lead)
		assert.Empty(t, outcome.Errors)
		assert.NotEmpty(t, outcome.Lead.ID)
		assert.Equal(t, importOwner, outcome.Lead.OwnerID)
	}

	// 25 valid rows with a sub-batch size of 10 means three transactions.
	assert.Equal(t, 3, leadRepo.batchCalls)

	// Every imported lead gets a creation marker.
	assert.Len(t, historyRepo.entries, 25)
	for _, entry := range historyRepo.entries {
		assert.True(t, entry.Diff.IsCreation())
		require.NotNil(t, entry.ChangedBy)
		assert.Equal(t, importOwner, *entry.ChangedBy)
	}
}

func TestImportRowsMixedValidity(t *testing.T) {
	svc, leadRepo, _ := newImportFixture(config.ImportConfig{MaxRows: 200, BatchSize: 10})

	rows := [][]string{
		csvRow("Asha Verma", "9876543210"),
		csvRow("X", "12"),
		csvRow("Ravi Kumar", "9812345678"),
	}

	result, err := svc.ImportRows(context.Background(), rows, importOwner)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.PerRow, 3)

	assert.NotNil(t, result.PerRow[0].Lead)
	assert.Nil(t, result.PerRow[1].Lead)
	assert.NotNil(t, result.PerRow[2].Lead)

	// Row 2 failed on two fields; both errors surface with the row number.
	require.Len(t, result.PerRow[1].Errors, 2)
	assert.Equal(t, 2, result.PerRow[1].Errors[0].Row)
	assert.Equal(t, "fullName", result.PerRow[1].Errors[0].Field)
	assert.Equal(t, "phone", result.PerRow[1].Errors[1].Field)

	assert.Len(t, leadRepo.leads, 2)
}

func TestImportRowsStorageRejectionFlipsOnlyItsSubBatch(t *testing.T) {
	svc, leadRepo, historyRepo := newImportFixture(config.ImportConfig{MaxRows: 200, BatchSize: 10})
	leadRepo.failBatchCalls[2] = true

	result, err := svc.ImportRows(context.Background(), manyRows(25), importOwner)
	require.NoError(t, err)

	assert.Equal(t, 15, result.Imported)
	assert.Equal(t, 10, result.Failed)

	// First sub-batch (rows 1-10) stays committed.
	for i := 0; i < 10; i++ {
		require.NotNil(t, result.PerRow[i].Lead, "row %d", i+1)
	}
	// Second sub-batch (rows 11-20) is flipped to per-row failures.
	for i := 10; i < 20; i++ {
		outcome := result.PerRow[i]
		assert.Nil(t, outcome.Lead, "row %d", i+1)
		require.Len(t, outcome.Errors, 1)
		assert.Equal(t, i+1, outcome.Errors[0].Row)
		assert.Equal(t, "Storage rejected the row; it was not imported", outcome.Errors[0].Message)
	}
	// Third sub-batch (rows 21-25) commits despite the earlier failure.
	for i := 20; i < 25; i++ {
		require.NotNil(t, result.PerRow[i].Lead, "row %d", i+1)
	}

	assert.Len(t, leadRepo.leads, 15)
	assert.Len(t, historyRepo.entries, 15)
}

func TestImportRowsHistoryFailureDoesNotFailRow(t *testing.T) {
	svc, leadRepo, historyRepo := newImportFixture(config.ImportConfig{MaxRows: 200, BatchSize: 10})
	historyRepo.failCreate = fmt.Errorf("history unavailable")

	result, err := svc.ImportRows(context.Background(), manyRows(3), importOwner)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, leadRepo.leads, 3)
	assert.Empty(t, historyRepo.entries)
}

func TestImportRowsEmptyInput(t *testing.T) {
	svc, leadRepo, _ := newImportFixture(config.ImportConfig{MaxRows: 200, BatchSize: 10})

	result, err := svc.ImportRows(context.Background(), nil, importOwner)
	require.NoError(t, err)

	assert.Empty(t, result.PerRow)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, leadRepo.batchCalls)
}

func TestImportRowsDefaultsStatusToNew(t *testing.T) {
	svc, _, _ := newImportFixture(config.ImportConfig{MaxRows: 200, BatchSize: 10})

	result, err := svc.ImportRows(context.Background(), [][]string{csvRow("Asha Verma", "9876543210")}, importOwner)
	require.NoError(t, err)

	require.Len(t, result.PerRow, 1)
	require.NotNil(t, result.PerRow[0].Lead)
	assert.Equal(t, domain.StatusNew, result.PerRow[0].Lead.Status)
}
