package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/stutiagarwal3007/esahayak-2025/internal/audit"
	"github.com/stutiagarwal3007/esahayak-2025/internal/config"
	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
	"github.com/stutiagarwal3007/esahayak-2025/internal/events"
	"github.com/stutiagarwal3007/esahayak-2025/internal/intake"
	"github.com/stutiagarwal3007/esahayak-2025/internal/repository"
	apperrors "github.com/stutiagarwal3007/esahayak-2025/pkg/util/errorutil"
)

// RowOutcome reports what happened to one input row. Exactly one of Lead and
// Errors is set.
type RowOutcome struct {
	Row    int                 `json:"row"`
	Lead   *domain.Lead        `json:"lead,omitempty"`
	Errors []intake.FieldError `json:"errors,omitempty"`
}

// BatchResult summarizes a bulk import. PerRow order matches input order.
type BatchResult struct {
	PerRow   []RowOutcome `json:"per_row"`
	Imported int          `json:"imported"`
	Failed   int          `json:"failed"`
}

// ImportService validates and persists CSV rows in bounded sub-batches.
type ImportService struct {
	leads      repository.LeadRepository
	history    repository.LeadHistoryRepository
	cache      *HistoryCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	maxRows    int
	batchSize  int
}

// ImportDependencies bundles collaborators for the import service.
type ImportDependencies struct {
	LeadRepo    repository.LeadRepository
	HistoryRepo repository.LeadHistoryRepository
	Cache       *HistoryCache
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewImportService constructs the service.
func NewImportService(cfg config.ImportConfig, deps ImportDependencies) *ImportService {
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = 200
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		leads:      deps.LeadRepo,
		history:    deps.HistoryRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		maxRows:    maxRows,
		batchSize:  batchSize,
	}
}

// ImportRows runs the batch import for the acting agent. Oversized batches
// are rejected before any row is validated. Each row is validated
// independently; valid rows are committed in sub-batches, and a storage
// rejection flips only the rows of that sub-batch while earlier sub-batches
// stay committed.
func (s *ImportService) ImportRows(ctx context.Context, rows [][]string, ownerID string) (*BatchResult, error) {
	if len(rows) > s.maxRows {
		return nil, apperrors.NewBatchTooLarge(s.maxRows)
	}

	result := &BatchResult{PerRow: make([]RowOutcome, len(rows))}

	type pendingRow struct {
		index int
		lead  *domain.Lead
	}
	var valid []pendingRow

	for i, row := range rows {
		rowNum := i + 1
		lead, fieldErrs := intake.Validate(intake.CandidateFromCSVRow(row, rowNum))
		if len(fieldErrs) > 0 {
			result.PerRow[i] = RowOutcome{Row: rowNum, Errors: fieldErrs}
			result.Failed++
			continue
		}
		lead.OwnerID = ownerID
		result.PerRow[i] = RowOutcome{Row: rowNum, Lead: lead}
		valid = append(valid, pendingRow{index: i, lead: lead})
	}

	for start := 0; start < len(valid); start += s.batchSize {
		end := min(start+s.batchSize, len(valid))
		group := valid[start:end]

		leads := make([]*domain.Lead, len(group))
		for i, pending := range group {
			leads[i] = pending.lead
		}

		if err := s.leads.CreateBatch(ctx, leads); err != nil {
			// Each sub-batch is one transaction, so a rejection fails every
			// row in the group, not only the offending one. Earlier
			// sub-batches stay committed.
			s.logger.Warn("import sub-batch rejected",
				zap.Int("first_row", group[0].index+1),
				zap.Int("rows", len(group)),
				zap.Error(err))
			for _, pending := range group {
				result.PerRow[pending.index] = RowOutcome{
					Row: pending.index + 1,
					Errors: []intake.FieldError{{
						Row:     pending.index + 1,
						Message: "Storage rejected the row; it was not imported",
					}},
				}
				result.Failed++
			}
			continue
		}

		for _, pending := range group {
			result.Imported++
			entry := &domain.LeadHistory{
				LeadID:    pending.lead.ID,
				ChangedBy: &ownerID,
				Diff:      audit.ForCreate(pending.lead),
			}
			if err := s.history.Create(ctx, entry); err != nil {
				// The lead itself is committed; the missing creation marker
				// is logged rather than failing the row.
				s.logger.Warn("history append failed for imported lead",
					zap.String("lead_id", pending.lead.ID), zap.Error(err))
				continue
			}
			s.cache.Invalidate(ctx, pending.lead.ID)
		}
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventLeadsImported,
			ActorID: ownerID,
			Payload: events.LeadsImportedPayload{
				TotalRows: len(rows),
				Imported:  result.Imported,
				Failed:    result.Failed,
			},
		})
	}
	return result, nil
}
