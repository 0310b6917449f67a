package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stutiagarwal3007/esahayak-2025/internal/audit"
	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
	"github.com/stutiagarwal3007/esahayak-2025/internal/events"
	"github.com/stutiagarwal3007/esahayak-2025/internal/intake"
	"github.com/stutiagarwal3007/esahayak-2025/internal/repository"
	apperrors "github.com/stutiagarwal3007/esahayak-2025/pkg/util/errorutil"
)

// RecentHistoryLimit caps how many history entries are surfaced for display.
const RecentHistoryLimit = 5

// Listing pages are fixed size; export is bounded rather than paged.
const (
	listPageSize = 10
	exportLimit  = 10000
)

// LeadService coordinates lead workflows.
type LeadService struct {
	leads      repository.LeadRepository
	history    repository.LeadHistoryRepository
	cache      *HistoryCache
	dispatcher events.Dispatcher
}

// LeadDependencies bundles collaborators for the lead service.
type LeadDependencies struct {
	LeadRepo    repository.LeadRepository
	HistoryRepo repository.LeadHistoryRepository
	Cache       *HistoryCache
	Dispatcher  events.Dispatcher
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	return &LeadService{
		leads:      deps.LeadRepo,
		history:    deps.HistoryRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// LeadListFilter describes listing parameters. Page is 1-indexed; page size
// is fixed and sorting is always updatedAt descending.
type LeadListFilter struct {
	City         *domain.City
	PropertyType *domain.PropertyType
	Status       *domain.LeadStatus
	Timeline     *domain.Timeline
	Query        *string
	Page         int
}

// CreateLead validates a form submission and persists it for the acting
// agent, writing the creation marker to history.
func (s *LeadService) CreateLead(ctx context.Context, ownerID string, in intake.FormInput) (*domain.Lead, error) {
	lead, fieldErrs := intake.Validate(intake.CandidateFromForm(in))
	if len(fieldErrs) > 0 {
		return nil, validationFailed(fieldErrs)
	}
	lead.OwnerID = ownerID

	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	if err := s.appendHistory(ctx, lead.ID, &ownerID, audit.ForCreate(lead)); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventLeadCreated,
		LeadID:  lead.ID,
		ActorID: ownerID,
		Payload: events.LeadCreatedPayload{
			City:         lead.City,
			PropertyType: lead.PropertyType,
			Purpose:      lead.Purpose,
			Source:       lead.Source,
			Status:       lead.Status,
		},
	})
	return lead, nil
}

// UpdateLead validates an edit and applies it under the optimistic
// concurrency token the editor last observed. When nothing changed, no write
// happens and no history entry is appended.
func (s *LeadService) UpdateLead(ctx context.Context, actorID, leadID string, in intake.FormInput, expectedUpdatedAt time.Time) (*domain.Lead, error) {
	previous, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("lead", nil)
		}
		return nil, err
	}
	if previous.OwnerID != actorID {
		return nil, apperrors.NewForbidden("only the owner can edit this lead")
	}

	next, fieldErrs := intake.Validate(intake.CandidateFromForm(in))
	if len(fieldErrs) > 0 {
		return nil, validationFailed(fieldErrs)
	}
	next.ID = previous.ID
	next.OwnerID = previous.OwnerID
	next.CreatedAt = previous.CreatedAt

	diff := audit.ForUpdate(previous, next)
	if diff == nil {
		// No write happens, but an editor holding an outdated view must
		// still be told to reload.
		if !previous.UpdatedAt.Equal(expectedUpdatedAt) {
			return nil, apperrors.NewStale()
		}
		return previous, nil
	}

	if err := s.leads.UpdateWithVersion(ctx, next, expectedUpdatedAt); err != nil {
		switch {
		case errors.Is(err, repository.ErrStale):
			return nil, apperrors.NewStale()
		case err == pgx.ErrNoRows:
			return nil, apperrors.NewNotFound("lead", nil)
		}
		return nil, err
	}
	if err := s.appendHistory(ctx, next.ID, &actorID, diff); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventLeadUpdated,
		LeadID:  next.ID,
		ActorID: actorID,
		Payload: events.LeadUpdatedPayload{Diff: diff},
	})
	return next, nil
}

// GetLead returns a lead together with its most recent history entries.
func (s *LeadService) GetLead(ctx context.Context, leadID string) (*domain.Lead, []domain.LeadHistory, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewNotFound("lead", nil)
		}
		return nil, nil, err
	}
	history, err := s.recentHistory(ctx, leadID)
	if err != nil {
		return nil, nil, err
	}
	return lead, history, nil
}

// ListLeads returns one page of leads plus the total match count.
func (s *LeadService) ListLeads(ctx context.Context, filter LeadListFilter) ([]domain.Lead, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	return s.leads.ListWithFilter(ctx, repository.LeadFilter{
		City:         filter.City,
		PropertyType: filter.PropertyType,
		Status:       filter.Status,
		Timeline:     filter.Timeline,
		Query:        filter.Query,
		Limit:        listPageSize,
		Offset:       (page - 1) * listPageSize,
	})
}

// ExportLeads returns every lead matching the filter, newest first, for CSV
// export.
func (s *LeadService) ExportLeads(ctx context.Context, filter LeadListFilter) ([]domain.Lead, error) {
	leads, _, err := s.leads.ListWithFilter(ctx, repository.LeadFilter{
		City:         filter.City,
		PropertyType: filter.PropertyType,
		Status:       filter.Status,
		Timeline:     filter.Timeline,
		Query:        filter.Query,
		Limit:        exportLimit,
	})
	return leads, err
}

// DeleteLead removes an owned lead; history entries cascade in storage.
func (s *LeadService) DeleteLead(ctx context.Context, actorID, leadID string) error {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("lead", nil)
		}
		return err
	}
	if lead.OwnerID != actorID {
		return apperrors.NewForbidden("only the owner can delete this lead")
	}
	if err := s.leads.Delete(ctx, leadID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, leadID)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventLeadDeleted,
		LeadID:  leadID,
		ActorID: actorID,
		Payload: events.LeadDeletedPayload{FullName: lead.FullName},
	})
	return nil
}

func (s *LeadService) appendHistory(ctx context.Context, leadID string, changedBy *string, diff domain.Diff) error {
	entry := &domain.LeadHistory{
		LeadID:    leadID,
		ChangedBy: changedBy,
		Diff:      diff,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, leadID)
	return nil
}

func (s *LeadService) recentHistory(ctx context.Context, leadID string) ([]domain.LeadHistory, error) {
	if entries, ok := s.cache.Get(ctx, leadID); ok {
		return entries, nil
	}
	entries, err := s.history.ListRecent(ctx, leadID, RecentHistoryLimit)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, leadID, entries)
	return entries, nil
}

func (s *LeadService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validationFailed(fieldErrs []intake.FieldError) error {
	return apperrors.NewValidationError("validation failed", map[string]any{"errors": fieldErrs})
}
