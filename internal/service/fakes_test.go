package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
	"github.com/stutiagarwal3007/esahayak-2025/internal/repository"
)

// fakeLeadRepo is an in-memory LeadRepository for service tests.
type fakeLeadRepo struct {
	leads map[string]*domain.Lead
	order []string
	clock time.Time

	createCalls      int
	batchCalls       int
	failBatchCalls   map[int]bool
	failNextCreate   error
	failUpdateAlways error
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{
		leads:          map[string]*domain.Lead{},
		clock:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		failBatchCalls: map[int]bool{},
	}
}

func (f *fakeLeadRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeLeadRepo) store(lead *domain.Lead) {
	lead.ID = uuid.NewString()
	now := f.tick()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	clone := *lead
	f.leads[lead.ID] = &clone
	f.order = append(f.order, lead.ID)
}

func (f *fakeLeadRepo) Create(_ context.Context, lead *domain.Lead) error {
	f.createCalls++
	if f.failNextCreate != nil {
		err := f.failNextCreate
		f.failNextCreate = nil
		return err
	}
	f.store(lead)
	return nil
}

func (f *fakeLeadRepo) CreateBatch(_ context.Context, leads []*domain.Lead) error {
	f.batchCalls++
	if f.failBatchCalls[f.batchCalls] {
		return errors.New("constraint violation")
	}
	for _, lead := range leads {
		f.store(lead)
	}
	return nil
}

func (f *fakeLeadRepo) UpdateWithVersion(_ context.Context, lead *domain.Lead, expectedUpdatedAt time.Time) error {
	if f.failUpdateAlways != nil {
		return f.failUpdateAlways
	}
	stored, ok := f.leads[lead.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return repository.ErrStale
	}
	lead.CreatedAt = stored.CreatedAt
	lead.UpdatedAt = f.tick()
	clone := *lead
	f.leads[lead.ID] = &clone
	return nil
}

func (f *fakeLeadRepo) GetByID(_ context.Context, id string) (*domain.Lead, error) {
	stored, ok := f.leads[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeLeadRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.leads[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeLeadRepo) ListWithFilter(_ context.Context, filter repository.LeadFilter) ([]domain.Lead, int, error) {
	var matched []domain.Lead
	for _, id := range f.order {
		stored, ok := f.leads[id]
		if !ok {
			continue
		}
		if !matchesFilter(stored, filter) {
			continue
		}
		matched = append(matched, *stored)
	}
	// Newest first by update time.
	for i := 0; i < len(matched); i++ {
		for j := i + 1; j < len(matched); j++ {
			if matched[j].UpdatedAt.After(matched[i].UpdatedAt) {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
	}
	total := len(matched)

	offset := filter.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func matchesFilter(lead *domain.Lead, filter repository.LeadFilter) bool {
	if filter.City != nil && lead.City != *filter.City {
		return false
	}
	if filter.PropertyType != nil && lead.PropertyType != *filter.PropertyType {
		return false
	}
	if filter.Status != nil && lead.Status != *filter.Status {
		return false
	}
	if filter.Timeline != nil && lead.Timeline != *filter.Timeline {
		return false
	}
	if filter.Query != nil {
		q := strings.ToLower(strings.TrimSpace(*filter.Query))
		email := ""
		if lead.Email != nil {
			email = strings.ToLower(*lead.Email)
		}
		if !strings.Contains(strings.ToLower(lead.FullName), q) &&
			!strings.Contains(lead.Phone, q) &&
			!strings.Contains(email, q) {
			return false
		}
	}
	return true
}

// fakeHistoryRepo is an in-memory LeadHistoryRepository.
type fakeHistoryRepo struct {
	entries    []domain.LeadHistory
	failCreate error
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.LeadHistory) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	entry.ID = fmt.Sprintf("hist-%d", len(f.entries)+1)
	entry.ChangedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListRecent(_ context.Context, leadID string, limit int) ([]domain.LeadHistory, error) {
	var result []domain.LeadHistory
	for i := len(f.entries) - 1; i >= 0 && len(result) < limit; i-- {
		if f.entries[i].LeadID == leadID {
			result = append(result, f.entries[i])
		}
	}
	return result, nil
}

func (f *fakeHistoryRepo) forLead(leadID string) []domain.LeadHistory {
	var result []domain.LeadHistory
	for _, entry := range f.entries {
		if entry.LeadID == leadID {
			result = append(result, entry)
		}
	}
	return result
}
