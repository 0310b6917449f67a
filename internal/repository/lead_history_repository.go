package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
)

// LeadHistoryRepository stores append-only audit entries.
type LeadHistoryRepository interface {
	Create(ctx context.Context, entry *domain.LeadHistory) error
	ListRecent(ctx context.Context, leadID string, limit int) ([]domain.LeadHistory, error)
}

type leadHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewLeadHistoryRepository builds repository.
func NewLeadHistoryRepository(pool *pgxpool.Pool) LeadHistoryRepository {
	return &leadHistoryRepository{pool: pool}
}

func (r *leadHistoryRepository) Create(ctx context.Context, entry *domain.LeadHistory) error {
	const query = `
        INSERT INTO lead_history (lead_id, changed_by, diff)
        VALUES ($1,$2,$3)
        RETURNING id, changed_at`
	return r.pool.QueryRow(ctx, query,
		entry.LeadID,
		entry.ChangedBy,
		entry.Diff,
	).Scan(&entry.ID, &entry.ChangedAt)
}

// ListRecent returns the newest entries first.
func (r *leadHistoryRepository) ListRecent(ctx context.Context, leadID string, limit int) ([]domain.LeadHistory, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
        SELECT id, lead_id, changed_by, diff, changed_at
        FROM lead_history WHERE lead_id=$1 ORDER BY changed_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LeadHistory
	for rows.Next() {
		var entry domain.LeadHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.LeadID,
			&entry.ChangedBy,
			&entry.Diff,
			&entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
