package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
)

// ErrStale signals that the expected updatedAt token no longer matches the
// stored row; the caller must reload before retrying the write.
var ErrStale = errors.New("lead was modified since it was loaded")

// LeadFilter captures list/search parameters.
type LeadFilter struct {
	OwnerID      *string
	City         *domain.City
	PropertyType *domain.PropertyType
	Status       *domain.LeadStatus
	Timeline     *domain.Timeline
	Query        *string
	Limit        int
	Offset       int
}

// LeadRepository encapsulates lead persistence.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	CreateBatch(ctx context.Context, leads []*domain.Lead) error
	UpdateWithVersion(ctx context.Context, lead *domain.Lead, expectedUpdatedAt time.Time) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter LeadFilter) ([]domain.Lead, int, error)
}

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository instantiates repository.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

const leadColumns = `id, full_name, email, phone, city, property_type, bhk, purpose,
               budget_min, budget_max, timeline, source, status, notes, tags,
               owner_id, created_at, updated_at`

const insertLead = `
        INSERT INTO leads (full_name, email, phone, city, property_type, bhk, purpose,
                           budget_min, budget_max, timeline, source, status, notes, tags, owner_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.pool.QueryRow(ctx, insertLead, insertArgs(lead)...).
		Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

// CreateBatch persists a group of leads in one transaction. Either the whole
// group commits, with ids and timestamps assigned, or none of it does.
func (r *leadRepository) CreateBatch(ctx context.Context, leads []*domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, lead := range leads {
		if err := tx.QueryRow(ctx, insertLead, insertArgs(lead)...).
			Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UpdateWithVersion writes the mutable fields guarded by the optimistic
// concurrency token. ErrStale is returned when the stored updated_at differs
// from what the editor last observed.
func (r *leadRepository) UpdateWithVersion(ctx context.Context, lead *domain.Lead, expectedUpdatedAt time.Time) error {
	const query = `
        UPDATE leads SET full_name=$1, email=$2, phone=$3, city=$4, property_type=$5,
            bhk=$6, purpose=$7, budget_min=$8, budget_max=$9, timeline=$10,
            source=$11, status=$12, notes=$13, tags=$14, updated_at=NOW()
        WHERE id=$15 AND updated_at=$16
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		lead.FullName,
		lead.Email,
		lead.Phone,
		lead.City,
		lead.PropertyType,
		lead.BHK,
		lead.Purpose,
		lead.BudgetMin,
		lead.BudgetMax,
		lead.Timeline,
		lead.Source,
		lead.Status,
		lead.Notes,
		lead.Tags,
		lead.ID,
		expectedUpdatedAt,
	).Scan(&lead.UpdatedAt)
	if err == pgx.ErrNoRows {
		// Row exists but the token mismatched, or the lead is gone.
		if _, getErr := r.GetByID(ctx, lead.ID); getErr == nil {
			return ErrStale
		}
		return pgx.ErrNoRows
	}
	return err
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id=$1`, leadColumns)
	var lead domain.Lead
	if err := r.pool.QueryRow(ctx, query, id).Scan(scanTargets(&lead)...); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *leadRepository) ListWithFilter(ctx context.Context, filter LeadFilter) ([]domain.Lead, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.City != nil {
		args = append(args, *filter.City)
		clauses = append(clauses, fmt.Sprintf("city=$%d", len(args)))
	}
	if filter.PropertyType != nil {
		args = append(args, *filter.PropertyType)
		clauses = append(clauses, fmt.Sprintf("property_type=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Timeline != nil {
		args = append(args, *filter.Timeline)
		clauses = append(clauses, fmt.Sprintf("timeline=$%d", len(args)))
	}
	if filter.Query != nil && strings.TrimSpace(*filter.Query) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Query)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(full_name) LIKE %s OR phone LIKE %s OR LOWER(COALESCE(email, '')) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM leads WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		leadColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads, err := scanLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func insertArgs(lead *domain.Lead) []any {
	return []any{
		lead.FullName,
		lead.Email,
		lead.Phone,
		lead.City,
		lead.PropertyType,
		lead.BHK,
		lead.Purpose,
		lead.BudgetMin,
		lead.BudgetMax,
		lead.Timeline,
		lead.Source,
		lead.Status,
		lead.Notes,
		lead.Tags,
		lead.OwnerID,
	}
}

func scanTargets(lead *domain.Lead) []any {
	return []any{
		&lead.ID,
		&lead.FullName,
		&lead.Email,
		&lead.Phone,
		&lead.City,
		&lead.PropertyType,
		&lead.BHK,
		&lead.Purpose,
		&lead.BudgetMin,
		&lead.BudgetMax,
		&lead.Timeline,
		&lead.Source,
		&lead.Status,
		&lead.Notes,
		&lead.Tags,
		&lead.OwnerID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	}
}

func scanLeads(rows pgx.Rows) ([]domain.Lead, error) {
	var result []domain.Lead
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(scanTargets(&lead)...); err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}
