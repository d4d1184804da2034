package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
)

var _ repository.LeadInfoRepository = (*LeadInfoRepo)(nil)

// LeadInfoRepo implementación de LeadInfoRepository.
type LeadInfoRepo struct {
	q Querier
}

// NewLeadInfoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeadInfoRepository(q Querier) *LeadInfoRepo {
	return &LeadInfoRepo{q: q}
}

// GetByBusinessID lead del negocio; nil, nil si no tiene.
func (r *LeadInfoRepo) GetByBusinessID(ctx context.Context, businessID string) (*entity.LeadInfo, error) {
	query := `
		SELECT id, business_id, status, priority, COALESCE(assigned_to, ''), COALESCE(estimated_value, 0),
			expected_close_date, last_contact_date, next_follow_up_date, COALESCE(source, ''), created_at, updated_at
		FROM lead_info WHERE business_id = $1`
	var li entity.LeadInfo
	var status, priority string
	err := r.q.QueryRow(ctx, query, businessID).Scan(
		&li.ID, &li.BusinessID, &status, &priority, &li.AssignedTo, &li.EstimatedValue,
		&li.ExpectedCloseDate, &li.LastContactDate, &li.NextFollowUpDate, &li.Source, &li.CreatedAt, &li.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead info: %w", err)
	}
	li.Status = entity.LeadStatus(status)
	li.Priority = entity.Priority(priority)
	return &li, nil
}

// Upsert inserta o reemplaza el lead del negocio (conflicto en business_id).
func (r *LeadInfoRepo) Upsert(ctx context.Context, li *entity.LeadInfo) error {
	query := `
		INSERT INTO lead_info (id, business_id, status, priority, assigned_to, estimated_value,
			expected_close_date, last_contact_date, next_follow_up_date, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''), $11, $12)
		ON CONFLICT (business_id) DO UPDATE SET
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			assigned_to = EXCLUDED.assigned_to,
			estimated_value = EXCLUDED.estimated_value,
			expected_close_date = EXCLUDED.expected_close_date,
			last_contact_date = EXCLUDED.last_contact_date,
			next_follow_up_date = EXCLUDED.next_follow_up_date,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		li.ID, li.BusinessID, string(li.Status), string(li.Priority), li.AssignedTo, li.EstimatedValue,
		li.ExpectedCloseDate, li.LastContactDate, li.NextFollowUpDate, li.Source, li.CreatedAt, li.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert lead info: %w", err)
	}
	return nil
}

// TouchLastContact marca el último contacto; sin lead no hace nada.
func (r *LeadInfoRepo) TouchLastContact(ctx context.Context, businessID string, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE lead_info SET last_contact_date = $2, updated_at = $2 WHERE business_id = $1`,
		businessID, at)
	if err != nil {
		return fmt.Errorf("touch last contact: %w", err)
	}
	return nil
}

// ListAssignees responsables distintos no vacíos, ordenados.
func (r *LeadInfoRepo) ListAssignees(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT assigned_to FROM lead_info
		WHERE assigned_to IS NOT NULL AND assigned_to <> '' ORDER BY assigned_to`)
	if err != nil {
		return nil, fmt.Errorf("list assignees: %w", err)
	}
	return collectStrings(rows)
}
