package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
)

var _ repository.EditableDataRepository = (*EditableDataRepo)(nil)

// EditableDataRepo implementación de EditableDataRepository.
type EditableDataRepo struct {
	q Querier
}

// NewEditableDataRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEditableDataRepository(q Querier) *EditableDataRepo {
	return &EditableDataRepo{q: q}
}

// GetByBusinessID overlay del negocio; nil, nil si no tiene.
func (r *EditableDataRepo) GetByBusinessID(ctx context.Context, businessID string) (*entity.EditableData, error) {
	query := `
		SELECT id, business_id, COALESCE(primary_phone, ''), COALESCE(primary_email, ''),
			COALESCE(contact_person, ''), COALESCE(alternate_phone, ''), COALESCE(alternate_email, ''),
			COALESCE(notes, ''), COALESCE(tags, '{}'), COALESCE(custom_fields, '{}'::jsonb), created_at, updated_at
		FROM editable_business_data WHERE business_id = $1`
	var ed entity.EditableData
	var custom []byte
	err := r.q.QueryRow(ctx, query, businessID).Scan(
		&ed.ID, &ed.BusinessID, &ed.PrimaryPhone, &ed.PrimaryEmail, &ed.ContactPerson, &ed.AlternatePhone,
		&ed.AlternateEmail, &ed.Notes, &ed.Tags, &custom, &ed.CreatedAt, &ed.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get editable data: %w", err)
	}
	if ed.Tags == nil {
		ed.Tags = []string{}
	}
	ed.CustomFields = map[string]any{}
	if len(custom) > 0 {
		if err := json.Unmarshal(custom, &ed.CustomFields); err != nil {
			return nil, fmt.Errorf("decode custom_fields: %w", err)
		}
	}
	return &ed, nil
}

// Upsert inserta o reemplaza el overlay; conserva id y created_at existentes.
func (r *EditableDataRepo) Upsert(ctx context.Context, ed *entity.EditableData) error {
	tags := ed.Tags
	if tags == nil {
		tags = []string{}
	}
	custom := ed.CustomFields
	if custom == nil {
		custom = map[string]any{}
	}
	customJSON, err := json.Marshal(custom)
	if err != nil {
		return fmt.Errorf("encode custom_fields: %w", err)
	}
	query := `
		INSERT INTO editable_business_data (id, business_id, primary_phone, primary_email, contact_person,
			alternate_phone, alternate_email, notes, tags, custom_fields, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12)
		ON CONFLICT (business_id) DO UPDATE SET
			primary_phone = EXCLUDED.primary_phone,
			primary_email = EXCLUDED.primary_email,
			contact_person = EXCLUDED.contact_person,
			alternate_phone = EXCLUDED.alternate_phone,
			alternate_email = EXCLUDED.alternate_email,
			notes = EXCLUDED.notes,
			tags = EXCLUDED.tags,
			custom_fields = EXCLUDED.custom_fields,
			updated_at = EXCLUDED.updated_at`
	_, err = r.q.Exec(ctx, query,
		ed.ID, ed.BusinessID, ed.PrimaryPhone, ed.PrimaryEmail, ed.ContactPerson,
		ed.AlternatePhone, ed.AlternateEmail, ed.Notes, tags, customJSON, ed.CreatedAt, ed.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert editable data: %w", err)
	}
	return nil
}

// ListTags tags distintos usados en algún overlay, ordenados.
func (r *EditableDataRepo) ListTags(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT t FROM editable_business_data, UNNEST(tags) AS t
		WHERE t <> '' ORDER BY t`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return collectStrings(rows)
}

func collectStrings(rows pgx.Rows) ([]string, error) {
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
