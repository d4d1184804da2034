package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
)

var _ repository.NoteRepository = (*NoteRepo)(nil)

// NoteRepo implementación de NoteRepository.
type NoteRepo struct {
	q Querier
}

// NewNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNoteRepository(q Querier) *NoteRepo {
	return &NoteRepo{q: q}
}

const noteColumns = `id, business_id, content, type, COALESCE(created_by, ''), created_at, updated_at`

// Create persiste una nota.
func (r *NoteRepo) Create(ctx context.Context, n *entity.Note) error {
	query := `
		INSERT INTO notes (id, business_id, content, type, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, n.ID, n.BusinessID, n.Content, string(n.Type), n.CreatedBy, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// ListByBusiness notas del negocio, más recientes primero. limit 0 = todas.
func (r *NoteRepo) ListByBusiness(ctx context.Context, businessID string, limit int) ([]*entity.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE business_id = $1 ORDER BY created_at DESC`
	args := []any{businessID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return collectNotes(rows)
}

// ListLatestForBusinesses las limit notas más recientes de cada negocio en ids.
func (r *NoteRepo) ListLatestForBusinesses(ctx context.Context, ids []string, limit int) ([]*entity.Note, error) {
	query := `
		SELECT ` + noteColumns + ` FROM (
			SELECT n.*, ROW_NUMBER() OVER (PARTITION BY n.business_id ORDER BY n.created_at DESC) AS rn
			FROM notes n WHERE n.business_id = ANY($1)
		) latest
		WHERE rn <= $2
		ORDER BY business_id, created_at DESC`
	rows, err := r.q.Query(ctx, query, ids, limit)
	if err != nil {
		return nil, fmt.Errorf("list latest notes: %w", err)
	}
	return collectNotes(rows)
}

func collectNotes(rows pgx.Rows) ([]*entity.Note, error) {
	defer rows.Close()
	list := []*entity.Note{}
	for rows.Next() {
		var n entity.Note
		var typ string
		if err := rows.Scan(&n.ID, &n.BusinessID, &n.Content, &typ, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.Type = entity.NoteType(typ)
		list = append(list, &n)
	}
	return list, rows.Err()
}
