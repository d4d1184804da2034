package repository

import (
	"context"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// NoteRepository puerto de notas de seguimiento.
type NoteRepository interface {
	Create(ctx context.Context, n *entity.Note) error
	// ListByBusiness más recientes primero; limit 0 = todas.
	ListByBusiness(ctx context.Context, businessID string, limit int) ([]*entity.Note, error)
}
