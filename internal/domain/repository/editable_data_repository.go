package repository

import (
	"context"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// EditableDataRepository puerto del overlay editable (1:1 con business).
type EditableDataRepository interface {
	GetByBusinessID(ctx context.Context, businessID string) (*entity.EditableData, error)
	// Upsert inserta o reemplaza el overlay del negocio (conflicto en business_id).
	Upsert(ctx context.Context, ed *entity.EditableData) error
	ListTags(ctx context.Context) ([]string, error)
}
