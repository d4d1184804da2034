package repository

import (
	"context"
	"time"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// LeadInfoRepository puerto del estado comercial (1:1 con business).
type LeadInfoRepository interface {
	GetByBusinessID(ctx context.Context, businessID string) (*entity.LeadInfo, error)
	Upsert(ctx context.Context, li *entity.LeadInfo) error
	// TouchLastContact fija last_contact_date si el negocio tiene lead; no crea uno.
	TouchLastContact(ctx context.Context, businessID string, at time.Time) error
	ListAssignees(ctx context.Context) ([]string, error)
}
