package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// CampaignInviteRepository puerto de invitaciones de campaña.
type CampaignInviteRepository interface {
	GetByToken(ctx context.Context, token string) (*entity.CampaignInvite, error)
	GetByBusinessID(ctx context.Context, businessID string) (*entity.CampaignInvite, error)
	// CreateMany inserta ignorando duplicados; devuelve cuántas se crearon.
	CreateMany(ctx context.Context, invites []*entity.CampaignInvite) (int, error)
	// RecordEvent incrementa el contador del evento, fija su timestamp y guarda meta.
	RecordEvent(ctx context.Context, id string, event entity.CampaignEvent, meta json.RawMessage, at time.Time) error
}
