package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/leadmine-api/internal/domain"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
)

var _ repository.CampaignInviteRepository = (*CampaignInviteRepo)(nil)

// CampaignInviteRepo implementación de CampaignInviteRepository.
type CampaignInviteRepo struct {
	q Querier
}

// NewCampaignInviteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCampaignInviteRepository(q Querier) *CampaignInviteRepo {
	return &CampaignInviteRepo{q: q}
}

const inviteSelect = `
		SELECT id, business_id, token, emails_sent, last_email_sent, visits_count, last_visited_at,
			rsvps_count, last_rsvp_at, last_email_meta, last_visit_meta, last_rsvp_meta, created_at
		FROM campaign_invites`

// GetByToken invitación por token; nil, nil si no existe.
func (r *CampaignInviteRepo) GetByToken(ctx context.Context, token string) (*entity.CampaignInvite, error) {
	return r.getOne(ctx, inviteSelect+` WHERE token = $1`, token)
}

// GetByBusinessID invitación del negocio; nil, nil si no existe.
func (r *CampaignInviteRepo) GetByBusinessID(ctx context.Context, businessID string) (*entity.CampaignInvite, error) {
	return r.getOne(ctx, inviteSelect+` WHERE business_id = $1`, businessID)
}

func (r *CampaignInviteRepo) getOne(ctx context.Context, query string, arg string) (*entity.CampaignInvite, error) {
	var ci entity.CampaignInvite
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&ci.ID, &ci.BusinessID, &ci.Token, &ci.EmailsSent, &ci.LastEmailSent, &ci.VisitsCount, &ci.LastVisitedAt,
		&ci.RsvpsCount, &ci.LastRsvpAt, &ci.LastEmailMeta, &ci.LastVisitMeta, &ci.LastRsvpMeta, &ci.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get campaign invite: %w", err)
	}
	return &ci, nil
}

// CreateMany inserta invitaciones; las que chocan con business_id o token existentes se omiten.
func (r *CampaignInviteRepo) CreateMany(ctx context.Context, invites []*entity.CampaignInvite) (int, error) {
	created := 0
	for _, ci := range invites {
		tag, err := r.q.Exec(ctx, `
			INSERT INTO campaign_invites (id, business_id, token, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING`,
			ci.ID, ci.BusinessID, ci.Token, ci.CreatedAt)
		if err != nil {
			return created, fmt.Errorf("insert campaign invite: %w", err)
		}
		created += int(tag.RowsAffected())
	}
	return created, nil
}

// RecordEvent incrementa el contador del evento y guarda timestamp y meta.
func (r *CampaignInviteRepo) RecordEvent(ctx context.Context, id string, event entity.CampaignEvent, meta json.RawMessage, at time.Time) error {
	var query string
	switch event {
	case entity.CampaignEventEmailSent:
		query = `UPDATE campaign_invites SET emails_sent = emails_sent + 1, last_email_sent = $2, last_email_meta = COALESCE($3, last_email_meta) WHERE id = $1`
	case entity.CampaignEventVisit:
		query = `UPDATE campaign_invites SET visits_count = visits_count + 1, last_visited_at = $2, last_visit_meta = COALESCE($3, last_visit_meta) WHERE id = $1`
	case entity.CampaignEventRSVP:
		query = `UPDATE campaign_invites SET rsvps_count = rsvps_count + 1, last_rsvp_at = $2, last_rsvp_meta = COALESCE($3, last_rsvp_meta) WHERE id = $1`
	default:
		return fmt.Errorf("evento %q: %w", event, domain.ErrInvalidInput)
	}
	var metaArg any
	if len(meta) > 0 {
		metaArg = []byte(meta)
	}
	tag, err := r.q.Exec(ctx, query, id, at, metaArg)
	if err != nil {
		return fmt.Errorf("record campaign event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInviteNotFound
	}
	return nil
}
