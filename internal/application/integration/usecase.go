// Package integration expone los negocios al sistema de campañas (feed por cursor
// e invitaciones) y registra los eventos que ese sistema reporta.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadmine-api/internal/application/dto"
	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/metrics"
	"github.com/jhoicas/leadmine-api/pkg/logger"
)

const (
	defaultLimit = 200
	maxLimit     = 500

	noteAuthor = "integration"
)

// UseCase casos de uso de la API de integración.
type UseCase struct {
	businesses repository.BusinessRepository
	invites    repository.CampaignInviteRepository
	tx         ports.TxRunner
	log        *logger.Logger
	now        func() time.Time
	newToken   func() string
}

// NewUseCase construye el caso de uso.
func NewUseCase(businesses repository.BusinessRepository, invites repository.CampaignInviteRepository, tx ports.TxRunner, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		businesses: businesses,
		invites:    invites,
		tx:         tx,
		log:        log.Component("integration"),
		now:        time.Now,
		newToken:   newInviteToken,
	}
}

// newInviteToken 32 caracteres hex a partir de un UUID v4.
func newInviteToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// List una página del feed ordenada por id. Con createMissing primero crea las
// invitaciones que falten (restringidas a ids si vienen).
func (uc *UseCase) List(ctx context.Context, in dto.IntegrationListRequest) (*dto.IntegrationListResponse, error) {
	limit := parseLimit(in.Limit)
	ids := splitList(in.IDs)

	if parseBool(in.CreateMissing) {
		if err := uc.createMissingInvites(ctx, ids); err != nil {
			return nil, err
		}
	}

	list, err := uc.businesses.ListForIntegration(ctx, repository.IntegrationFilter{
		Limit:    limit,
		Cursor:   strings.TrimSpace(in.Cursor),
		HasEmail: parseBool(in.HasEmail),
		IDs:      ids,
		Search:   strings.TrimSpace(in.Search),
	})
	if err != nil {
		return nil, fmt.Errorf("integration list: %w", err)
	}

	out := &dto.IntegrationListResponse{
		Data:       make([]dto.IntegrationBusiness, 0, len(list)),
		Pagination: dto.CursorPagination{Limit: limit},
	}
	for _, b := range list {
		out.Data = append(out.Data, toIntegrationBusiness(b))
	}
	if len(list) == limit {
		last := list[len(list)-1].ID
		out.Pagination.NextCursor = &last
	}
	return out, nil
}

func (uc *UseCase) createMissingInvites(ctx context.Context, ids []string) error {
	missing, err := uc.businesses.ListIDsWithoutInvite(ctx, ids)
	if err != nil {
		return fmt.Errorf("integration invites: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}
	now := uc.now()
	seen := make(map[string]struct{}, len(missing))
	invites := make([]*entity.CampaignInvite, 0, len(missing))
	for _, id := range missing {
		token := uc.newToken()
		for {
			if _, dup := seen[token]; !dup {
				break
			}
			token = uc.newToken()
		}
		seen[token] = struct{}{}
		invites = append(invites, &entity.CampaignInvite{
			ID:         uuid.New().String(),
			BusinessID: id,
			Token:      token,
			CreatedAt:  now,
		})
	}
	created, err := uc.invites.CreateMany(ctx, invites)
	if err != nil {
		return fmt.Errorf("integration invites: %w", err)
	}
	uc.log.Info().Int("missing", len(missing)).Int("created", created).Msg("invitaciones creadas")
	return nil
}

// RecordEvent registra email_sent, visit o rsvp sobre la invitación identificada por
// token o businessId. Un rsvp además deja una nota EMAIL en la misma transacción.
func (uc *UseCase) RecordEvent(ctx context.Context, in dto.IntegrationEventRequest) error {
	event := entity.CampaignEvent(in.Type)
	if !event.Valid() {
		return fmt.Errorf("tipo de evento %q: %w", in.Type, domain.ErrInvalidInput)
	}
	token, businessID := strings.TrimSpace(in.Token), strings.TrimSpace(in.BusinessID)
	if token == "" && businessID == "" {
		return fmt.Errorf("token o businessId requerido: %w", domain.ErrInvalidInput)
	}

	var (
		invite *entity.CampaignInvite
		err    error
	)
	if token != "" {
		invite, err = uc.invites.GetByToken(ctx, token)
	} else {
		invite, err = uc.invites.GetByBusinessID(ctx, businessID)
	}
	if err != nil {
		return fmt.Errorf("integration event: %w", err)
	}
	if invite == nil {
		return domain.ErrInviteNotFound
	}

	meta := normalizeMeta(in.Meta)
	now := uc.now()

	if event != entity.CampaignEventRSVP {
		if err := uc.invites.RecordEvent(ctx, invite.ID, event, meta, now); err != nil {
			return fmt.Errorf("integration event: %w", err)
		}
		metrics.IncIntegrationEvent(string(event))
		return nil
	}

	err = uc.tx.Run(ctx, func(r ports.TxRepos) error {
		if err := r.Invites.RecordEvent(ctx, invite.ID, event, meta, now); err != nil {
			return err
		}
		return r.Notes.Create(ctx, &entity.Note{
			ID:         uuid.New().String(),
			BusinessID: invite.BusinessID,
			Content:    rsvpNote(meta),
			Type:       entity.NoteTypeEmail,
			CreatedBy:  noteAuthor,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	})
	if err != nil {
		return fmt.Errorf("integration rsvp: %w", err)
	}
	metrics.IncIntegrationEvent(string(event))
	return nil
}

// normalizeMeta descarta meta ausente o null.
func normalizeMeta(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return trimmed
}

// rsvpNote usa meta.note si viene; si no, un texto fijo con meta.rsvpId cuando existe.
func rsvpNote(meta json.RawMessage) string {
	var m map[string]any
	if meta != nil {
		_ = json.Unmarshal(meta, &m)
	}
	if note, ok := m["note"].(string); ok {
		if note = strings.TrimSpace(note); note != "" {
			return note
		}
	}
	content := "RSVP recorded via integration"
	if id, ok := m["rsvpId"]; ok && id != nil {
		if s := fmt.Sprint(id); s != "" {
			content += " (rsvp: " + s + ")"
		}
	}
	return content
}

func toIntegrationBusiness(b *entity.BusinessWithRelations) dto.IntegrationBusiness {
	website := b.GoogleOfficialWebsite
	if website == "" {
		website = b.WebsiteFound
	}
	out := dto.IntegrationBusiness{
		ID:        b.ID,
		Name:      b.BusinessName,
		Address:   b.GoogleAddress,
		Website:   website,
		CreatedAt: b.CreatedAt,
		Contact:   dto.IntegrationContact{Tags: []string{}},
	}
	if ed := b.EditableData; ed != nil {
		out.Contact.PrimaryEmail = nonEmpty(ed.PrimaryEmail)
		out.Contact.AlternateEmail = nonEmpty(ed.AlternateEmail)
		out.Contact.ContactPerson = nonEmpty(ed.ContactPerson)
		if ed.Tags != nil {
			out.Contact.Tags = ed.Tags
		}
	}
	if li := b.LeadInfo; li != nil {
		status, priority, assigned := string(li.Status), string(li.Priority), li.AssignedTo
		out.Lead = dto.IntegrationLead{
			Status:           &status,
			Priority:         &priority,
			AssignedTo:       &assigned,
			NextFollowUpDate: li.NextFollowUpDate,
		}
	}
	if inv := b.Invite; inv != nil {
		out.Invite = &dto.IntegrationInvite{
			Token:         inv.Token,
			EmailsSent:    inv.EmailsSent,
			LastEmailSent: inv.LastEmailSent,
			VisitsCount:   inv.VisitsCount,
			LastVisitedAt: inv.LastVisitedAt,
			RsvpsCount:    inv.RsvpsCount,
			LastRsvpAt:    inv.LastRsvpAt,
			LastEmailMeta: inv.LastEmailMeta,
			LastVisitMeta: inv.LastVisitMeta,
			LastRsvpMeta:  inv.LastRsvpMeta,
		}
	}
	return out
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return defaultLimit
	}
	return min(n, maxLimit)
}

func parseBool(raw string) bool {
	return raw == "1" || strings.EqualFold(raw, "true")
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
