// Package crm casos de uso del CRM de negocios: listado con filtros, detalle,
// edición del lead y del overlay, notas y metadatos para los filtros.
package crm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/leadmine-api/internal/application/dto"
	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
)

const (
	defaultLimit    = 20
	maxLimit        = 100
	listNotesLimit  = 3
	patchNotesLimit = 5
)

// UseCase casos de uso del CRM.
type UseCase struct {
	businesses repository.BusinessRepository
	editable   repository.EditableDataRepository
	leadInfo   repository.LeadInfoRepository
	notes      repository.NoteRepository
	tx         ports.TxRunner
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	businesses repository.BusinessRepository,
	editable repository.EditableDataRepository,
	leadInfo repository.LeadInfoRepository,
	notes repository.NoteRepository,
	tx ports.TxRunner,
) *UseCase {
	return &UseCase{
		businesses: businesses,
		editable:   editable,
		leadInfo:   leadInfo,
		notes:      notes,
		tx:         tx,
		now:        time.Now,
	}
}

// List listado paginado, más recientes primero, con las últimas notas de cada negocio.
func (uc *UseCase) List(ctx context.Context, in dto.BusinessListRequest) (*dto.BusinessListResponse, error) {
	page := positiveInt(in.Page, 1)
	limit := min(positiveInt(in.Limit, defaultLimit), maxLimit)

	f := repository.BusinessListFilter{
		Search:     strings.TrimSpace(in.Search),
		AssignedTo: strings.TrimSpace(in.AssignedTo),
		Tags:       splitList(in.Tags),
		Limit:      limit,
		Offset:     (page - 1) * limit,
		NotesLimit: listNotesLimit,
	}
	if s := entity.LeadStatus(in.Status); s.Valid() {
		f.Status = s
	}
	if p := entity.Priority(in.Priority); p.Valid() {
		f.Priority = p
	}
	switch in.HasNotes {
	case "true":
		v := true
		f.HasNotes = &v
	case "false":
		v := false
		f.HasNotes = &v
	}
	if t, err := parseDate(in.DateFrom); err == nil {
		f.DateFrom = t
	}
	if t, err := parseDate(in.DateTo); err == nil {
		f.DateTo = t
	}

	list, total, err := uc.businesses.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("crm list: %w", err)
	}
	out := make([]dto.BusinessResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBusinessResponse(b))
	}
	totalPages := (total + limit - 1) / limit
	return &dto.BusinessListResponse{
		Businesses: out,
		Pagination: dto.PaginationResponse{
			Page:       page,
			Limit:      limit,
			TotalCount: total,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// Get negocio con todas sus notas. ErrNotFound si no existe.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.BusinessEnvelope, error) {
	return uc.envelope(ctx, id, 0)
}

func (uc *UseCase) envelope(ctx context.Context, id string, notesLimit int) (*dto.BusinessEnvelope, error) {
	b, err := uc.businesses.GetWithRelations(ctx, id, notesLimit)
	if err != nil {
		return nil, fmt.Errorf("crm get: %w", err)
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.BusinessEnvelope{Business: toBusinessResponse(b)}, nil
}

// Patch actualiza lead y overlay en una transacción. Un lead nuevo queda asignado a username.
func (uc *UseCase) Patch(ctx context.Context, id, username string, in dto.BusinessPatchRequest) (*dto.BusinessEnvelope, error) {
	exists, err := uc.businesses.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("crm patch: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	now := uc.now()

	err = uc.tx.Run(ctx, func(r ports.TxRepos) error {
		if p := in.LeadInfo; p != nil {
			li, err := r.LeadInfo.GetByBusinessID(ctx, id)
			if err != nil {
				return err
			}
			if li == nil {
				li = entity.NewLeadInfo(uuid.New().String(), id, username, entity.LeadSourceManualEntry, now)
			}
			if err := applyLeadPatch(li, p); err != nil {
				return err
			}
			li.UpdatedAt = now
			if err := r.LeadInfo.Upsert(ctx, li); err != nil {
				return err
			}
		}
		if p := in.EditableData; p != nil {
			ed, err := r.EditableData.GetByBusinessID(ctx, id)
			if err != nil {
				return err
			}
			if ed == nil {
				ed = entity.NewEditableData(uuid.New().String(), id, now)
			}
			applyEditablePatch(ed, p)
			ed.UpdatedAt = now
			if err := r.EditableData.Upsert(ctx, ed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("crm patch: %w", err)
	}
	return uc.envelope(ctx, id, patchNotesLimit)
}

func applyLeadPatch(li *entity.LeadInfo, p *dto.LeadInfoPatch) error {
	if p.Status != nil {
		s := entity.LeadStatus(*p.Status)
		if !s.Valid() {
			return domain.ErrInvalidInput
		}
		li.Status = s
	}
	if p.Priority != nil {
		pr := entity.Priority(*p.Priority)
		if !pr.Valid() {
			return domain.ErrInvalidInput
		}
		li.Priority = pr
	}
	if p.AssignedTo != nil {
		li.AssignedTo = *p.AssignedTo
	}
	if p.EstimatedValue != nil {
		li.EstimatedValue = decimal.NewFromFloat(*p.EstimatedValue)
	}
	// Fechas vacías no modifican el valor actual.
	for _, d := range []struct {
		raw *string
		dst **time.Time
	}{
		{p.ExpectedCloseDate, &li.ExpectedCloseDate},
		{p.LastContactDate, &li.LastContactDate},
		{p.NextFollowUpDate, &li.NextFollowUpDate},
	} {
		if d.raw == nil || *d.raw == "" {
			continue
		}
		t, err := parseDate(*d.raw)
		if err != nil {
			return err
		}
		*d.dst = t
	}
	return nil
}

func applyEditablePatch(ed *entity.EditableData, p *dto.EditableDataPatch) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&ed.PrimaryPhone, p.PrimaryPhone)
	set(&ed.PrimaryEmail, p.PrimaryEmail)
	set(&ed.ContactPerson, p.ContactPerson)
	set(&ed.AlternatePhone, p.AlternatePhone)
	set(&ed.AlternateEmail, p.AlternateEmail)
	set(&ed.Notes, p.Notes)
	if p.Tags != nil {
		ed.Tags = append([]string{}, (*p.Tags)...)
	}
}

// ListNotes notas del negocio, más recientes primero.
func (uc *UseCase) ListNotes(ctx context.Context, businessID string) (*dto.NotesResponse, error) {
	exists, err := uc.businesses.Exists(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("crm notes: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	list, err := uc.notes.ListByBusiness(ctx, businessID, 0)
	if err != nil {
		return nil, fmt.Errorf("crm notes: %w", err)
	}
	return &dto.NotesResponse{Notes: toNoteResponses(list)}, nil
}

// CreateNote registra una nota. Llamadas y reuniones actualizan la fecha de último contacto.
func (uc *UseCase) CreateNote(ctx context.Context, businessID, username string, in dto.CreateNoteRequest) (*dto.NoteEnvelope, error) {
	if in.Content == "" {
		return nil, domain.ErrInvalidInput
	}
	typ := entity.NoteTypeGeneral
	if in.Type != "" {
		typ = entity.NoteType(in.Type)
		if !typ.Valid() {
			return nil, domain.ErrInvalidInput
		}
	}
	exists, err := uc.businesses.Exists(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("crm create note: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	note := &entity.Note{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Content:    in.Content,
		Type:       typ,
		CreatedBy:  username,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.tx.Run(ctx, func(r ports.TxRepos) error {
		if err := r.Notes.Create(ctx, note); err != nil {
			return err
		}
		if typ.CountsAsContact() {
			return r.LeadInfo.TouchLastContact(ctx, businessID, now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("crm create note: %w", err)
	}
	return &dto.NoteEnvelope{Note: toNoteResponse(note)}, nil
}

// Metadata responsables y tags distintos para poblar los filtros.
func (uc *UseCase) Metadata(ctx context.Context) (*dto.MetadataResponse, error) {
	assignees, err := uc.leadInfo.ListAssignees(ctx)
	if err != nil {
		return nil, fmt.Errorf("crm metadata: %w", err)
	}
	tags, err := uc.editable.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("crm metadata: %w", err)
	}
	if assignees == nil {
		assignees = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return &dto.MetadataResponse{Assignees: assignees, Tags: tags}, nil
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
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

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseDate acepta ISO-8601 con o sin zona y fechas simples (UTC).
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("fecha %q: %w", raw, domain.ErrInvalidInput)
}
