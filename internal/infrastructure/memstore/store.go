// Package memstore implementa los puertos de repositorio en memoria.
// Lo usan los tests de casos de uso y handlers; replica la semántica de los
// adaptadores PostgreSQL (nil, nil si no existe; orden de los listados).
package memstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
)

// Store estado en memoria. Err, si no es nil, lo devuelven todas las operaciones.
type Store struct {
	mu sync.Mutex

	businesses map[string]entity.Business
	editable   map[string]entity.EditableData // por business_id
	leads      map[string]entity.LeadInfo     // por business_id
	notes      []entity.Note
	invites    map[string]entity.CampaignInvite // por business_id

	Err error
	// TxCount cuántas transacciones se confirmaron; TxRollbacks cuántas se revirtieron.
	TxCount     int
	TxRollbacks int
}

// New store vacío.
func New() *Store {
	return &Store{
		businesses: map[string]entity.Business{},
		editable:   map[string]entity.EditableData{},
		leads:      map[string]entity.LeadInfo{},
		invites:    map[string]entity.CampaignInvite{},
	}
}

// ── Carga de fixtures ────────────────────────────────────────────────────────

// AddBusiness agrega un negocio; CreatedAt vacío se completa con un instante creciente.
func (s *Store) AddBusiness(b entity.Business) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Date(2024, 1, 1, 0, 0, len(s.businesses), 0, time.UTC)
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	s.businesses[b.ID] = b
	return s
}

// PutEditable guarda un overlay tal cual.
func (s *Store) PutEditable(ed entity.EditableData) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editable[ed.BusinessID] = cloneEditable(ed)
	return s
}

// PutLead guarda un lead tal cual.
func (s *Store) PutLead(li entity.LeadInfo) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[li.BusinessID] = li
	return s
}

// PutNote agrega una nota.
func (s *Store) PutNote(n entity.Note) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
	return s
}

// PutInvite guarda una invitación.
func (s *Store) PutInvite(inv entity.CampaignInvite) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invites[inv.BusinessID] = inv
	return s
}

// ── Inspección ───────────────────────────────────────────────────────────────

// Editable overlay guardado del negocio (nil si no hay).
func (s *Store) Editable(businessID string) *entity.EditableData {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editable[businessID]
	if !ok {
		return nil
	}
	c := cloneEditable(ed)
	return &c
}

// Lead lead guardado del negocio (nil si no hay).
func (s *Store) Lead(businessID string) *entity.LeadInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	li, ok := s.leads[businessID]
	if !ok {
		return nil
	}
	return &li
}

// Notes notas del negocio en orden de inserción.
func (s *Store) Notes(businessID string) []entity.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Note
	for _, n := range s.notes {
		if n.BusinessID == businessID {
			out = append(out, n)
		}
	}
	return out
}

// Invite invitación del negocio (nil si no hay).
func (s *Store) Invite(businessID string) *entity.CampaignInvite {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invites[businessID]
	if !ok {
		return nil
	}
	return &inv
}

// ── Adaptadores ──────────────────────────────────────────────────────────────

// Businesses repositorio de negocios.
func (s *Store) Businesses() repository.BusinessRepository { return businessRepo{s} }

// EditableData repositorio de overlays.
func (s *Store) EditableData() repository.EditableDataRepository { return editableRepo{s} }

// LeadInfo repositorio de leads.
func (s *Store) LeadInfo() repository.LeadInfoRepository { return leadRepo{s} }

// NotesRepo repositorio de notas.
func (s *Store) NotesRepo() repository.NoteRepository { return noteRepo{s} }

// Invites repositorio de invitaciones.
func (s *Store) Invites() repository.CampaignInviteRepository { return inviteRepo{s} }

// Tx runner transaccional: si fn falla se restaura el estado previo.
func (s *Store) Tx() ports.TxRunner { return txRunner{s} }

func (s *Store) repos() ports.TxRepos {
	return ports.TxRepos{
		Businesses:   s.Businesses(),
		EditableData: s.EditableData(),
		LeadInfo:     s.LeadInfo(),
		Notes:        s.NotesRepo(),
		Invites:      s.Invites(),
	}
}

type txRunner struct{ s *Store }

func (t txRunner) Run(ctx context.Context, fn func(ports.TxRepos) error) error {
	if t.s.Err != nil {
		return t.s.Err
	}
	snap := t.s.snapshot()
	if err := fn(t.s.repos()); err != nil {
		t.s.restore(snap)
		t.s.mu.Lock()
		t.s.TxRollbacks++
		t.s.mu.Unlock()
		return err
	}
	t.s.mu.Lock()
	t.s.TxCount++
	t.s.mu.Unlock()
	return nil
}

type snapshot struct {
	editable map[string]entity.EditableData
	leads    map[string]entity.LeadInfo
	notes    []entity.Note
	invites  map[string]entity.CampaignInvite
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		editable: make(map[string]entity.EditableData, len(s.editable)),
		leads:    make(map[string]entity.LeadInfo, len(s.leads)),
		notes:    append([]entity.Note(nil), s.notes...),
		invites:  make(map[string]entity.CampaignInvite, len(s.invites)),
	}
	for k, v := range s.editable {
		snap.editable[k] = cloneEditable(v)
	}
	for k, v := range s.leads {
		snap.leads[k] = v
	}
	for k, v := range s.invites {
		snap.invites[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editable = snap.editable
	s.leads = snap.leads
	s.notes = snap.notes
	s.invites = snap.invites
}

// relations arma la vista con relaciones. Llamar con mu tomado.
func (s *Store) relations(b entity.Business, notesLimit int, withInvite bool) *entity.BusinessWithRelations {
	out := &entity.BusinessWithRelations{Business: b}
	if ed, ok := s.editable[b.ID]; ok {
		c := cloneEditable(ed)
		out.EditableData = &c
	}
	if li, ok := s.leads[b.ID]; ok {
		c := li
		out.LeadInfo = &c
	}
	if notesLimit >= 0 {
		out.Notes = s.latestNotes(b.ID, notesLimit)
	}
	if withInvite {
		if inv, ok := s.invites[b.ID]; ok {
			c := inv
			out.Invite = &c
		}
	}
	return out
}

// latestNotes más recientes primero; limit 0 = todas.
func (s *Store) latestNotes(businessID string, limit int) []*entity.Note {
	var list []*entity.Note
	for i := len(s.notes) - 1; i >= 0; i-- {
		if s.notes[i].BusinessID == businessID {
			n := s.notes[i]
			list = append(list, &n)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	if list == nil {
		list = []*entity.Note{}
	}
	return list
}

// sortedBusinesses por (created_at, id) ascendente. Llamar con mu tomado.
func (s *Store) sortedBusinesses() []entity.Business {
	out := make([]entity.Business, 0, len(s.businesses))
	for _, b := range s.businesses {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneEditable(ed entity.EditableData) entity.EditableData {
	ed.Tags = append([]string{}, ed.Tags...)
	if ed.CustomFields != nil {
		m := make(map[string]any, len(ed.CustomFields))
		for k, v := range ed.CustomFields {
			m[k] = v
		}
		ed.CustomFields = m
	}
	return ed
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ── Negocios ─────────────────────────────────────────────────────────────────

type businessRepo struct{ s *Store }

var _ repository.BusinessRepository = businessRepo{}

func (r businessRepo) Exists(_ context.Context, id string) (bool, error) {
	if r.s.Err != nil {
		return false, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.businesses[id]
	return ok, nil
}

func (r businessRepo) GetWithRelations(_ context.Context, id string, notesLimit int) (*entity.BusinessWithRelations, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, nil
	}
	return r.s.relations(b, notesLimit, false), nil
}

func (r businessRepo) SearchForViewer(_ context.Context, search string) ([]*entity.BusinessWithRelations, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search = strings.TrimSpace(search)
	var out []*entity.BusinessWithRelations
	for _, b := range r.s.sortedBusinesses() {
		if search != "" && !containsFold(b.BusinessName, search) && !containsFold(b.GoogleAddress, search) &&
			!containsFold(b.GooglePhone, search) && !containsFold(b.Description, search) {
			continue
		}
		out = append(out, r.s.relations(b, -1, false))
	}
	return out, nil
}

func (r businessRepo) List(_ context.Context, f repository.BusinessListFilter) ([]*entity.BusinessWithRelations, int, error) {
	if r.s.Err != nil {
		return nil, 0, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sorted := r.s.sortedBusinesses()
	var matched []entity.Business
	for i := len(sorted) - 1; i >= 0; i-- {
		if r.matches(sorted[i], f) {
			matched = append(matched, sorted[i])
		}
	}
	total := len(matched)
	start := min(max(f.Offset, 0), total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	out := make([]*entity.BusinessWithRelations, 0, end-start)
	for _, b := range matched[start:end] {
		limit := -1
		if f.NotesLimit > 0 {
			limit = f.NotesLimit
		}
		out = append(out, r.s.relations(b, limit, false))
	}
	return out, total, nil
}

func (r businessRepo) matches(b entity.Business, f repository.BusinessListFilter) bool {
	if s := strings.TrimSpace(f.Search); s != "" {
		if !containsFold(b.BusinessName, s) && !containsFold(b.GoogleAddress, s) &&
			!containsFold(b.GooglePhone, s) && !containsFold(b.Description, s) {
			return false
		}
	}
	li, hasLead := r.s.leads[b.ID]
	if f.Status != "" && (!hasLead || li.Status != f.Status) {
		return false
	}
	if f.Priority != "" && (!hasLead || li.Priority != f.Priority) {
		return false
	}
	if f.AssignedTo != "" && (!hasLead || li.AssignedTo != f.AssignedTo) {
		return false
	}
	if f.DateFrom != nil || f.DateTo != nil {
		if !hasLead || li.LastContactDate == nil {
			return false
		}
		if f.DateFrom != nil && li.LastContactDate.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && li.LastContactDate.After(*f.DateTo) {
			return false
		}
	}
	if len(f.Tags) > 0 {
		ed, ok := r.s.editable[b.ID]
		if !ok {
			return false
		}
		for _, t := range f.Tags {
			if !ed.HasTag(t) {
				return false
			}
		}
	}
	if f.HasNotes != nil {
		has := false
		for _, n := range r.s.notes {
			if n.BusinessID == b.ID {
				has = true
				break
			}
		}
		if has != *f.HasNotes {
			return false
		}
	}
	return true
}

func (r businessRepo) ListBatch(_ context.Context, after *repository.BatchCursor, take int) ([]*entity.BusinessWithRelations, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BusinessWithRelations
	for _, b := range r.s.sortedBusinesses() {
		if after != nil {
			if b.CreatedAt.Before(after.CreatedAt) || (b.CreatedAt.Equal(after.CreatedAt) && b.ID <= after.ID) {
				continue
			}
		}
		out = append(out, r.s.relations(b, -1, false))
		if len(out) == take {
			break
		}
	}
	return out, nil
}

func (r businessRepo) ListNames(_ context.Context) ([]repository.BusinessName, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]repository.BusinessName, 0, len(r.s.businesses))
	for _, b := range r.s.businesses {
		out = append(out, repository.BusinessName{ID: b.ID, Name: b.BusinessName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r businessRepo) ListForIntegration(_ context.Context, f repository.IntegrationFilter) ([]*entity.BusinessWithRelations, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := make([]string, 0, len(r.s.businesses))
	for id := range r.s.businesses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*entity.BusinessWithRelations
	for _, id := range ids {
		if len(f.IDs) > 0 && !contains(f.IDs, id) {
			continue
		}
		if f.Cursor != "" && id <= f.Cursor {
			continue
		}
		ed, hasEd := r.s.editable[id]
		if f.HasEmail && (!hasEd || (ed.PrimaryEmail == "" && ed.AlternateEmail == "")) {
			continue
		}
		b := r.s.businesses[id]
		if s := strings.TrimSpace(f.Search); s != "" {
			hit := containsFold(b.BusinessName, s) || containsFold(b.GoogleAddress, s) ||
				(hasEd && (containsFold(ed.ContactPerson, s) || ed.HasTag(s)))
			if !hit {
				continue
			}
		}
		out = append(out, r.s.relations(b, -1, true))
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r businessRepo) ListIDsWithoutInvite(_ context.Context, ids []string) ([]string, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for id := range r.s.businesses {
		if _, ok := r.s.invites[id]; ok {
			continue
		}
		if len(ids) > 0 && !contains(ids, id) {
			continue
		}
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r businessRepo) Coverage(_ context.Context) (*repository.Coverage, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c repository.Coverage
	var ratingSum float64
	for _, b := range r.s.businesses {
		c.Total++
		if b.GooglePhone != "" || anyPhone(b) {
			c.WithPhone++
		}
		if b.SocialFacebook != "" || b.SocialInstagram != "" || b.SocialLinkedin != "" ||
			b.SocialTwitter != "" || b.SocialYoutube != "" || b.SocialTiktok != "" {
			c.WithSocial++
		}
		if b.GoogleReviewsCount > 0 {
			c.WithReviews++
		}
		if b.GoogleOfficialWebsite != "" {
			c.WithWebsite++
		}
		ratingSum += b.GoogleRating
	}
	if c.Total > 0 {
		c.AvgRating = ratingSum / float64(c.Total)
	}
	return &c, nil
}

func anyPhone(b entity.Business) bool {
	for _, p := range b.Phones {
		if p.Number != "" {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ── Overlay ──────────────────────────────────────────────────────────────────

type editableRepo struct{ s *Store }

var _ repository.EditableDataRepository = editableRepo{}

func (r editableRepo) GetByBusinessID(_ context.Context, businessID string) (*entity.EditableData, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.s.Editable(businessID), nil
}

func (r editableRepo) Upsert(_ context.Context, ed *entity.EditableData) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[ed.BusinessID]; !ok {
		return domain.ErrNotFound
	}
	r.s.editable[ed.BusinessID] = cloneEditable(*ed)
	return nil
}

func (r editableRepo) ListTags(_ context.Context) ([]string, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, ed := range r.s.editable {
		for _, t := range ed.Tags {
			if t != "" && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// ── Leads ────────────────────────────────────────────────────────────────────

type leadRepo struct{ s *Store }

var _ repository.LeadInfoRepository = leadRepo{}

func (r leadRepo) GetByBusinessID(_ context.Context, businessID string) (*entity.LeadInfo, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.s.Lead(businessID), nil
}

func (r leadRepo) Upsert(_ context.Context, li *entity.LeadInfo) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[li.BusinessID]; !ok {
		return domain.ErrNotFound
	}
	r.s.leads[li.BusinessID] = *li
	return nil
}

func (r leadRepo) TouchLastContact(_ context.Context, businessID string, at time.Time) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	li, ok := r.s.leads[businessID]
	if !ok {
		return nil
	}
	li.LastContactDate = &at
	li.UpdatedAt = at
	r.s.leads[businessID] = li
	return nil
}

func (r leadRepo) ListAssignees(_ context.Context) ([]string, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, li := range r.s.leads {
		if li.AssignedTo != "" && !seen[li.AssignedTo] {
			seen[li.AssignedTo] = true
			out = append(out, li.AssignedTo)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ── Notas ────────────────────────────────────────────────────────────────────

type noteRepo struct{ s *Store }

var _ repository.NoteRepository = noteRepo{}

func (r noteRepo) Create(_ context.Context, n *entity.Note) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[n.BusinessID]; !ok {
		return domain.ErrNotFound
	}
	r.s.notes = append(r.s.notes, *n)
	return nil
}

func (r noteRepo) ListByBusiness(_ context.Context, businessID string, limit int) ([]*entity.Note, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.latestNotes(businessID, limit), nil
}

// ── Invitaciones ─────────────────────────────────────────────────────────────

type inviteRepo struct{ s *Store }

var _ repository.CampaignInviteRepository = inviteRepo{}

func (r inviteRepo) GetByToken(_ context.Context, token string) (*entity.CampaignInvite, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invites {
		if inv.Token == token {
			c := inv
			return &c, nil
		}
	}
	return nil, nil
}

func (r inviteRepo) GetByBusinessID(_ context.Context, businessID string) (*entity.CampaignInvite, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.s.Invite(businessID), nil
}

func (r inviteRepo) CreateMany(_ context.Context, invites []*entity.CampaignInvite) (int, error) {
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created := 0
	for _, inv := range invites {
		if _, ok := r.s.invites[inv.BusinessID]; ok {
			continue
		}
		r.s.invites[inv.BusinessID] = *inv
		created++
	}
	return created, nil
}

func (r inviteRepo) RecordEvent(_ context.Context, id string, event entity.CampaignEvent, meta json.RawMessage, at time.Time) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	if !event.Valid() {
		return errors.Join(domain.ErrInvalidInput, errors.New("evento desconocido: "+string(event)))
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for bid, inv := range r.s.invites {
		if inv.ID != id {
			continue
		}
		switch event {
		case entity.CampaignEventEmailSent:
			inv.EmailsSent++
			inv.LastEmailSent = &at
			if meta != nil {
				inv.LastEmailMeta = meta
			}
		case entity.CampaignEventVisit:
			inv.VisitsCount++
			inv.LastVisitedAt = &at
			if meta != nil {
				inv.LastVisitMeta = meta
			}
		case entity.CampaignEventRSVP:
			inv.RsvpsCount++
			inv.LastRsvpAt = &at
			if meta != nil {
				inv.LastRsvpMeta = meta
			}
		}
		r.s.invites[bid] = inv
		return nil
	}
	return domain.ErrInviteNotFound
}
