package crm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadmine-api/internal/application/dto"
	"github.com/jhoicas/leadmine-api/internal/domain"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/memstore"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newUseCase(store *memstore.Store) *UseCase {
	uc := NewUseCase(store.Businesses(), store.EditableData(), store.LeadInfo(), store.NotesRepo(), store.Tx())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func seed(n int) *memstore.Store {
	s := memstore.New()
	for i := 1; i <= n; i++ {
		s.AddBusiness(entity.Business{ID: fmt.Sprintf("b%02d", i), BusinessName: fmt.Sprintf("Negocio %02d", i)})
	}
	return s
}

func strPtr(s string) *string { return &s }

// ─── List ────────────────────────────────────────────────────────────────────

func TestList_PaginacionYOrden(t *testing.T) {
	uc := newUseCase(seed(5))

	res, err := uc.List(context.Background(), dto.BusinessListRequest{Page: "2", Limit: "2"})
	require.NoError(t, err)

	require.Len(t, res.Businesses, 2)
	assert.Equal(t, "b03", res.Businesses[0].ID, "más recientes primero")
	assert.Equal(t, "b02", res.Businesses[1].ID)
	assert.Equal(t, dto.PaginationResponse{
		Page: 2, Limit: 2, TotalCount: 5, Total: 5, TotalPages: 3, HasNext: true, HasPrev: true,
	}, res.Pagination)
}

func TestList_ValoresInvalidosCaenAlDefecto(t *testing.T) {
	uc := newUseCase(seed(1))
	res, err := uc.List(context.Background(), dto.BusinessListRequest{Page: "x", Limit: "-3", Status: "all", Priority: "nope"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pagination.Page)
	assert.Equal(t, 20, res.Pagination.Limit)
	assert.Len(t, res.Businesses, 1)
}

func TestList_Filtros(t *testing.T) {
	s := seed(3)
	li := entity.NewLeadInfo("l1", "b01", "ana", entity.LeadSourceManualEntry, fixedNow)
	li.Status = entity.LeadStatusQualified
	contact := fixedNow.Add(-24 * time.Hour)
	li.LastContactDate = &contact
	s.PutLead(*li)
	s.PutLead(*entity.NewLeadInfo("l2", "b02", "luis", entity.LeadSourceManualEntry, fixedNow))
	ed := entity.NewEditableData("e1", "b01", fixedNow)
	ed.Tags = []string{"vip", "norte"}
	s.PutEditable(*ed)
	s.PutNote(entity.Note{ID: "n1", BusinessID: "b01", Content: "hola", Type: entity.NoteTypeGeneral, CreatedAt: fixedNow})

	uc := newUseCase(s)
	cases := []struct {
		name string
		in   dto.BusinessListRequest
		want []string
	}{
		{"status", dto.BusinessListRequest{Status: "QUALIFIED"}, []string{"b01"}},
		{"assignedTo", dto.BusinessListRequest{AssignedTo: "luis"}, []string{"b02"}},
		{"tags todos requeridos", dto.BusinessListRequest{Tags: "vip, norte"}, []string{"b01"}},
		{"tag ausente", dto.BusinessListRequest{Tags: "vip,sur"}, []string{}},
		{"con notas", dto.BusinessListRequest{HasNotes: "true"}, []string{"b01"}},
		{"sin notas", dto.BusinessListRequest{HasNotes: "false"}, []string{"b03", "b02"}},
		{"rango de contacto", dto.BusinessListRequest{DateFrom: "2024-05-30", DateTo: "2024-06-01"}, []string{"b01"}},
		{"fecha inválida se ignora", dto.BusinessListRequest{DateFrom: "ayer"}, []string{"b03", "b02", "b01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := uc.List(context.Background(), tc.in)
			require.NoError(t, err)
			got := []string{}
			for _, b := range res.Businesses {
				got = append(got, b.ID)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestList_IncluyeUltimasTresNotas(t *testing.T) {
	s := seed(1)
	for i := 0; i < 5; i++ {
		s.PutNote(entity.Note{ID: fmt.Sprintf("n%d", i), BusinessID: "b01", Type: entity.NoteTypeGeneral, CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute)})
	}
	res, err := newUseCase(s).List(context.Background(), dto.BusinessListRequest{})
	require.NoError(t, err)
	notes := res.Businesses[0].Notes
	require.Len(t, notes, 3)
	assert.Equal(t, "n4", notes[0].ID)
}

// ─── Get / Patch ─────────────────────────────────────────────────────────────

func TestGet_NoEncontrado(t *testing.T) {
	_, err := newUseCase(seed(0)).Get(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatch_CreaLeadConDefectos(t *testing.T) {
	s := seed(1)
	uc := newUseCase(s)
	value := 1500.5

	res, err := uc.Patch(context.Background(), "b01", "ana", dto.BusinessPatchRequest{
		LeadInfo: &dto.LeadInfoPatch{
			Priority:         strPtr("HIGH"),
			EstimatedValue:   &value,
			NextFollowUpDate: strPtr("2024-07-01T09:00:00Z"),
		},
		EditableData: &dto.EditableDataPatch{
			PrimaryEmail: strPtr("hola@negocio.com"),
			Tags:         &[]string{"vip"},
		},
	})
	require.NoError(t, err)

	li := res.Business.LeadInfo
	require.NotNil(t, li)
	assert.Equal(t, "NEW", li.Status)
	assert.Equal(t, "HIGH", li.Priority)
	assert.Equal(t, "ana", li.AssignedTo)
	assert.Equal(t, entity.LeadSourceManualEntry, li.Source)
	assert.Equal(t, "1500.5", li.EstimatedValue.String())
	require.NotNil(t, li.NextFollowUpDate)
	assert.Equal(t, time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC), li.NextFollowUpDate.UTC())

	ed := res.Business.EditableData
	require.NotNil(t, ed)
	assert.Equal(t, "hola@negocio.com", ed.PrimaryEmail)
	assert.Equal(t, []string{"vip"}, ed.Tags)
	assert.Equal(t, 1, s.TxCount)
}

func TestPatch_ActualizaSoloLoEnviado(t *testing.T) {
	s := seed(1)
	li := entity.NewLeadInfo("l1", "b01", "luis", entity.LeadSourceBackfill, fixedNow.Add(-time.Hour))
	s.PutLead(*li)
	ed := entity.NewEditableData("e1", "b01", fixedNow)
	ed.ContactPerson = "Marta"
	ed.Tags = []string{"a"}
	s.PutEditable(*ed)

	_, err := newUseCase(s).Patch(context.Background(), "b01", "ana", dto.BusinessPatchRequest{
		LeadInfo:     &dto.LeadInfoPatch{Status: strPtr("CONTACTED")},
		EditableData: &dto.EditableDataPatch{Notes: strPtr("ok")},
	})
	require.NoError(t, err)

	got := s.Lead("b01")
	assert.Equal(t, entity.LeadStatusContacted, got.Status)
	assert.Equal(t, "luis", got.AssignedTo)
	assert.Equal(t, entity.LeadSourceBackfill, got.Source)
	assert.Equal(t, fixedNow, got.UpdatedAt)

	gotEd := s.Editable("b01")
	assert.Equal(t, "Marta", gotEd.ContactPerson)
	assert.Equal(t, "ok", gotEd.Notes)
	assert.Equal(t, []string{"a"}, gotEd.Tags)
}

func TestPatch_FechaInvalidaRevierte(t *testing.T) {
	s := seed(1)
	_, err := newUseCase(s).Patch(context.Background(), "b01", "ana", dto.BusinessPatchRequest{
		LeadInfo: &dto.LeadInfoPatch{ExpectedCloseDate: strPtr("pronto")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, s.Lead("b01"))
	assert.Equal(t, 1, s.TxRollbacks)
}

func TestPatch_NegocioInexistente(t *testing.T) {
	_, err := newUseCase(seed(0)).Patch(context.Background(), "x", "ana", dto.BusinessPatchRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Notas ───────────────────────────────────────────────────────────────────

func TestCreateNote_LlamadaActualizaContacto(t *testing.T) {
	s := seed(1)
	s.PutLead(*entity.NewLeadInfo("l1", "b01", "ana", entity.LeadSourceManualEntry, fixedNow.Add(-time.Hour)))
	uc := newUseCase(s)

	res, err := uc.CreateNote(context.Background(), "b01", "ana", dto.CreateNoteRequest{Content: "llamé", Type: "CALL"})
	require.NoError(t, err)
	assert.Equal(t, "CALL", res.Note.Type)
	assert.Equal(t, "ana", res.Note.CreatedBy)

	li := s.Lead("b01")
	require.NotNil(t, li.LastContactDate)
	assert.Equal(t, fixedNow, *li.LastContactDate)
}

func TestCreateNote_TipoPorDefectoNoTocaContacto(t *testing.T) {
	s := seed(1)
	s.PutLead(*entity.NewLeadInfo("l1", "b01", "ana", entity.LeadSourceManualEntry, fixedNow))
	res, err := newUseCase(s).CreateNote(context.Background(), "b01", "ana", dto.CreateNoteRequest{Content: "dato"})
	require.NoError(t, err)
	assert.Equal(t, "GENERAL", res.Note.Type)
	assert.Nil(t, s.Lead("b01").LastContactDate)
}

func TestCreateNote_Errores(t *testing.T) {
	uc := newUseCase(seed(1))
	_, err := uc.CreateNote(context.Background(), "b01", "ana", dto.CreateNoteRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateNote(context.Background(), "b01", "ana", dto.CreateNoteRequest{Content: "x", Type: "SMS"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateNote(context.Background(), "zz", "ana", dto.CreateNoteRequest{Content: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListNotes(t *testing.T) {
	s := seed(1)
	s.PutNote(entity.Note{ID: "old", BusinessID: "b01", CreatedAt: fixedNow.Add(-time.Hour)})
	s.PutNote(entity.Note{ID: "new", BusinessID: "b01", CreatedAt: fixedNow})
	res, err := newUseCase(s).ListNotes(context.Background(), "b01")
	require.NoError(t, err)
	require.Len(t, res.Notes, 2)
	assert.Equal(t, "new", res.Notes[0].ID)

	_, err = newUseCase(s).ListNotes(context.Background(), "zz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Metadata ────────────────────────────────────────────────────────────────

func TestMetadata(t *testing.T) {
	s := seed(2)
	s.PutLead(*entity.NewLeadInfo("l1", "b01", "ana", "", fixedNow))
	s.PutLead(*entity.NewLeadInfo("l2", "b02", "", "", fixedNow))
	ed := entity.NewEditableData("e1", "b01", fixedNow)
	ed.Tags = []string{"vip", "vip", "norte"}
	s.PutEditable(*ed)

	res, err := newUseCase(s).Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ana"}, res.Assignees)
	assert.Equal(t, []string{"norte", "vip"}, res.Tags)
}

func TestMetadata_Error(t *testing.T) {
	s := seed(0)
	s.Err = errors.New("db caída")
	_, err := newUseCase(s).Metadata(context.Background())
	assert.Error(t, err)
}
