package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/memstore"
	"github.com/jhoicas/leadmine-api/pkg/logger"
)

// ─── Fakes ───────────────────────────────────────────────────────────────────

type stubReader struct {
	rows []ports.RegistryRow
	err  error
}

func (r stubReader) Read(io.Reader) ([]ports.RegistryRow, error) { return r.rows, r.err }

func row(name, email string) ports.RegistryRow {
	return ports.RegistryRow{EntityName: name, ContactEmail: email}
}

func newStore() *memstore.Store {
	s := memstore.New()
	s.AddBusiness(entity.Business{ID: "b1", BusinessName: "Café Olé, LLC"})
	s.AddBusiness(entity.Business{ID: "b2", BusinessName: "Smith & Sons Plumbing"})
	s.AddBusiness(entity.Business{ID: "b3", BusinessName: "Twin Diner"})
	s.AddBusiness(entity.Business{ID: "b4", BusinessName: "TWIN DINER"})
	s.AddBusiness(entity.Business{ID: "b5", BusinessName: "---"})
	return s
}

func runSync(t *testing.T, store *memstore.Store, rows ...ports.RegistryRow) Report {
	t.Helper()
	uc := NewUseCase(stubReader{rows: rows}, store.Businesses(), store.Tx(), nil)
	rep, err := uc.Sync(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	return rep
}

// ─── Coincidencias ───────────────────────────────────────────────────────────

func TestSync_CreaOverlayConEmailYTag(t *testing.T) {
	store := newStore()
	rep := runSync(t, store, row("CAFE OLE LLC", "hola@cafeole.com"))

	assert.Equal(t, 1, rep.Matched)
	assert.Equal(t, 1, rep.Created)
	ed := store.Editable("b1")
	require.NotNil(t, ed)
	assert.Equal(t, "hola@cafeole.com", ed.PrimaryEmail)
	assert.Equal(t, []string{VerifiedEmailTag}, ed.Tags)
}

func TestSync_NombresSinCoincidenciaSeOmiten(t *testing.T) {
	store := newStore()
	rep := runSync(t, store, row("Nobody Inc", "x@y.com"), row("Smith and Sons Plumbing", "a@b.com"))

	assert.Equal(t, 2, rep.Skipped, "'and' no equivale a '&'")
	assert.Zero(t, rep.Matched)
}

func TestSync_DuplicadosSeReportanSinEscribir(t *testing.T) {
	store := newStore()
	rep := runSync(t, store, row("Twin Diner", "twin@diner.com"))

	require.Len(t, rep.Duplicates, 1)
	assert.Len(t, rep.Duplicates[0].Matches, 2)
	assert.Zero(t, rep.Matched)
	assert.Nil(t, store.Editable("b3"))
	assert.Nil(t, store.Editable("b4"))
}

func TestSync_FilasRepetidasSeDeduplican(t *testing.T) {
	store := newStore()
	rep := runSync(t, store,
		row("Café Olé, LLC", "first@cafe.com"),
		row("café olé, llc", "second@cafe.com"),
	)

	assert.Equal(t, 1, rep.Rows)
	assert.Equal(t, "first@cafe.com", store.Editable("b1").PrimaryEmail)
}

func TestSync_ClaveVaciaSeIgnora(t *testing.T) {
	store := newStore()
	rep := runSync(t, store, row("!!!", "x@y.com"))

	assert.Zero(t, rep.Skipped)
	assert.Nil(t, store.Editable("b5"), "un nombre sin caracteres útiles no coincide con nada")
}

// ─── Actualización del overlay ───────────────────────────────────────────────

func TestSync_PrincipalAnteriorPasaAAlternativo(t *testing.T) {
	cases := []struct {
		name          string
		primary       string
		alternate     string
		wantAlternate string
	}{
		{"alternativo vacío", "old@cafe.com", "", "old@cafe.com"},
		{"alternativo igual al nuevo", "old@cafe.com", "NEW@cafe.com", "old@cafe.com"},
		{"alternativo igual al anterior", "old@cafe.com", "OLD@cafe.com", "old@cafe.com"},
		{"alternativo distinto se conserva", "old@cafe.com", "other@cafe.com", "other@cafe.com"},
		{"sin principal no toca alternativo", "", "other@cafe.com", "other@cafe.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStore()
			store.PutEditable(entity.EditableData{
				ID: "e1", BusinessID: "b1",
				PrimaryEmail: tc.primary, AlternateEmail: tc.alternate,
				Tags: []string{"vip"},
			})
			rep := runSync(t, store, row("Cafe Ole LLC", "new@cafe.com"))

			assert.Equal(t, 1, rep.Updated)
			ed := store.Editable("b1")
			assert.Equal(t, "new@cafe.com", ed.PrimaryEmail)
			assert.Equal(t, tc.wantAlternate, ed.AlternateEmail)
			assert.Equal(t, []string{"vip", VerifiedEmailTag}, ed.Tags)
		})
	}
}

func TestSync_MismoEmailSoloAgregaTag(t *testing.T) {
	store := newStore()
	store.PutEditable(entity.EditableData{ID: "e1", BusinessID: "b1", PrimaryEmail: "Hola@CafeOle.com"})

	rep := runSync(t, store, row("Cafe Ole LLC", "hola@cafeole.com"))
	assert.Equal(t, 1, rep.Updated)
	ed := store.Editable("b1")
	assert.Equal(t, "Hola@CafeOle.com", ed.PrimaryEmail, "igual sin distinguir mayúsculas")
	assert.True(t, ed.HasTag(VerifiedEmailTag))
}

func TestSync_SinCambiosNoCuenta(t *testing.T) {
	store := newStore()
	store.PutEditable(entity.EditableData{
		ID: "e1", BusinessID: "b1",
		PrimaryEmail: "hola@cafeole.com",
		Tags:         []string{VerifiedEmailTag},
	})

	rep := runSync(t, store, row("Cafe Ole LLC", "hola@cafeole.com"))
	assert.Equal(t, 1, rep.Matched)
	assert.Zero(t, rep.Updated)
	assert.Zero(t, store.TxRollbacks)
}

// ─── Errores y log ───────────────────────────────────────────────────────────

func TestSync_ErrorDeLectura(t *testing.T) {
	store := newStore()
	uc := NewUseCase(stubReader{err: errors.New("no es xlsx")}, store.Businesses(), store.Tx(), nil)

	_, err := uc.Sync(context.Background(), strings.NewReader(""))
	assert.ErrorContains(t, err, "leer libro")
}

func TestSync_ErrorDeRepositorio(t *testing.T) {
	store := newStore()
	store.Err = errors.New("db caída")
	uc := NewUseCase(stubReader{rows: []ports.RegistryRow{row("Twin Diner", "a@b.com")}}, store.Businesses(), store.Tx(), nil)

	_, err := uc.Sync(context.Background(), strings.NewReader(""))
	assert.ErrorContains(t, err, "listar negocios")
}

func TestSync_LogDeDuplicadosYOmitidos(t *testing.T) {
	store := newStore()
	var buf bytes.Buffer
	log := logger.FromZerolog(zerolog.New(&buf))
	uc := NewUseCase(stubReader{rows: []ports.RegistryRow{
		row("Twin Diner", "a@b.com"),
		row("Nobody", "n@b.com"),
	}}, store.Businesses(), store.Tx(), log)

	_, err := uc.Sync(context.Background(), strings.NewReader(""))
	require.NoError(t, err)

	var ambiguous map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, jobName, entry["component"])
		if entry["message"] == "coincidencia ambigua" {
			ambiguous = entry
		}
	}
	require.NotNil(t, ambiguous)
	assert.Equal(t, "Twin Diner", ambiguous["entity_name"])
	assert.Len(t, ambiguous["matches"], 2)
}
