package backfill

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadmine-api/internal/application/legacy"
	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/memstore"
	"github.com/jhoicas/leadmine-api/pkg/logger"
)

// ─── Helpers ─────────────────────────────────────────────────────────────────

var errTransient = errors.New("conn closed")

func isTestTransient(err error) bool { return errors.Is(err, errTransient) }

// flakyTx falla las primeras `failures` transacciones con err y luego delega.
type flakyTx struct {
	inner    ports.TxRunner
	failures int
	err      error
	calls    int
}

func (f *flakyTx) Run(ctx context.Context, fn func(ports.TxRepos) error) error {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return f.err
	}
	return f.inner.Run(ctx, fn)
}

type sleepRecorder struct{ calls []time.Duration }

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

func newTestUseCase(store *memstore.Store, tx ports.TxRunner, opts Options) (*UseCase, *sleepRecorder) {
	uc := NewUseCase(store.Businesses(), tx, opts, isTestTransient, nil)
	rec := &sleepRecorder{}
	uc.sleep = rec.sleep
	uc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return uc, rec
}

func seed(n int) *memstore.Store {
	s := memstore.New()
	for i := 1; i <= n; i++ {
		s.AddBusiness(entity.Business{
			ID:           fmt.Sprintf("b%02d", i),
			BusinessName: fmt.Sprintf("Corner Coffee %d", i),
			GooglePhone:  fmt.Sprintf("(555) 000-00%02d", i),
		})
	}
	return s
}

// ─── Run ─────────────────────────────────────────────────────────────────────

func TestRun_CreaLeadYOverlay(t *testing.T) {
	store := seed(1)
	uc, _ := newTestUseCase(store, store.Tx(), Options{Take: 10, Retries: 3})

	rep, err := uc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 1, Updated: 1, LeadsCreated: 1, OverlaysCreated: 1}, rep)

	lead := store.Lead("b01")
	require.NotNil(t, lead)
	assert.Equal(t, entity.LeadStatusNew, lead.Status)
	assert.Equal(t, entity.PriorityMedium, lead.Priority)
	assert.Equal(t, entity.AssigneeSystem, lead.AssignedTo)
	assert.Equal(t, entity.LeadSourceBackfill, lead.Source)
	assert.True(t, lead.EstimatedValue.IsZero())

	ed := store.Editable("b01")
	require.NotNil(t, ed)
	assert.Equal(t, "(555) 000-0001", ed.PrimaryPhone)
	assert.Equal(t, "Cafe", ed.Category())
	assert.NotNil(t, ed.Tags)
}

func TestRun_CompletaOverlayExistenteSinPisar(t *testing.T) {
	store := seed(2)
	store.PutEditable(entity.EditableData{
		ID: "e1", BusinessID: "b01",
		PrimaryPhone: "   ",
		CustomFields: map[string]any{"source": "import"},
	})
	store.PutEditable(entity.EditableData{
		ID: "e2", BusinessID: "b02",
		PrimaryPhone: "(555) 999-9999",
		Tags:         []string{"vip"},
		CustomFields: map[string]any{entity.CustomFieldCategory: "Bakery"},
	})
	store.PutLead(*entity.NewLeadInfo("l2", "b02", "ana", entity.LeadSourceManualEntry, time.Now()))

	uc, _ := newTestUseCase(store, store.Tx(), Options{Take: 10, Retries: 3})
	rep, err := uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Processed)
	assert.Equal(t, 1, rep.Updated, "b02 ya estaba completo")
	assert.Equal(t, 1, rep.LeadsCreated)
	assert.Equal(t, 0, rep.OverlaysCreated)

	ed1 := store.Editable("b01")
	assert.Equal(t, "(555) 000-0001", ed1.PrimaryPhone, "teléfono en blanco se reemplaza")
	assert.Equal(t, "Cafe", ed1.Category())
	assert.Equal(t, "import", ed1.CustomFields["source"], "otros campos libres se conservan")

	ed2 := store.Editable("b02")
	assert.Equal(t, "(555) 999-9999", ed2.PrimaryPhone)
	assert.Equal(t, "Bakery", ed2.Category(), "la categoría manual no se pisa")
	assert.Equal(t, "ana", store.Lead("b02").AssignedTo)
}

func TestRun_EsIdempotente(t *testing.T) {
	store := seed(3)
	uc, _ := newTestUseCase(store, store.Tx(), Options{Take: 2, Retries: 1})

	first, err := uc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Updated)

	second, err := uc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, second.Processed)
	assert.Equal(t, 0, second.Updated)
}

func TestRun_RecorreTodosLosLotes(t *testing.T) {
	store := seed(5)
	uc, rec := newTestUseCase(store, store.Tx(), Options{Take: 2, Retries: 1, Pause: 10 * time.Millisecond})

	rep, err := uc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Processed)
	for i := 1; i <= 5; i++ {
		assert.NotNil(t, store.Lead(fmt.Sprintf("b%02d", i)))
	}
	assert.Len(t, rec.calls, 5, "una pausa por registro")
	assert.Equal(t, 10*time.Millisecond, rec.calls[0])
}

func TestRun_SinNegocios(t *testing.T) {
	store := memstore.New()
	uc, _ := newTestUseCase(store, store.Tx(), Options{Take: 10})

	rep, err := uc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{}, rep)
}

func TestRun_SinTelefonoNiCategoria(t *testing.T) {
	store := memstore.New()
	store.AddBusiness(entity.Business{ID: "z", BusinessName: "Zeta Holdings"})
	uc, _ := newTestUseCase(store, store.Tx(), Options{Take: 10})

	_, err := uc.Run(context.Background())
	require.NoError(t, err)
	ed := store.Editable("z")
	require.NotNil(t, ed)
	assert.Empty(t, ed.PrimaryPhone)
	assert.Empty(t, ed.Category())
}

// La categoría guardada coincide con la que muestra el visor para el mismo texto.
func TestRun_CategoriaIgualQueElVisor(t *testing.T) {
	businesses := []entity.Business{
		{ID: "h1", BusinessName: "Smith & Co", Description: `<div class="cafe">Fresh plumbing repairs</div>`},
		{ID: "h2", BusinessName: "Tony", Description: "Open 11am<midnight daily. Wood-fired pizza and wings"},
	}
	want := map[string]string{"h1": "Plumber", "h2": "Pizza"}

	store := memstore.New()
	for _, b := range businesses {
		store.AddBusiness(b)
	}
	uc, _ := newTestUseCase(store, store.Tx(), Options{Take: 10})
	_, err := uc.Run(context.Background())
	require.NoError(t, err)

	viewer := legacy.NewViewBuilder(logger.Nop())
	for _, b := range businesses {
		ed := store.Editable(b.ID)
		require.NotNil(t, ed, b.ID)
		assert.Equal(t, want[b.ID], ed.Category(), b.ID)
		v := viewer.Build(&entity.BusinessWithRelations{Business: b})
		assert.Equal(t, v.Category, ed.Category(), b.ID)
	}
}

// ─── Reintentos ──────────────────────────────────────────────────────────────

func TestRun_ReintentaErroresTransitorios(t *testing.T) {
	store := seed(1)
	tx := &flakyTx{inner: store.Tx(), failures: 2, err: errTransient}
	uc, rec := newTestUseCase(store, tx, Options{Take: 10, Retries: 3, RetryDelay: 750 * time.Millisecond})

	rep, err := uc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, tx.calls)
	assert.Equal(t, 2, rep.Retries)
	assert.Equal(t, 1, rep.Updated)
	assert.Equal(t, []time.Duration{750 * time.Millisecond, 1500 * time.Millisecond, 0}, rec.calls,
		"espera creciente por intento y luego la pausa entre registros")
}

func TestRun_AgotaReintentos(t *testing.T) {
	store := seed(2)
	tx := &flakyTx{inner: store.Tx(), failures: 5, err: errTransient}
	uc, _ := newTestUseCase(store, tx, Options{Take: 10, Retries: 3})

	rep, err := uc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, tx.calls)
	assert.Equal(t, 0, rep.Processed)
	assert.Nil(t, store.Lead("b01"))
}

func TestRun_ErrorNoTransitorioNoSeReintenta(t *testing.T) {
	store := seed(1)
	boom := errors.New("violación de constraint")
	tx := &flakyTx{inner: store.Tx(), failures: 1, err: boom}
	uc, _ := newTestUseCase(store, tx, Options{Take: 10, Retries: 3})

	_, err := uc.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, tx.calls)
}

func TestRun_ErrorAlListar(t *testing.T) {
	store := seed(1)
	store.Err = errors.New("db caída")
	uc, _ := newTestUseCase(store, store.Tx(), Options{Take: 10})

	_, err := uc.Run(context.Background())
	assert.ErrorContains(t, err, "listar lote")
}
