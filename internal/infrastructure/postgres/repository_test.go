package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var ts = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

// relationsValues fila con todas las columnas de negocio + overlay + lead.
func relationsValues(id, name string, withOverlay bool) ([]string, []any) {
	cols := append(append(append([]string{}, businessColumns...), editableColumns...), leadColumns...)
	conf := 0.8
	vals := []any{
		id, name, "", "", "Espresso bar", "", "", "", "https://cafe.example", 4.6, 12,
		"1 Main St", "+1 555-123-4567", "", "", "", 1, 0.8, &ts,
		"https://facebook.com/cafe", "", "", "", "", "",
		"5551234567", &conf, "website",
		"", nil, "", "", nil, "", "", nil, "", "", nil, "",
		ts, ts,
	}
	if withOverlay {
		edID := "ed-1"
		vals = append(vals, &edID, "", "ana@cafe.example", "", "", "", "", []string{"vip"},
			[]byte(`{"verified":true,"category":"Cafe"}`), &ts, &ts)
	} else {
		vals = append(vals, nil, "", "", "", "", "", "", []string{}, []byte(`{}`), nil, nil)
	}
	liID := "li-1"
	vals = append(vals, &liID, "CONTACTED", "MEDIUM", "system", decimal.Zero, nil, nil, nil, "Legacy Viewer", &ts, &ts)
	return cols, vals
}

// ─── BusinessRepo ──────────────────────────────────────────────────────────

func TestBusinessRepo_Exists(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM businesses WHERE id = $1)")).
		WithArgs("b-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewBusinessRepository(mock).Exists(context.Background(), "b-1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepo_GetWithRelations_NoExiste(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM businesses b").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	b, err := NewBusinessRepository(mock).GetWithRelations(context.Background(), "nope", 0)
	require.NoError(t, err)
	assert.Nil(t, b)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepo_GetWithRelations_ConNotas(t *testing.T) {
	mock := newMock(t)
	cols, vals := relationsValues("b-1", "Bean There", true)
	mock.ExpectQuery("FROM businesses b").
		WithArgs("b-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(vals...))
	mock.ExpectQuery(regexp.QuoteMeta("FROM notes WHERE business_id = $1 ORDER BY created_at DESC LIMIT $2")).
		WithArgs("b-1", 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "business_id", "content", "type", "created_by", "created_at", "updated_at"}).
			AddRow("n-1", "b-1", "Llamó", "CALL", "ana", ts, ts))

	b, err := NewBusinessRepository(mock).GetWithRelations(context.Background(), "b-1", 5)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "Bean There", b.BusinessName)
	assert.Equal(t, "5551234567", b.Phones[0].Number)
	require.NotNil(t, b.Phones[0].Confidence)
	assert.Nil(t, b.Phones[1].Confidence)

	require.NotNil(t, b.EditableData)
	assert.Equal(t, "b-1", b.EditableData.BusinessID)
	assert.True(t, b.EditableData.Verified())
	assert.Equal(t, "Cafe", b.EditableData.Category())
	assert.Equal(t, []string{"vip"}, b.EditableData.Tags)

	require.NotNil(t, b.LeadInfo)
	assert.Equal(t, entity.LeadStatusContacted, b.LeadInfo.Status)
	require.Len(t, b.Notes, 1)
	assert.Equal(t, entity.NoteTypeCall, b.Notes[0].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepo_SearchForViewer_EscapaComodines(t *testing.T) {
	mock := newMock(t)
	cols, vals := relationsValues("b-2", "100% Pizza", false)
	mock.ExpectQuery("WHERE b.business_name ILIKE \\$1").
		WithArgs(`%100\% Pizza%`).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(vals...))

	list, err := NewBusinessRepository(mock).SearchForViewer(context.Background(), " 100% Pizza ")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].EditableData, "sin overlay")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepo_SearchForViewer_SinBusqueda(t *testing.T) {
	mock := newMock(t)
	cols, _ := relationsValues("", "", false)
	mock.ExpectQuery("FROM businesses b").
		WithArgs().
		WillReturnRows(pgxmock.NewRows(cols))

	list, err := NewBusinessRepository(mock).SearchForViewer(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWhere(t *testing.T) {
	hasNotes := false
	from := ts.Add(-24 * time.Hour)
	where, args := listWhere(repository.BusinessListFilter{
		Search:   "joe",
		Status:   entity.LeadStatusNew,
		Tags:     []string{"vip", "hot"},
		HasNotes: &hasNotes,
		DateFrom: &from,
	})
	assert.Contains(t, where, "b.business_name ILIKE $1")
	assert.Contains(t, where, "li.status = $2")
	assert.Contains(t, where, "li.last_contact_date >= $3")
	assert.Contains(t, where, "ed.tags @> $4")
	assert.Contains(t, where, "NOT EXISTS (SELECT 1 FROM notes")
	assert.Equal(t, []any{"%joe%", "NEW", from, []string{"vip", "hot"}}, args)

	where, args = listWhere(repository.BusinessListFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBusinessRepo_Coverage(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM businesses").
		WithArgs().
		WillReturnRows(pgxmock.NewRows([]string{"total", "phone", "social", "reviews", "website", "avg"}).
			AddRow(10, 8, 5, 6, 7, 4.25))

	c, err := NewBusinessRepository(mock).Coverage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repository.Coverage{Total: 10, WithPhone: 8, WithSocial: 5, WithReviews: 6, WithWebsite: 7, AvgRating: 4.25}, *c)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessRepo_ListIDsWithoutInvite(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("AND b.id = ANY($1)")).
		WithArgs([]string{"a", "b"}).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("a"))

	ids, err := NewBusinessRepository(mock).ListIDsWithoutInvite(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ─── NoteRepo ──────────────────────────────────────────────────────────────

func TestNoteRepo_Create(t *testing.T) {
	mock := newMock(t)
	n := &entity.Note{ID: "n-1", BusinessID: "b-1", Content: "hola", Type: entity.NoteTypeGeneral, CreatedBy: "ana", CreatedAt: ts, UpdatedAt: ts}
	mock.ExpectExec("INSERT INTO notes").
		WithArgs("n-1", "b-1", "hola", "GENERAL", "ana", ts, ts).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewNoteRepository(mock).Create(context.Background(), n))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepo_ListByBusiness_SinLimite(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM notes WHERE business_id = $1 ORDER BY created_at DESC")).
		WithArgs("b-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "business_id", "content", "type", "created_by", "created_at", "updated_at"}))

	notes, err := NewNoteRepository(mock).ListByBusiness(context.Background(), "b-1", 0)
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ─── EditableDataRepo / LeadInfoRepo ───────────────────────────────────────

func TestEditableDataRepo_Upsert(t *testing.T) {
	mock := newMock(t)
	ed := entity.NewEditableData("ed-1", "b-1", ts)
	ed.PrimaryEmail = "ana@cafe.example"
	ed.CustomFields["verified"] = true

	mock.ExpectExec("ON CONFLICT \\(business_id\\) DO UPDATE").
		WithArgs("ed-1", "b-1", "", "ana@cafe.example", "", "", "", "", []string{}, []byte(`{"verified":true}`), ts, ts).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewEditableDataRepository(mock).Upsert(context.Background(), ed))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEditableDataRepo_GetByBusinessID_NoExiste(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM editable_business_data WHERE business_id").
		WithArgs("b-9").
		WillReturnError(pgx.ErrNoRows)

	ed, err := NewEditableDataRepository(mock).GetByBusinessID(context.Background(), "b-9")
	require.NoError(t, err)
	assert.Nil(t, ed)
}

func TestLeadInfoRepo_TouchLastContact(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("UPDATE lead_info SET last_contact_date").
		WithArgs("b-1", ts).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, NewLeadInfoRepository(mock).TouchLastContact(context.Background(), "b-1", ts))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadInfoRepo_ListAssignees(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT DISTINCT assigned_to FROM lead_info").
		WithArgs().
		WillReturnRows(pgxmock.NewRows([]string{"assigned_to"}).AddRow("ana").AddRow("system"))

	got, err := NewLeadInfoRepository(mock).ListAssignees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "system"}, got)
}

// ─── CampaignInviteRepo ────────────────────────────────────────────────────

func TestCampaignInviteRepo_RecordEvent(t *testing.T) {
	mock := newMock(t)
	meta := json.RawMessage(`{"rsvpId":"r-1"}`)
	mock.ExpectExec("SET rsvps_count = rsvps_count \\+ 1").
		WithArgs("ci-1", ts, []byte(meta)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := NewCampaignInviteRepository(mock).RecordEvent(context.Background(), "ci-1", entity.CampaignEventRSVP, meta, ts)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignInviteRepo_RecordEvent_SinFila(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("SET visits_count = visits_count \\+ 1").
		WithArgs("ci-x", ts, nil).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewCampaignInviteRepository(mock).RecordEvent(context.Background(), "ci-x", entity.CampaignEventVisit, nil, ts)
	assert.ErrorIs(t, err, domain.ErrInviteNotFound)
}

func TestCampaignInviteRepo_RecordEvent_Desconocido(t *testing.T) {
	err := NewCampaignInviteRepository(newMock(t)).RecordEvent(context.Background(), "ci-1", "click", nil, ts)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCampaignInviteRepo_CreateMany_CuentaInsertadas(t *testing.T) {
	mock := newMock(t)
	invites := []*entity.CampaignInvite{
		{ID: "ci-1", BusinessID: "a", Token: "t1", CreatedAt: ts},
		{ID: "ci-2", BusinessID: "b", Token: "t2", CreatedAt: ts},
	}
	mock.ExpectExec("INSERT INTO campaign_invites").WithArgs("ci-1", "a", "t1", ts).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO campaign_invites").WithArgs("ci-2", "b", "t2", ts).WillReturnResult(pgxmock.NewResult("INSERT", 0))

	n, err := NewCampaignInviteRepository(mock).CreateMany(context.Background(), invites)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ─── TxRunner ──────────────────────────────────────────────────────────────

func TestTxRunner_Commit(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE lead_info").WithArgs("b-1", ts).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := NewTxRunner(mock).Run(context.Background(), func(repos ports.TxRepos) error {
		return repos.LeadInfo.TouchLastContact(context.Background(), "b-1", ts)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := NewTxRunner(mock).Run(context.Background(), func(ports.TxRepos) error { return boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

// ─── utils ─────────────────────────────────────────────────────────────────

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(context.Canceled))
	assert.True(t, IsTransient(&pgconn.PgError{Code: "08006"}))
	assert.True(t, IsTransient(&pgconn.PgError{Code: "40001"}))
	assert.False(t, IsTransient(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsTransient(errors.New("read: connection reset by peer")))
	assert.False(t, IsTransient(errors.New("syntax error")))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%a\_b\%c\\%`, likePattern(`a_b%c\`))
}
