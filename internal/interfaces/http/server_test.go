package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadmine-api/internal/application/auth"
	"github.com/jhoicas/leadmine-api/internal/application/crm"
	"github.com/jhoicas/leadmine-api/internal/application/integration"
	"github.com/jhoicas/leadmine-api/internal/application/legacy"
	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/leads"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/cache"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/memstore"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/pdf"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/leadmine-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/leadmine-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret      = "test-secret-key-for-unit-tests"
	testUserID         = "00000000-0000-0000-0000-000000000001"
	testUsername       = "ana"
	testIssuer         = "leadmine-test"
	testExpMin         = 60
	testIntegrationKey = "integration-key"
)

type testServer struct {
	app   *fiber.App
	store *memstore.Store
	token string
}

// newTestServer arma la API completa sobre un store en memoria con tres negocios.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New()

	bean := entity.Business{
		ID:                    "b1",
		BusinessName:          "Bean There Coffee",
		GooglePhone:           "+1 555-123-4567",
		GoogleOfficialWebsite: "https://beanthere.com",
		GoogleRating:          4.4,
		GoogleReviewsCount:    12,
		SocialFacebook:        "https://facebook.com/beanthere",
	}
	store.AddBusiness(bean)
	store.AddBusiness(entity.Business{
		ID:                 "b2",
		BusinessName:       "Tony's Pizza Restaurant",
		GooglePhone:        "555-999-0000",
		GoogleRating:       3,
		GoogleReviewsCount: 5,
	})
	store.AddBusiness(entity.Business{ID: "b3", BusinessName: "Zeta Holdings"})
	ed := entity.NewEditableData("ed1", "b1", time.Now())
	ed.PrimaryEmail = "hola@beanthere.com"
	ed.Tags = []string{"vip"}
	store.PutEditable(*ed)

	authUC := auth.NewAuthUseCase(testJWTSecret, auth.IntegrationKeys{Plain: testIntegrationKey})
	legacyUC := legacy.NewUseCase(legacy.Deps{
		Businesses: store.Businesses(),
		Tx:         store.Tx(),
		Cache:      cache.Nop{},
		Exporter:   xlsx.NewExporter(),
		Sheets:     pdf.NewLeadSheetRenderer("leadmine-test"),
		Limits:     leads.QueryLimits{DefaultPerPage: 50, MaxPerPage: 500},
		StatsTTL:   time.Minute,
	})
	crmUC := crm.NewUseCase(store.Businesses(), store.EditableData(), store.LeadInfo(), store.NotesRepo(), store.Tx())
	integrationUC := integration.NewUseCase(store.Businesses(), store.Invites(), store.Tx(), nil)

	app := fiber.New()
	app.Use(apphttp.SecurityHeaders())
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		LegacyUC:      legacyUC,
		CRMUC:         crmUC,
		IntegrationUC: integrationUC,
	})

	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, testIssuer, testExpMin)
	require.NoError(t, err)
	return &testServer{app: app, store: store, token: tok}
}

// do lanza una petición autenticada con la cookie de sesión.
func (s *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	req := newRequest(t, method, path, body)
	req.AddCookie(&http.Cookie{Name: apphttp.DefaultSessionCookie, Value: s.token})
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func newRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
