package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadmine-api/internal/application/auth"
	"github.com/jhoicas/leadmine-api/internal/application/crm"
	"github.com/jhoicas/leadmine-api/internal/application/integration"
	"github.com/jhoicas/leadmine-api/internal/application/legacy"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	LegacyUC      *legacy.UseCase
	CRMUC         *crm.UseCase
	IntegrationUC *integration.UseCase
	CookieName    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Integración (clave de API, sin sesión)
	integrationGroup := api.Group("/integration", RequireIntegrationKey(deps.AuthUC))
	integrationHandler := NewIntegrationHandler(deps.IntegrationUC)
	integrationGroup.Get("/businesses", integrationHandler.ListBusinesses)
	integrationGroup.Post("/events", integrationHandler.RecordEvent)

	// Rutas protegidas (cookie de sesión o Bearer)
	session := AuthMiddleware(deps.AuthUC, deps.CookieName)

	authHandler := NewAuthHandler(deps.AuthUC)
	api.Get("/auth/me", session, authHandler.Me)

	// Visor legacy
	legacyGroup := api.Group("/legacy", session)
	legacyHandler := NewLegacyHandler(deps.LegacyUC)
	legacyGroup.Get("/businesses", legacyHandler.List)
	legacyGroup.Get("/businesses/export", legacyHandler.Export)
	legacyGroup.Get("/business/:id", legacyHandler.Detail)
	legacyGroup.Get("/business/:id/pdf", legacyHandler.Sheet)
	legacyGroup.Post("/business/:id/update", legacyHandler.Update)
	legacyGroup.Get("/stats", legacyHandler.Stats)
	legacyGroup.Get("/categories", legacyHandler.Categories)
	legacyGroup.Get("/categories/known", legacyHandler.KnownCategories)

	// CRM
	businesses := api.Group("/businesses", session)
	businessHandler := NewBusinessHandler(deps.CRMUC)
	businesses.Get("/", businessHandler.List)
	businesses.Get("/metadata", businessHandler.Metadata)
	businesses.Get("/:id", businessHandler.GetByID)
	businesses.Patch("/:id", businessHandler.Patch)
	businesses.Get("/:id/notes", businessHandler.ListNotes)
	businesses.Post("/:id/notes", businessHandler.CreateNote)
}
