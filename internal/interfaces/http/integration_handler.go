package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadmine-api/internal/application/dto"
	"github.com/jhoicas/leadmine-api/internal/application/integration"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/validation"
)

// IntegrationHandler API consumida por el sistema de campañas (protegida con clave).
type IntegrationHandler struct {
	uc *integration.UseCase
}

// NewIntegrationHandler construye el handler.
func NewIntegrationHandler(uc *integration.UseCase) *IntegrationHandler {
	return &IntegrationHandler{uc: uc}
}

// ListBusinesses godoc
// @Summary      Feed de negocios por cursor
// @Tags         integration
// @Security     ApiKey
// @Produce      json
// @Param        limit          query  int     false  "Límite (máx 500)"  default(200)
// @Param        cursor         query  string  false  "Último id recibido"
// @Param        hasEmail       query  bool    false  "Solo con email principal"
// @Param        createMissing  query  bool    false  "Crear invitaciones faltantes"
// @Param        ids            query  string  false  "ids separados por coma"
// @Param        search         query  string  false  "Nombre, dirección, contacto o tag"
// @Success      200  {object}  dto.IntegrationListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/integration/businesses [get]
func (h *IntegrationHandler) ListBusinesses(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.IntegrationListRequest{
		Limit:         c.Query("limit"),
		Cursor:        c.Query("cursor"),
		HasEmail:      c.Query("hasEmail"),
		CreateMissing: c.Query("createMissing"),
		IDs:           c.Query("ids"),
		Search:        c.Query("search"),
	})
	if err != nil {
		return errorResponse(c, err, "")
	}
	return c.JSON(out)
}

// RecordEvent godoc
// @Summary      Registrar evento de campaña
// @Tags         integration
// @Security     ApiKey
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IntegrationEventRequest  true  "token o businessId, type y meta"
// @Success      200   {object}  dto.OKResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/integration/events [post]
func (h *IntegrationHandler) RecordEvent(c *fiber.Ctx) error {
	body := c.Body()
	if err := validation.IntegrationEvent.Validate(body); err != nil {
		return validationError(c, err)
	}
	var in dto.IntegrationEventRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return validationError(c, validation.ErrInvalidJSON)
	}
	if err := h.uc.RecordEvent(c.UserContext(), in); err != nil {
		return errorResponse(c, err, "")
	}
	return c.JSON(dto.OKResponse{OK: true})
}
