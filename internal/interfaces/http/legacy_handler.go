package http

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadmine-api/internal/application/dto"
	"github.com/jhoicas/leadmine-api/internal/application/legacy"
	"github.com/jhoicas/leadmine-api/internal/domain/leads"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/validation"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// LegacyHandler visor legacy: listado normalizado, detalle, ficha PDF y anotaciones rápidas.
type LegacyHandler struct {
	uc *legacy.UseCase
}

// NewLegacyHandler construye el handler.
func NewLegacyHandler(uc *legacy.UseCase) *LegacyHandler {
	return &LegacyHandler{uc: uc}
}

func rawQuery(c *fiber.Ctx) leads.RawQuery {
	return leads.RawQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		MinScore: c.Query("min_score"),
		Verified: c.Query("verified"),
		Outreach: c.Query("outreach"),
		Stage:    c.Query("stage"),
		Page:     c.Query("page"),
		PerPage:  c.Query("per_page"),
		SortBy:   c.Query("sort_by"),
		SortDir:  c.Query("sort_dir"),
	}
}

// List godoc
// @Summary      Listar negocios normalizados
// @Tags         legacy
// @Security     Cookie
// @Produce      json
// @Param        search     query  string  false  "Texto libre (nombre, dirección, teléfono, descripción)"
// @Param        category   query  string  false  "Categoría exacta o all"
// @Param        min_score  query  int     false  "Puntaje mínimo"
// @Param        verified   query  string  false  "true | false | all"
// @Param        outreach   query  string  false  "Etiqueta de outreach"
// @Param        stage      query  string  false  "Etiqueta de etapa"
// @Param        page       query  int     false  "Página"      default(1)
// @Param        per_page   query  int     false  "Por página"  default(50)
// @Param        sort_by    query  string  false  "intelligence | phones | websites | reviews | rating | name | category"
// @Param        sort_dir   query  string  false  "asc | desc"
// @Success      200  {object}  dto.LegacyListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/legacy/businesses [get]
func (h *LegacyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), rawQuery(c))
	if err != nil {
		return errorResponse(c, err, "")
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar el listado filtrado a XLSX
// @Tags         legacy
// @Security     Cookie
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/legacy/businesses/export [get]
func (h *LegacyHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.uc.Export(c.UserContext(), rawQuery(c), &buf); err != nil {
		return errorResponse(c, err, "")
	}
	c.Attachment("businesses.xlsx")
	c.Set(fiber.HeaderContentType, mimeXLSX)
	return c.Send(buf.Bytes())
}

// Detail godoc
// @Summary      Detalle de un negocio
// @Tags         legacy
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del negocio"
// @Success      200  {object}  leads.DetailView
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/legacy/business/{id} [get]
func (h *LegacyHandler) Detail(c *fiber.Ctx) error {
	out, err := h.uc.Detail(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err, "negocio no encontrado")
	}
	return c.JSON(out)
}

// Sheet godoc
// @Summary      Ficha PDF del negocio
// @Tags         legacy
// @Security     Cookie
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del negocio"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/legacy/business/{id}/pdf [get]
func (h *LegacyHandler) Sheet(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.uc.Sheet(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err, "negocio no encontrado")
	}
	c.Set(fiber.HeaderContentType, mimePDF)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="business-`+id+`.pdf"`)
	return c.Send(out)
}

// Update godoc
// @Summary      Anotar un negocio desde el visor
// @Tags         legacy
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del negocio"
// @Param        body  body  dto.LegacyUpdateRequest  true  "verified, outreach_status, stage, notes, category"
// @Success      200   {object}  dto.OKResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/legacy/business/{id}/update [post]
func (h *LegacyHandler) Update(c *fiber.Ctx) error {
	body := c.Body()
	if err := validation.LegacyUpdate.Validate(body); err != nil {
		return validationError(c, err)
	}
	var in dto.LegacyUpdateRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return validationError(c, validation.ErrInvalidJSON)
	}
	if err := h.uc.Update(c.UserContext(), c.Params("id"), in); err != nil {
		return errorResponse(c, err, "negocio no encontrado")
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// Stats godoc
// @Summary      Estadísticas de cobertura
// @Tags         legacy
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.LegacyStatsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/legacy/stats [get]
func (h *LegacyHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "")
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Categorías presentes con su cantidad
// @Tags         legacy
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.CategoriesResponse
// @Router       /api/legacy/categories [get]
func (h *LegacyHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "")
	}
	return c.JSON(out)
}

// KnownCategories godoc
// @Summary      Categorías de la tabla de reglas, en orden
// @Tags         legacy
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.KnownCategoriesResponse
// @Router       /api/legacy/categories/known [get]
func (h *LegacyHandler) KnownCategories(c *fiber.Ctx) error {
	return c.JSON(h.uc.KnownCategories())
}
