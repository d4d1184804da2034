package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadmine-api/internal/application/crm"
	"github.com/jhoicas/leadmine-api/internal/application/dto"
	"github.com/jhoicas/leadmine-api/internal/infrastructure/validation"
)

const msgBusinessNotFound = "negocio no encontrado"

// BusinessHandler CRM de negocios: listado con filtros, edición, notas y metadatos (protegido).
type BusinessHandler struct {
	uc *crm.UseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *crm.UseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc}
}

// List godoc
// @Summary      Listar negocios del CRM
// @Tags         businesses
// @Security     Cookie
// @Produce      json
// @Param        page        query  int     false  "Página"  default(1)
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        search      query  string  false  "Nombre, dirección, teléfono o descripción"
// @Param        status      query  string  false  "Estado del lead o all"
// @Param        priority    query  string  false  "Prioridad o all"
// @Param        assignedTo  query  string  false  "Responsable"
// @Param        tags        query  string  false  "Tags separados por coma (todos requeridos)"
// @Param        hasNotes    query  string  false  "true | false"
// @Param        dateFrom    query  string  false  "Último contacto desde"
// @Param        dateTo      query  string  false  "Último contacto hasta"
// @Success      200  {object}  dto.BusinessListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/businesses [get]
func (h *BusinessHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.BusinessListRequest{
		Page:       c.Query("page"),
		Limit:      c.Query("limit"),
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		AssignedTo: c.Query("assignedTo"),
		Tags:       c.Query("tags"),
		HasNotes:   c.Query("hasNotes"),
		DateFrom:   c.Query("dateFrom"),
		DateTo:     c.Query("dateTo"),
	})
	if err != nil {
		return errorResponse(c, err, "")
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener negocio con todas sus notas
// @Tags         businesses
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del negocio"
// @Success      200  {object}  dto.BusinessEnvelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/businesses/{id} [get]
func (h *BusinessHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err, msgBusinessNotFound)
	}
	return c.JSON(out)
}

// Patch godoc
// @Summary      Actualizar lead y datos editables
// @Tags         businesses
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del negocio"
// @Param        body  body  dto.BusinessPatchRequest  true  "leadInfo y/o editableData"
// @Success      200   {object}  dto.BusinessEnvelope
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/businesses/{id} [patch]
func (h *BusinessHandler) Patch(c *fiber.Ctx) error {
	body := c.Body()
	if err := validation.BusinessPatch.Validate(body); err != nil {
		return validationError(c, err)
	}
	var in dto.BusinessPatchRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return validationError(c, validation.ErrInvalidJSON)
	}
	out, err := h.uc.Patch(c.UserContext(), c.Params("id"), GetUsername(c), in)
	if err != nil {
		return errorResponse(c, err, msgBusinessNotFound)
	}
	return c.JSON(out)
}

// ListNotes godoc
// @Summary      Notas del negocio, más recientes primero
// @Tags         businesses
// @Security     Cookie
// @Produce      json
// @Param        id   path  string  true  "ID del negocio"
// @Success      200  {object}  dto.NotesResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/businesses/{id}/notes [get]
func (h *BusinessHandler) ListNotes(c *fiber.Ctx) error {
	out, err := h.uc.ListNotes(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err, msgBusinessNotFound)
	}
	return c.JSON(out)
}

// CreateNote godoc
// @Summary      Agregar nota
// @Tags         businesses
// @Security     Cookie
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del negocio"
// @Param        body  body  dto.CreateNoteRequest  true  "Contenido y tipo"
// @Success      201   {object}  dto.NoteEnvelope
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/businesses/{id}/notes [post]
func (h *BusinessHandler) CreateNote(c *fiber.Ctx) error {
	body := c.Body()
	if err := validation.NoteCreate.Validate(body); err != nil {
		return validationError(c, err)
	}
	var in dto.CreateNoteRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return validationError(c, validation.ErrInvalidJSON)
	}
	out, err := h.uc.CreateNote(c.UserContext(), c.Params("id"), GetUsername(c), in)
	if err != nil {
		return errorResponse(c, err, msgBusinessNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Metadata godoc
// @Summary      Responsables y tags en uso
// @Tags         businesses
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.MetadataResponse
// @Router       /api/businesses/metadata [get]
func (h *BusinessHandler) Metadata(c *fiber.Ctx) error {
	out, err := h.uc.Metadata(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "")
	}
	return c.JSON(out)
}
