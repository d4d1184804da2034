package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadmine-api/internal/application/auth"
)

// AuthHandler expone la sesión actual. El login vive en otro servicio.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Me godoc
// @Summary      Usuario de la sesión
// @Tags         auth
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(h.uc.Me(principal(c)))
}
