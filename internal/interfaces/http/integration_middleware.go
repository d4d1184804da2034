package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadmine-api/internal/application/dto"
	"github.com/jhoicas/leadmine-api/internal/domain"
)

// HeaderAPIKey header alternativo para la clave de integración.
const HeaderAPIKey = "x-api-key"

// integrationKeyVerifier es el contrato mínimo que necesita el middleware; lo implementa
// *auth.AuthUseCase. El uso de interfaz evita el import circular.
type integrationKeyVerifier interface {
	VerifyIntegrationKey(provided string) error
}

// RequireIntegrationKey protege la API de integración.
//
// Comportamiento:
//   - La clave se toma de Authorization ("Bearer <key>" o el valor crudo) y si no, de x-api-key.
//   - 500 Internal Server Error → el servidor no tiene clave configurada.
//   - 401 Unauthorized → clave ausente o distinta.
func RequireIntegrationKey(verifier integrationKeyVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := verifier.VerifyIntegrationKey(integrationKey(c))
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, domain.ErrIntegrationKeyMissing):
			requestLog(c).Error().Msg("INTEGRATION_API_KEY no configurada")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code:    "INTEGRATION_KEY_MISSING",
				Message: "la API de integración no está configurada",
			})
		default:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "clave de integración inválida",
			})
		}
	}
}

func integrationKey(c *fiber.Ctx) string {
	if h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); h != "" {
		if tok := bearerToken(h); tok != "" {
			return tok
		}
		return h
	}
	return strings.TrimSpace(c.Get(HeaderAPIKey))
}
