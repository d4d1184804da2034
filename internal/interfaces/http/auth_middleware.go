package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/leadmine-api/internal/application/auth"
	"github.com/jhoicas/leadmine-api/internal/application/dto"
)

// Locals keys para UserID y Username en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
)

// DefaultSessionCookie nombre de la cookie que emite el servicio de login.
const DefaultSessionCookie = "auth-token"

// sessionAuthenticator es el contrato mínimo del middleware; lo implementa *auth.AuthUseCase.
type sessionAuthenticator interface {
	Authenticate(token string) (*auth.Principal, error)
}

// AuthMiddleware valida el token de sesión (cookie o Bearer) y deja UserID y Username en c.Locals.
func AuthMiddleware(authn sessionAuthenticator, cookieName string) fiber.Handler {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			token = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión requerida"})
		}
		p, err := authn.Authenticate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, p.UserID)
		c.Locals(LocalUsername, p.Username)
		return c.Next()
	}
}

// bearerToken extrae el token de "Bearer <token>"; "" si el formato no coincide.
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetUsername devuelve el Username del contexto (después del middleware de auth).
func GetUsername(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUsername).(string)
	return s
}

// principal reconstruye la sesión desde c.Locals.
func principal(c *fiber.Ctx) auth.Principal {
	return auth.Principal{UserID: GetUserID(c), Username: GetUsername(c)}
}
