package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/leadmine-api/internal/application/dto"
	"github.com/jhoicas/leadmine-api/internal/domain"
	"github.com/jhoicas/leadmine-api/pkg/jwt"
)

// Principal usuario autenticado por el token de sesión.
type Principal struct {
	UserID   string
	Username string
}

// IntegrationKeys credenciales aceptadas por la API de integración.
// Hash es un bcrypt alternativo a la clave en claro; basta con una de las dos.
type IntegrationKeys struct {
	Plain string
	Hash  string
}

// Configured indica si hay alguna clave definida.
func (k IntegrationKeys) Configured() bool {
	return k.Plain != "" || k.Hash != ""
}

// AuthUseCase valida sesiones de usuario y claves de integración.
// El login y la emisión del token los hace un servicio externo.
type AuthUseCase struct {
	jwtSecret string
	keys      IntegrationKeys
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(jwtSecret string, keys IntegrationKeys) *AuthUseCase {
	return &AuthUseCase{jwtSecret: jwtSecret, keys: keys}
}

// Authenticate verifica el token de sesión. Devuelve ErrUnauthorized si falta,
// es inválido o expiró.
func (uc *AuthUseCase) Authenticate(token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	userID, username, err := jwt.Parse(uc.jwtSecret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return &Principal{UserID: userID, Username: username}, nil
}

// Me arma la respuesta de la sesión actual.
func (uc *AuthUseCase) Me(p Principal) dto.MeResponse {
	return dto.MeResponse{User: dto.UserResponse{ID: p.UserID, Username: p.Username}}
}

// VerifyIntegrationKey compara la clave recibida con la configurada.
// Sin clave configurada devuelve ErrIntegrationKeyMissing; si no coincide, ErrUnauthorized.
func (uc *AuthUseCase) VerifyIntegrationKey(provided string) error {
	if !uc.keys.Configured() {
		return domain.ErrIntegrationKeyMissing
	}
	provided = strings.TrimSpace(provided)
	if provided == "" {
		return domain.ErrUnauthorized
	}
	if uc.keys.Plain != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(uc.keys.Plain)) == 1 {
		return nil
	}
	if uc.keys.Hash != "" && bcrypt.CompareHashAndPassword([]byte(uc.keys.Hash), []byte(provided)) == nil {
		return nil
	}
	return domain.ErrUnauthorized
}
