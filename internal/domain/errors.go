package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrInviteNotFound        = errors.New("token de invitación desconocido")
	ErrIntegrationKeyMissing = errors.New("clave de integración no configurada")
)
