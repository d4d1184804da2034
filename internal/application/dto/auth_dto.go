package dto

// UserResponse usuario de la sesión.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// MeResponse respuesta de GET /api/auth/me.
type MeResponse struct {
	User UserResponse `json:"user"`
}
