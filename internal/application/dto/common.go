package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldErrorResponse detalle de un campo inválido.
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse error 400 con el detalle por campo.
type ValidationErrorResponse struct {
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Details []FieldErrorResponse `json:"details"`
}

// OKResponse respuesta {ok: true} de las operaciones sin cuerpo.
type OKResponse struct {
	OK bool `json:"ok"`
}
