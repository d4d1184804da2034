// Package validation valida cuerpos JSON de entrada contra JSON Schema.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jhoicas/leadmine-api/internal/domain"
)

// FieldError un problema de validación en un campo ("(root)" para el documento).
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error errores de validación de un cuerpo. Envuelve domain.ErrInvalidInput.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validación: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return domain.ErrInvalidInput }

// ErrInvalidJSON el cuerpo no es JSON.
var ErrInvalidJSON = fmt.Errorf("JSON inválido: %w", domain.ErrInvalidInput)

// Validator un esquema compilado.
type Validator struct {
	name   string
	schema *gojsonschema.Schema
}

// MustCompile compila el esquema; panic si es inválido (esquemas estáticos del paquete).
func MustCompile(name, schema string) *Validator {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}
	return &Validator{name: name, schema: s}
}

// Validate verifica body. Devuelve ErrInvalidJSON si no parsea o *Error con los campos inválidos.
func (v *Validator) Validate(body []byte) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return ErrInvalidJSON
	}
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return ErrInvalidJSON
	}
	if result.Valid() {
		return nil
	}
	out := &Error{Fields: make([]FieldError, 0, len(result.Errors()))}
	for _, re := range result.Errors() {
		out.Fields = append(out.Fields, FieldError{Field: re.Field(), Message: re.Description()})
	}
	return out
}
