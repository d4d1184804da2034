package entity

import (
	"math"
	"time"
)

// Claves conocidas dentro de CustomFields.
const (
	CustomFieldCategory = "category"
	CustomFieldVerified = "verified"
)

// EditableData es el overlay editable (1:1 con Business): contacto corregido, notas, tags y campos libres.
type EditableData struct {
	ID             string
	BusinessID     string
	PrimaryPhone   string
	PrimaryEmail   string
	ContactPerson  string
	AlternatePhone string
	AlternateEmail string
	Notes          string
	Tags           []string
	CustomFields   map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewEditableData construye un overlay vacío para el negocio.
func NewEditableData(id, businessID string, now time.Time) *EditableData {
	return &EditableData{
		ID:           id,
		BusinessID:   businessID,
		Tags:         []string{},
		CustomFields: map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Category devuelve la categoría fijada a mano (string no vacío) o "".
func (e *EditableData) Category() string {
	if e == nil || e.CustomFields == nil {
		return ""
	}
	s, _ := e.CustomFields[CustomFieldCategory].(string)
	return s
}

// Verified interpreta custom_fields.verified con semántica de verdad laxa:
// true, números distintos de cero, strings no vacíos y objetos cuentan como verificado.
func (e *EditableData) Verified() bool {
	if e == nil || e.CustomFields == nil {
		return false
	}
	return Truthy(e.CustomFields[CustomFieldVerified])
}

// HasTag indica si el overlay ya tiene el tag (comparación exacta).
func (e *EditableData) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CloneCustomFields copia superficial del mapa para mutarlo sin tocar el original.
func (e *EditableData) CloneCustomFields() map[string]any {
	out := make(map[string]any, len(e.CustomFields)+2)
	for k, v := range e.CustomFields {
		out[k] = v
	}
	return out
}

// Truthy interpreta un valor JSON decodificado con semántica de verdad laxa.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}
