package ports

import (
	"io"

	"github.com/jhoicas/leadmine-api/internal/domain/leads"
)

// LeadSheetRenderer genera la ficha PDF de un negocio.
type LeadSheetRenderer interface {
	Render(view leads.DetailView) ([]byte, error)
}

// ViewExporter escribe una lista de vistas como hoja de cálculo.
type ViewExporter interface {
	Export(w io.Writer, views []leads.View) error
}

// RegistryRow fila de un registro externo de licencias.
type RegistryRow struct {
	EntityName   string
	ContactEmail string
}

// RegistryReader lee las filas de un registro de licencias.
type RegistryReader interface {
	Read(r io.Reader) ([]RegistryRow, error)
}
