package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/leadmine-api/internal/application/ports"
)

const (
	headerEntityName   = "entity name"
	headerContactEmail = "contact email"
)

var _ ports.RegistryReader = (*RegistryReader)(nil)

// RegistryReader lee la primera hoja de un registro de licencias.
// Requiere las columnas "Entity Name" y "Contact Email" en la primera fila.
type RegistryReader struct{}

// NewRegistryReader construye el lector.
func NewRegistryReader() *RegistryReader { return &RegistryReader{} }

// Read devuelve las filas con nombre y email no vacíos.
func (RegistryReader) Read(r io.Reader) ([]ports.RegistryRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: abrir registro: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: el libro no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx: leer hoja %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []ports.RegistryRow{}, nil
	}

	nameCol, emailCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case headerEntityName:
			nameCol = i
		case headerContactEmail:
			emailCol = i
		}
	}
	if nameCol < 0 || emailCol < 0 {
		return nil, fmt.Errorf("xlsx: faltan columnas \"Entity Name\" o \"Contact Email\"")
	}

	out := make([]ports.RegistryRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cellAt(row, nameCol)
		email := cellAt(row, emailCol)
		if name == "" || email == "" {
			continue
		}
		out = append(out, ports.RegistryRow{EntityName: name, ContactEmail: email})
	}
	return out, nil
}

// cellAt tolera filas cortas: GetRows omite las celdas vacías del final.
func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
