// Package xlsx lee y escribe hojas de cálculo con excelize: exportación del visor
// legacy y lectura del registro de licencias.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain/leads"
)

const exportSheet = "Businesses"

var exportHeaders = []any{
	"ID", "Name", "Category", "Address", "Email", "Phones", "Websites", "Social",
	"Services", "Reviews", "Rating", "Verified", "Outreach", "Stage", "Intelligence Score", "Notes",
}

var _ ports.ViewExporter = (*Exporter)(nil)

// Exporter implementa ports.ViewExporter.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// Export escribe una fila por vista, en el orden recibido, bajo una cabecera en negrita.
func (Exporter) Export(w io.Writer, views []leads.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("xlsx: cabecera: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}

	for i, v := range views {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			v.ID, v.Name, v.Category, v.Address, v.Email,
			joinPhones(v.Phones), joinWebsites(v.Websites), joinSocial(v.SocialMedia),
			strings.Join(v.ServicesTags, ", "), v.TotalReviews, v.AverageRating, v.Verified,
			v.OutreachStatus, v.Stage, v.IntelligenceScore, v.Notes,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(exportSheet, "B", "D", 32)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}

func joinPhones(p []leads.PhoneEntry) string {
	out := make([]string, len(p))
	for i := range p {
		out[i] = p[i].Number
	}
	return strings.Join(out, "; ")
}

func joinWebsites(ws []leads.Website) string {
	out := make([]string, len(ws))
	for i := range ws {
		out[i] = ws[i].URL
	}
	return strings.Join(out, "; ")
}

func joinSocial(ss []leads.SocialLink) string {
	out := make([]string, len(ss))
	for i := range ss {
		out[i] = ss[i].Platform + ": " + ss[i].URL
	}
	return strings.Join(out, "; ")
}
