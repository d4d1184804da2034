// Package pdf genera la ficha de un negocio (lead sheet) para compartir fuera del visor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + categoría   │  Score de inteligencia       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTACTO: Dirección / Email / Estado comercial              │
//	│  TABLA: Teléfono | Fuente | Confianza                        │
//	│  PRESENCIA: Webs y redes sociales                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  GOOGLE: Rating + reseñas + horario  │  QR a la ficha        │
//	│  SERVICIOS: tags inferidos                                   │
//	│  RESEÑAS: primeras reseñas                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/leadmine-api/internal/application/ports"
	"github.com/jhoicas/leadmine-api/internal/domain/leads"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 24, Green: 78, Blue: 119}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const maxReviews = 5

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ ports.LeadSheetRenderer = (*LeadSheetRenderer)(nil)

// LeadSheetRenderer implementa ports.LeadSheetRenderer con Maroto v2.
type LeadSheetRenderer struct {
	author string
	now    func() time.Time
}

// NewLeadSheetRenderer construye el renderer; author va en los metadatos del PDF.
func NewLeadSheetRenderer(author string) *LeadSheetRenderer {
	return &LeadSheetRenderer{author: author, now: time.Now}
}

// Render genera el PDF y devuelve sus bytes.
func (g *LeadSheetRenderer) Render(v leads.DetailView) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lead sheet: "+v.Name, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(contactRow(v))
	m.AddRows(phoneHeaderRow())
	m.AddRows(phoneRows(v.Phones)...)
	m.AddRows(presenceRows(v)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(googleRow(v))
	m.AddRows(servicesRow(v))
	m.AddRows(reviewRows(v.Google.Reviews)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(g.now()))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ficha: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(v leads.DetailView) core.Row {
	return row.New(18).Add(
		col.New(9).Add(
			text.New(nonEmpty(v.Name, "(sin nombre)"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(v.Category, "Sin categoría"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(3).Add(
			text.New("SCORE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d / %d", v.IntelligenceScore, leads.MaxIntelligenceScore), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func contactRow(v leads.DetailView) core.Row {
	verified := "no"
	if v.Verified {
		verified = "sí"
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CONTACTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Email: %s",
				nonEmpty(v.Address, "-"),
				nonEmpty(v.Email, "-"),
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New(fmt.Sprintf("Contacto: %s   |   Etapa: %s   |   Verificado: %s",
				nonEmpty(v.OutreachStatus, "-"),
				nonEmpty(v.Stage, "-"),
				verified,
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func phoneHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Teléfono", 6, align.Left),
		h("Fuente", 4, align.Left),
		h("Confianza", 2, align.Right),
	)
}

func phoneRows(phones []leads.PhoneEntry) []core.Row {
	if len(phones) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin teléfonos registrados", props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray}),
		))}
	}
	out := make([]core.Row, 0, len(phones))
	for _, p := range phones {
		conf := "-"
		if p.Confidence != nil {
			conf = strconv.FormatFloat(*p.Confidence*100, 'f', 0, 64) + "%"
		}
		out = append(out, row.New(7).Add(
			col.New(6).Add(text.New(p.Number, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(nonEmpty(p.Type, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(conf, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func presenceRows(v leads.DetailView) []core.Row {
	lines := make([]string, 0, len(v.Websites)+len(v.SocialMedia))
	for _, w := range v.Websites {
		lines = append(lines, "Web ("+w.Type+"): "+w.URL)
	}
	for _, s := range v.SocialMedia {
		lines = append(lines, s.Platform+": "+s.URL)
	}
	if len(lines) == 0 {
		lines = append(lines, "Sin presencia web registrada")
	}
	out := []core.Row{row.New(6).Add(col.New(12).Add(
		text.New("PRESENCIA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))}
	for _, l := range lines {
		out = append(out, row.New(5).Add(col.New(12).Add(
			text.New(l, props.Text{Size: 8, Top: 0.5, Left: 2, Color: colorGray}),
		)))
	}
	return out
}

func googleRow(v leads.DetailView) core.Row {
	g := v.Google
	info := col.New(8).Add(
		text.New("GOOGLE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(fmt.Sprintf("Rating: %.1f   |   Reseñas: %d", g.Rating, g.ReviewsCount), props.Text{
			Size: 8, Top: 7,
		}),
		text.New("Horario: "+nonEmpty(g.HoursSummary, "-"), props.Text{Size: 8, Top: 13, Color: colorGray}),
		text.New("Teléfono: "+nonEmpty(g.Phone, "-"), props.Text{Size: 8, Top: 19, Color: colorGray}),
	)
	target := nonEmpty(g.PlaceURL, g.MapsSearchURL)
	if target == "" {
		return row.New(28).Add(info, col.New(4))
	}
	return row.New(28).Add(info, col.New(4).Add(code.NewQr(target, props.Rect{Percent: 90, Center: true})))
}

func servicesRow(v leads.DetailView) core.Row {
	tags := "-"
	if len(v.ServicesTags) > 0 {
		tags = strings.Join(v.ServicesTags, ", ")
	}
	return row.New(12).Add(col.New(12).Add(
		text.New("SERVICIOS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		text.New(tags, props.Text{Size: 8, Top: 7, Color: colorGray}),
	))
}

func reviewRows(reviews []leads.GoogleReview) []core.Row {
	if len(reviews) == 0 {
		return nil
	}
	out := []core.Row{row.New(6).Add(col.New(12).Add(
		text.New("RESEÑAS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))}
	for i, r := range reviews {
		if i == maxReviews {
			break
		}
		head := nonEmpty(r.Author, "Anónimo")
		if r.Rating > 0 {
			head += fmt.Sprintf(" (%.0f★)", r.Rating)
		}
		out = append(out, row.New(10).Add(col.New(12).Add(
			text.New(head, props.Text{Style: fontstyle.Bold, Size: 7.5, Top: 1, Left: 2}),
			text.New(truncate(r.Text, 220), props.Text{Size: 7.5, Top: 5, Left: 2, Color: colorGray}),
		)))
	}
	return out
}

func footerRow(now time.Time) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Generado "+now.Format("2006-01-02 15:04")+". Datos scrapeados; verificar antes de contactar.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2, Align: align.Center,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// truncate corta s a n runas agregando "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
