package leads

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// View modelo derivado por request para el visor legacy. Nunca se persiste.
type View struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Category          string       `json:"category"`
	Address           string       `json:"address"`
	Email             string       `json:"email"`
	Phones            []PhoneEntry `json:"phones"`
	SocialMedia       []SocialLink `json:"social_media"`
	Websites          []Website    `json:"websites"`
	Services          string       `json:"services"`
	ServicesTags      []string     `json:"services_tags"`
	TotalReviews      int          `json:"total_reviews"`
	AverageRating     float64      `json:"average_rating"`
	ScrapedAt         *time.Time   `json:"scraped_at"`
	PhonesFound       int          `json:"phones_found"`
	SocialAccounts    int          `json:"social_accounts"`
	ReviewsFound      int          `json:"reviews_found"`
	WebsitesFound     int          `json:"websites_found"`
	Verified          bool         `json:"verified"`
	OutreachStatus    string       `json:"outreach_status"`
	Stage             string       `json:"stage"`
	Notes             string       `json:"notes"`
	IntelligenceScore int          `json:"intelligence_score"`
}

// GoogleReview reseña tal como la guardó el scraper.
type GoogleReview struct {
	Author string  `json:"author,omitempty"`
	Rating float64 `json:"rating,omitempty"`
	Date   string  `json:"date,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// GoogleBlock datos crudos de la ficha de Google para el detalle.
type GoogleBlock struct {
	Rating          float64        `json:"rating"`
	ReviewsCount    int            `json:"reviews_count"`
	Address         string         `json:"address"`
	Phone           string         `json:"phone"`
	HoursSummary    string         `json:"hours_summary"`
	FromBusiness    string         `json:"from_business"`
	PlaceURL        string         `json:"place_url"`
	MapsSearchURL   string         `json:"maps_search_url"`
	OfficialWebsite string         `json:"official_website"`
	Reviews         []GoogleReview `json:"reviews"`
}

// DetailView vista de un negocio con el bloque de Google.
type DetailView struct {
	View
	Google GoogleBlock `json:"google"`
}

// ViewBuilder construye vistas con tablas de reglas configurables.
type ViewBuilder struct {
	categories RuleTable
	services   RuleTable
	cleanText  func(string) string
	onRecover  func(businessID string, recovered any)
}

// BuilderOption personaliza el ViewBuilder.
type BuilderOption func(*ViewBuilder)

// WithCategoryRules reemplaza la tabla de categorías.
func WithCategoryRules(t RuleTable) BuilderOption {
	return func(vb *ViewBuilder) { vb.categories = t }
}

// WithServiceRules reemplaza la tabla de servicios.
func WithServiceRules(t RuleTable) BuilderOption {
	return func(vb *ViewBuilder) { vb.services = t }
}

// WithTextCleaner aplica fn a descripción y about-copy antes de inferir (p.ej. quitar HTML).
func WithTextCleaner(fn func(string) string) BuilderOption {
	return func(vb *ViewBuilder) { vb.cleanText = fn }
}

// WithRecoverHook recibe los panics recuperados durante la inferencia de un registro.
func WithRecoverHook(fn func(businessID string, recovered any)) BuilderOption {
	return func(vb *ViewBuilder) { vb.onRecover = fn }
}

// NewViewBuilder builder con las tablas por defecto.
func NewViewBuilder(opts ...BuilderOption) *ViewBuilder {
	vb := &ViewBuilder{categories: CategoryRules, services: ServiceTagRules}
	for _, opt := range opts {
		opt(vb)
	}
	return vb
}

// inferenceText copia b con descripción y about-copy limpios para las reglas.
func (vb *ViewBuilder) inferenceText(b *entity.Business) entity.Business {
	c := *b
	if vb.cleanText != nil {
		c.Description = vb.cleanText(c.Description)
		c.WebsiteAboutCopy = vb.cleanText(c.WebsiteAboutCopy)
	}
	return c
}

// InferCategory primera categoría que casa con el texto preparado de b, o "".
// Usa la misma limpieza que Build, así backfill y visor coinciden.
func (vb *ViewBuilder) InferCategory(b *entity.Business) string {
	c := vb.inferenceText(b)
	return vb.categories.FirstMatch(CategoryText(&c))
}

// Build deriva la vista completa de un negocio. Un fallo en la inferencia deja
// categoría y tags vacíos; el resto de la vista se construye igual.
// Services conserva el texto tal como se scrapeó; la limpieza solo alimenta la inferencia.
func (vb *ViewBuilder) Build(b *entity.BusinessWithRelations) View {
	biz := b.Business

	phones := DedupePhones(PhonesOf(&biz))
	social := SocialLinksOf(&biz)
	websites := WebsitesOf(&biz)

	v := View{
		ID:             biz.ID,
		Name:           biz.BusinessName,
		Address:        biz.GoogleAddress,
		Phones:         phones,
		SocialMedia:    social,
		Websites:       websites,
		Services:       ServicesText(&biz),
		ServicesTags:   []string{},
		TotalReviews:   biz.GoogleReviewsCount,
		AverageRating:  biz.GoogleRating,
		ScrapedAt:      biz.ScrapedAt,
		PhonesFound:    len(phones),
		SocialAccounts: len(social),
		WebsitesFound:  len(websites),
	}
	if biz.GoogleReviewsCount > 0 {
		v.ReviewsFound = 1
	}

	if ed := b.EditableData; ed != nil {
		v.Email = ed.PrimaryEmail
		v.Notes = ed.Notes
		v.Verified = ed.Verified()
		v.Category = ed.Category()
	}
	if li := b.LeadInfo; li != nil {
		v.OutreachStatus = OutreachLabel(li.Status)
		v.Stage = StageLabel(li.Status)
	}

	text := vb.inferenceText(&biz)
	vb.infer(&text, &v)

	v.IntelligenceScore = IntelligenceScore(ScoreInputs{
		PhonesFound:    v.PhonesFound,
		SocialAccounts: v.SocialAccounts,
		WebsitesFound:  v.WebsitesFound,
		TotalReviews:   v.TotalReviews,
		AverageRating:  v.AverageRating,
	})
	return v
}

func (vb *ViewBuilder) infer(biz *entity.Business, v *View) {
	explicit := v.Category
	defer func() {
		if r := recover(); r != nil {
			v.Category = explicit
			v.ServicesTags = []string{}
			if vb.onRecover != nil {
				vb.onRecover(biz.ID, r)
			}
		}
	}()
	if v.Category == "" {
		v.Category = vb.categories.FirstMatch(CategoryText(biz))
	}
	v.ServicesTags = vb.services.AllMatches(strings.ToLower(ServicesText(biz)))
}

// BuildAll construye las vistas de una lista completa.
func (vb *ViewBuilder) BuildAll(list []*entity.BusinessWithRelations) []View {
	out := make([]View, 0, len(list))
	for _, b := range list {
		out = append(out, vb.Build(b))
	}
	return out
}

// BuildDetail vista de detalle con el bloque de Google.
func (vb *ViewBuilder) BuildDetail(b *entity.BusinessWithRelations) DetailView {
	return DetailView{
		View: vb.Build(b),
		Google: GoogleBlock{
			Rating:          b.GoogleRating,
			ReviewsCount:    b.GoogleReviewsCount,
			Address:         b.GoogleAddress,
			Phone:           b.GooglePhone,
			HoursSummary:    b.GoogleHoursSummary,
			FromBusiness:    b.GoogleFromBusiness,
			PlaceURL:        b.GooglePlaceURL,
			MapsSearchURL:   b.GoogleMapsSearchURL,
			OfficialWebsite: b.GoogleOfficialWebsite,
			Reviews:         ParseGoogleReviews(b.GoogleReviewsJSON),
		},
	}
}

// ParseGoogleReviews decodifica el JSON de reseñas. Vacío, inválido o no-array -> lista vacía.
// Elementos que no encajan en GoogleReview se descartan sin invalidar el resto.
func ParseGoogleReviews(raw string) []GoogleReview {
	out := []GoogleReview{}
	if raw == "" {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return out
	}
	for _, it := range items {
		var r GoogleReview
		if err := json.Unmarshal(it, &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// String representación corta para logs.
func (v View) String() string {
	return fmt.Sprintf("%s(%s, score=%d)", v.Name, v.Category, v.IntelligenceScore)
}
