package entity

import "time"

// Business es el registro scrapeado de un negocio. Inmutable salvo corrección explícita;
// las anotaciones del equipo viven en EditableData y LeadInfo.
type Business struct {
	ID                    string
	BusinessName          string
	WebsiteFound          string
	WebsiteFoundSource    string
	Description           string
	WebsiteAboutCopy      string
	GoogleMapsSearchURL   string
	GooglePlaceURL        string
	GoogleOfficialWebsite string
	GoogleRating          float64
	GoogleReviewsCount    int
	GoogleAddress         string
	GooglePhone           string
	GoogleHoursSummary    string
	GoogleFromBusiness    string
	GoogleReviewsJSON     string
	TotalPhonesFound      int
	AvgConfidence         float64
	ScrapedAt             *time.Time

	SocialFacebook  string
	SocialInstagram string
	SocialLinkedin  string
	SocialTwitter   string
	SocialYoutube   string
	SocialTiktok    string

	// Phones son phone_1..phone_5 en orden de columna.
	Phones [5]ScrapedPhone

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScrapedPhone un teléfono encontrado por el scraper con su confianza (nil = desconocida) y fuente.
type ScrapedPhone struct {
	Number     string
	Confidence *float64
	Source     string
}

// BusinessWithRelations es el negocio junto a su overlay editable y su estado comercial (ambos opcionales).
// Notes e Invite solo se cargan en las consultas que los necesitan.
type BusinessWithRelations struct {
	Business
	EditableData *EditableData
	LeadInfo     *LeadInfo
	Notes        []*Note
	Invite       *CampaignInvite
}
