package dto

import (
	"encoding/json"

	"github.com/jhoicas/leadmine-api/internal/domain/leads"
)

// LegacyListResponse respuesta de GET /api/legacy/businesses.
type LegacyListResponse struct {
	Businesses []leads.View `json:"businesses"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int          `json:"total_pages"`
}

// LegacyUpdateRequest body de POST /api/legacy/business/:id/update.
// Verified presente (aunque sea null) se interpreta por verdad; Notes y Category
// solo se aplican si son string.
type LegacyUpdateRequest struct {
	Verified       json.RawMessage `json:"verified"`
	OutreachStatus *string         `json:"outreach_status"`
	Stage          *string         `json:"stage"`
	Notes          any             `json:"notes"`
	Category       any             `json:"category"`
}

// LegacyStatsResponse respuesta de GET /api/legacy/stats. Las coberturas son porcentajes enteros.
type LegacyStatsResponse struct {
	TotalBusinesses      int     `json:"total_businesses"`
	PhoneCoverage        int     `json:"phone_coverage"`
	SocialCoverage       int     `json:"social_coverage"`
	ReviewCoverage       int     `json:"review_coverage"`
	WebsiteCoverage      int     `json:"website_coverage"`
	AvgIntelligenceScore float64 `json:"avg_intelligence_score"`
	AvgRating            float64 `json:"avg_rating"`
	LoadedFile           string  `json:"loaded_file"`
}

// CategoryCount categoría presente en los datos con su cantidad de negocios.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoriesResponse respuesta de GET /api/legacy/categories.
type CategoriesResponse struct {
	Categories []CategoryCount `json:"categories"`
}

// KnownCategoriesResponse respuesta de GET /api/legacy/categories/known.
type KnownCategoriesResponse struct {
	Categories []string `json:"categories"`
}
