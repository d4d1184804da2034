package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessListRequest filtros de GET /api/businesses tal como llegan del query string.
type BusinessListRequest struct {
	Page       string
	Limit      string
	Search     string
	Status     string
	Priority   string
	AssignedTo string
	Tags       string // lista separada por comas
	HasNotes   string
	DateFrom   string
	DateTo     string
}

// LeadInfoResponse estado comercial en respuestas.
type LeadInfoResponse struct {
	ID                string          `json:"id"`
	BusinessID        string          `json:"businessId"`
	Status            string          `json:"status"`
	Priority          string          `json:"priority"`
	AssignedTo        string          `json:"assignedTo"`
	EstimatedValue    decimal.Decimal `json:"estimatedValue"`
	ExpectedCloseDate *time.Time      `json:"expectedCloseDate"`
	LastContactDate   *time.Time      `json:"lastContactDate"`
	NextFollowUpDate  *time.Time      `json:"nextFollowUpDate"`
	Source            string          `json:"source"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// EditableDataResponse overlay editable en respuestas.
type EditableDataResponse struct {
	ID             string         `json:"id"`
	BusinessID     string         `json:"businessId"`
	PrimaryPhone   string         `json:"primaryPhone"`
	PrimaryEmail   string         `json:"primaryEmail"`
	ContactPerson  string         `json:"contactPerson"`
	AlternatePhone string         `json:"alternatePhone"`
	AlternateEmail string         `json:"alternateEmail"`
	Notes          string         `json:"notes"`
	Tags           []string       `json:"tags"`
	CustomFields   map[string]any `json:"customFields"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// NoteResponse nota en respuestas.
type NoteResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BusinessResponse negocio del CRM con sus relaciones.
type BusinessResponse struct {
	ID                    string                `json:"id"`
	BusinessName          string                `json:"businessName"`
	WebsiteFound          string                `json:"websiteFound"`
	Description           string                `json:"description"`
	GoogleAddress         string                `json:"googleAddress"`
	GooglePhone           string                `json:"googlePhone"`
	GoogleRating          float64               `json:"googleRating"`
	GoogleReviewsCount    int                   `json:"googleReviewsCount"`
	GoogleOfficialWebsite string                `json:"googleOfficialWebsite"`
	GooglePlaceURL        string                `json:"googlePlaceUrl"`
	TotalPhonesFound      int                   `json:"totalPhonesFound"`
	ScrapedAt             *time.Time            `json:"scrapedAt"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
	LeadInfo              *LeadInfoResponse     `json:"leadInfo"`
	EditableData          *EditableDataResponse `json:"editableData"`
	Notes                 []NoteResponse        `json:"notes"`
}

// PaginationResponse bloque de paginación del CRM.
type PaginationResponse struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"totalCount"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// BusinessListResponse respuesta de GET /api/businesses.
type BusinessListResponse struct {
	Businesses []BusinessResponse `json:"businesses"`
	Pagination PaginationResponse `json:"pagination"`
}

// BusinessEnvelope respuesta {business: ...}.
type BusinessEnvelope struct {
	Business BusinessResponse `json:"business"`
}

// LeadInfoPatch cambios parciales del estado comercial. Las fechas son ISO-8601.
type LeadInfoPatch struct {
	Status            *string  `json:"status"`
	Priority          *string  `json:"priority"`
	AssignedTo        *string  `json:"assignedTo"`
	EstimatedValue    *float64 `json:"estimatedValue"`
	ExpectedCloseDate *string  `json:"expectedCloseDate"`
	LastContactDate   *string  `json:"lastContactDate"`
	NextFollowUpDate  *string  `json:"nextFollowUpDate"`
}

// EditableDataPatch cambios parciales del overlay.
type EditableDataPatch struct {
	PrimaryPhone   *string   `json:"primaryPhone"`
	PrimaryEmail   *string   `json:"primaryEmail"`
	ContactPerson  *string   `json:"contactPerson"`
	AlternatePhone *string   `json:"alternatePhone"`
	AlternateEmail *string   `json:"alternateEmail"`
	Notes          *string   `json:"notes"`
	Tags           *[]string `json:"tags"`
}

// BusinessPatchRequest body de PATCH /api/businesses/:id.
type BusinessPatchRequest struct {
	LeadInfo     *LeadInfoPatch     `json:"leadInfo"`
	EditableData *EditableDataPatch `json:"editableData"`
}

// CreateNoteRequest body de POST /api/businesses/:id/notes.
type CreateNoteRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// NotesResponse respuesta {notes: [...]}.
type NotesResponse struct {
	Notes []NoteResponse `json:"notes"`
}

// NoteEnvelope respuesta {note: ...}.
type NoteEnvelope struct {
	Note NoteResponse `json:"note"`
}

// MetadataResponse valores distintos para los filtros del CRM.
type MetadataResponse struct {
	Assignees []string `json:"assignees"`
	Tags      []string `json:"tags"`
}
