package dto

import (
	"encoding/json"
	"time"
)

// IntegrationListRequest parámetros de GET /api/integration/businesses.
type IntegrationListRequest struct {
	Limit         string
	Cursor        string
	HasEmail      string
	CreateMissing string
	IDs           string
	Search        string
}

// IntegrationContact datos de contacto del overlay.
type IntegrationContact struct {
	PrimaryEmail   *string  `json:"primaryEmail"`
	AlternateEmail *string  `json:"alternateEmail"`
	ContactPerson  *string  `json:"contactPerson"`
	Tags           []string `json:"tags"`
}

// IntegrationLead resumen del estado comercial; campos nil si no hay lead.
type IntegrationLead struct {
	Status           *string    `json:"status"`
	Priority         *string    `json:"priority"`
	AssignedTo       *string    `json:"assignedTo"`
	NextFollowUpDate *time.Time `json:"nextFollowUpDate"`
}

// IntegrationInvite invitación de campaña con sus contadores.
type IntegrationInvite struct {
	Token         string          `json:"token"`
	EmailsSent    int             `json:"emailsSent"`
	LastEmailSent *time.Time      `json:"lastEmailSent"`
	VisitsCount   int             `json:"visitsCount"`
	LastVisitedAt *time.Time      `json:"lastVisitedAt"`
	RsvpsCount    int             `json:"rsvpsCount"`
	LastRsvpAt    *time.Time      `json:"lastRsvpAt"`
	LastEmailMeta json.RawMessage `json:"lastEmailMeta"`
	LastVisitMeta json.RawMessage `json:"lastVisitMeta"`
	LastRsvpMeta  json.RawMessage `json:"lastRsvpMeta"`
}

// IntegrationBusiness un negocio del feed de integración.
type IntegrationBusiness struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Address   string             `json:"address"`
	Website   string             `json:"website"`
	CreatedAt time.Time          `json:"createdAt"`
	Contact   IntegrationContact `json:"contact"`
	Lead      IntegrationLead    `json:"lead"`
	Invite    *IntegrationInvite `json:"invite"`
}

// CursorPagination paginación por cursor; NextCursor nil cuando no hay más páginas.
type CursorPagination struct {
	Limit      int     `json:"limit"`
	NextCursor *string `json:"nextCursor"`
}

// IntegrationListResponse respuesta de GET /api/integration/businesses.
type IntegrationListResponse struct {
	Data       []IntegrationBusiness `json:"data"`
	Pagination CursorPagination      `json:"pagination"`
}

// IntegrationEventRequest body de POST /api/integration/events.
type IntegrationEventRequest struct {
	Token      string          `json:"token"`
	BusinessID string          `json:"businessId"`
	Type       string          `json:"type"`
	Meta       json.RawMessage `json:"meta"`
}
