package entity

import (
	"encoding/json"
	"time"
)

// CampaignInvite token de campaña por negocio con contadores de eventos (email, visita, RSVP).
type CampaignInvite struct {
	ID            string
	BusinessID    string
	Token         string
	EmailsSent    int
	LastEmailSent *time.Time
	VisitsCount   int
	LastVisitedAt *time.Time
	RsvpsCount    int
	LastRsvpAt    *time.Time
	LastEmailMeta json.RawMessage
	LastVisitMeta json.RawMessage
	LastRsvpMeta  json.RawMessage
	CreatedAt     time.Time
}

// CampaignEvent tipo de evento reportado por el sistema de campañas.
type CampaignEvent string

const (
	CampaignEventEmailSent CampaignEvent = "email_sent"
	CampaignEventVisit     CampaignEvent = "visit"
	CampaignEventRSVP      CampaignEvent = "rsvp"
)

// Valid indica si el evento es conocido.
func (e CampaignEvent) Valid() bool {
	return e == CampaignEventEmailSent || e == CampaignEventVisit || e == CampaignEventRSVP
}
