package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeadStatus estado del embudo comercial.
type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "NEW"
	LeadStatusContacted    LeadStatus = "CONTACTED"
	LeadStatusQualified    LeadStatus = "QUALIFIED"
	LeadStatusProposalSent LeadStatus = "PROPOSAL_SENT"
	LeadStatusNegotiating  LeadStatus = "NEGOTIATING"
	LeadStatusClosedWon    LeadStatus = "CLOSED_WON"
	LeadStatusClosedLost   LeadStatus = "CLOSED_LOST"
	LeadStatusOnHold       LeadStatus = "ON_HOLD"
)

// LeadStatuses todos los valores válidos, en orden del embudo.
var LeadStatuses = []LeadStatus{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusProposalSent,
	LeadStatusNegotiating, LeadStatusClosedWon, LeadStatusClosedLost, LeadStatusOnHold,
}

// Valid indica si el estado pertenece al enum.
func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Priority prioridad del lead.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Priorities todos los valores válidos.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid indica si la prioridad pertenece al enum.
func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// Orígenes con los que se crean leads automáticamente.
const (
	LeadSourceLegacyViewer = "Legacy Viewer"
	LeadSourceManualEntry  = "Manual Entry"
	LeadSourceBackfill     = "Backfill"
	AssigneeSystem         = "system"
)

// LeadInfo estado comercial del negocio (1:1 con Business).
type LeadInfo struct {
	ID                string
	BusinessID        string
	Status            LeadStatus
	Priority          Priority
	AssignedTo        string
	EstimatedValue    decimal.Decimal
	ExpectedCloseDate *time.Time
	LastContactDate   *time.Time
	NextFollowUpDate  *time.Time
	Source            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewLeadInfo construye un lead con los valores por defecto (NEW, MEDIUM, valor 0).
func NewLeadInfo(id, businessID, assignedTo, source string, now time.Time) *LeadInfo {
	return &LeadInfo{
		ID:             id,
		BusinessID:     businessID,
		Status:         LeadStatusNew,
		Priority:       PriorityMedium,
		AssignedTo:     assignedTo,
		EstimatedValue: decimal.Zero,
		Source:         source,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
