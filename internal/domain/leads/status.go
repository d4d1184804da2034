package leads

import (
	"strings"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
)

// Etiquetas de contacto (outreach) que usa el visor legacy.
const (
	OutreachNotContacted = "not_contacted"
	OutreachAttempted    = "attempted"
	OutreachContacted    = "contacted"
	OutreachQualified    = "qualified"
	OutreachNegotiation  = "negotiation"
	OutreachWon          = "won"
	OutreachLost         = "lost"
)

// Etiquetas de etapa del visor legacy.
const (
	StageLead        = "lead"
	StageProspect    = "prospect"
	StageNegotiation = "negotiation"
	StageWon         = "won"
	StageLost        = "lost"
)

// Ambas familias de etiquetas se derivan del único estado persistido (LeadInfo.Status).
var (
	outreachByStatus = map[entity.LeadStatus]string{
		entity.LeadStatusNew:         OutreachNotContacted,
		entity.LeadStatusContacted:   OutreachContacted,
		entity.LeadStatusQualified:   OutreachQualified,
		entity.LeadStatusNegotiating: OutreachNegotiation,
		entity.LeadStatusClosedWon:   OutreachWon,
		entity.LeadStatusClosedLost:  OutreachLost,
		entity.LeadStatusOnHold:      OutreachNotContacted,
	}
	stageByStatus = map[entity.LeadStatus]string{
		entity.LeadStatusNew:         StageLead,
		entity.LeadStatusContacted:   StageProspect,
		entity.LeadStatusQualified:   StageProspect,
		entity.LeadStatusNegotiating: StageNegotiation,
		entity.LeadStatusClosedWon:   StageWon,
		entity.LeadStatusClosedLost:  StageLost,
		entity.LeadStatusOnHold:      StageLead,
	}

	statusByStage = map[string]entity.LeadStatus{
		StageLead:        entity.LeadStatusNew,
		StageProspect:    entity.LeadStatusQualified,
		StageNegotiation: entity.LeadStatusNegotiating,
		StageWon:         entity.LeadStatusClosedWon,
		StageLost:        entity.LeadStatusClosedLost,
	}
	statusByOutreach = map[string]entity.LeadStatus{
		OutreachNotContacted: entity.LeadStatusNew,
		OutreachAttempted:    entity.LeadStatusContacted,
		OutreachContacted:    entity.LeadStatusContacted,
		OutreachQualified:    entity.LeadStatusQualified,
		OutreachWon:          entity.LeadStatusClosedWon,
		OutreachLost:         entity.LeadStatusClosedLost,
	}
)

// OutreachLabel etiqueta de contacto del estado; "" si no tiene (p.ej. PROPOSAL_SENT).
func OutreachLabel(s entity.LeadStatus) string { return outreachByStatus[s] }

// StageLabel etiqueta de etapa del estado; "" si no tiene.
func StageLabel(s entity.LeadStatus) string { return stageByStatus[s] }

// ResolveStatus traduce las etiquetas del visor a un estado. La etapa tiene prioridad;
// si no mapea se intenta con outreach. ok=false cuando ninguna resuelve.
func ResolveStatus(stage, outreach string) (entity.LeadStatus, bool) {
	if s, ok := statusByStage[strings.ToLower(strings.TrimSpace(stage))]; ok {
		return s, true
	}
	if s, ok := statusByOutreach[strings.ToLower(strings.TrimSpace(outreach))]; ok {
		return s, true
	}
	return "", false
}
