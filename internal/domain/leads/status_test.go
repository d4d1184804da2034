package leads_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/leadmine-api/internal/domain/entity"
	"github.com/jhoicas/leadmine-api/internal/domain/leads"
)

func TestLabels(t *testing.T) {
	cases := map[entity.LeadStatus][2]string{
		entity.LeadStatusNew:          {"not_contacted", "lead"},
		entity.LeadStatusContacted:    {"contacted", "prospect"},
		entity.LeadStatusQualified:    {"qualified", "prospect"},
		entity.LeadStatusNegotiating:  {"negotiation", "negotiation"},
		entity.LeadStatusClosedWon:    {"won", "won"},
		entity.LeadStatusClosedLost:   {"lost", "lost"},
		entity.LeadStatusOnHold:       {"not_contacted", "lead"},
		entity.LeadStatusProposalSent: {"", ""},
	}
	for status, want := range cases {
		assert.Equal(t, want[0], leads.OutreachLabel(status), status)
		assert.Equal(t, want[1], leads.StageLabel(status), status)
	}
}

func TestResolveStatus(t *testing.T) {
	s, ok := leads.ResolveStatus("Prospect", "won")
	assert.True(t, ok)
	assert.Equal(t, entity.LeadStatusQualified, s, "la etapa tiene prioridad")

	s, ok = leads.ResolveStatus("desconocida", "attempted")
	assert.True(t, ok)
	assert.Equal(t, entity.LeadStatusContacted, s, "cae a outreach si la etapa no mapea")

	_, ok = leads.ResolveStatus("", "")
	assert.False(t, ok)
}
