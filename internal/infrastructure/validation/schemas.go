package validation

// LegacyUpdate cuerpo de POST /api/legacy/business/:id/update. Los campos con tipo
// laxo conservan el comportamiento del visor: verified se interpreta por verdad y
// notes/category solo se aplican si son string.
var LegacyUpdate = MustCompile("legacy_update", `{
	"type": "object",
	"properties": {
		"verified": {},
		"outreach_status": {"type": ["string", "null"]},
		"stage": {"type": ["string", "null"]},
		"notes": {},
		"category": {}
	}
}`)

// BusinessPatch cuerpo de PATCH /api/businesses/:id.
var BusinessPatch = MustCompile("business_patch", `{
	"type": "object",
	"properties": {
		"leadInfo": {
			"type": "object",
			"properties": {
				"status": {"enum": ["NEW", "CONTACTED", "QUALIFIED", "PROPOSAL_SENT", "NEGOTIATING", "CLOSED_WON", "CLOSED_LOST", "ON_HOLD"]},
				"priority": {"enum": ["LOW", "MEDIUM", "HIGH", "URGENT"]},
				"assignedTo": {"type": "string"},
				"estimatedValue": {"type": "number"},
				"expectedCloseDate": {"type": "string"},
				"lastContactDate": {"type": "string"},
				"nextFollowUpDate": {"type": "string"}
			}
		},
		"editableData": {
			"type": "object",
			"properties": {
				"primaryPhone": {"type": "string"},
				"primaryEmail": {"type": "string"},
				"contactPerson": {"type": "string"},
				"alternatePhone": {"type": "string"},
				"alternateEmail": {"type": "string"},
				"notes": {"type": "string"},
				"tags": {"type": "array", "items": {"type": "string"}}
			}
		}
	}
}`)

// NoteCreate cuerpo de POST /api/businesses/:id/notes.
var NoteCreate = MustCompile("note_create", `{
	"type": "object",
	"required": ["content"],
	"properties": {
		"content": {"type": "string", "minLength": 1},
		"type": {"enum": ["CALL", "EMAIL", "MEETING", "GENERAL", "FOLLOW_UP"]}
	}
}`)

// IntegrationEvent cuerpo de POST /api/integration/events.
var IntegrationEvent = MustCompile("integration_event", `{
	"type": "object",
	"required": ["type"],
	"properties": {
		"token": {"type": "string"},
		"businessId": {"type": "string"},
		"type": {"enum": ["email_sent", "visit", "rsvp"]},
		"meta": {"type": ["object", "null"]}
	},
	"anyOf": [
		{"required": ["token"], "properties": {"token": {"minLength": 1}}},
		{"required": ["businessId"], "properties": {"businessId": {"minLength": 1}}}
	]
}`)
