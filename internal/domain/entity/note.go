package entity

import "time"

// NoteType tipo de interacción registrada.
type NoteType string

const (
	NoteTypeCall     NoteType = "CALL"
	NoteTypeEmail    NoteType = "EMAIL"
	NoteTypeMeeting  NoteType = "MEETING"
	NoteTypeGeneral  NoteType = "GENERAL"
	NoteTypeFollowUp NoteType = "FOLLOW_UP"
)

// Valid indica si el tipo pertenece al enum.
func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeCall, NoteTypeEmail, NoteTypeMeeting, NoteTypeGeneral, NoteTypeFollowUp:
		return true
	}
	return false
}

// CountsAsContact llamadas y reuniones actualizan la fecha de último contacto del lead.
func (t NoteType) CountsAsContact() bool {
	return t == NoteTypeCall || t == NoteTypeMeeting
}

// Note nota de seguimiento sobre un negocio.
type Note struct {
	ID         string
	BusinessID string
	Content    string
	Type       NoteType
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
