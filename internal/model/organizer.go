package model

import "github.com/mamutes/party-service/internal/repository"

// Organizer is a person or company running parties. UserID optionally
// links it to a login account.
type Organizer struct {
	OrganizerID int64  `json:"organizer_id"`
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Role        string `json:"role"`
	UserID      int64  `json:"user_id"`
}

type OrganizerRequest struct {
	Name    *string `json:"name" validate:"required"`
	Contact *string `json:"contact" validate:"required"`
	Role    *string `json:"role" validate:"required"`
	UserID  *int64  `json:"user_id" validate:"required"`
}

type OrganizerPatch struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Role    *string `json:"role"`
	UserID  *int64  `json:"user_id"`
}

func (r *OrganizerRequest) ApplyTo(o *Organizer) { (*OrganizerPatch)(r).ApplyTo(o) }

func (p *OrganizerPatch) ApplyTo(o *Organizer) {
	set(&o.Name, p.Name)
	set(&o.Contact, p.Contact)
	set(&o.Role, p.Role)
	set(&o.UserID, p.UserID)
}

var OrganizerTable = repository.Table[Organizer]{
	Entity:  "Organizer",
	Name:    "organizers",
	Key:     "organizer_id",
	Columns: []string{"name", "contact", "role", "user_id"},
	ID:      func(o *Organizer) *int64 { return &o.OrganizerID },
	Fields:  func(o *Organizer) []any { return []any{&o.Name, &o.Contact, &o.Role, &o.UserID} },
}
