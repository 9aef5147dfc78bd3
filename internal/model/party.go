package model

import "github.com/mamutes/party-service/internal/repository"

// Party represents an event listed for sale, stored in the `parties`
// table.  AvailableTickets is an informational figure set by the
// organizer; ticket purchases never change it.  OrganizerID is an
// informal reference to organizers.organizer_id with no constraint.
type Party struct {
	PartyID          int64    `json:"party_id"`          // parties.party_id
	Title            string   `json:"title"`             // parties.title
	Description      string   `json:"description"`       // parties.description
	Date             DateTime `json:"date"`              // parties.date
	Time             DateTime `json:"time"`              // parties.time
	Location         string   `json:"location"`          // parties.location
	Price            float64  `json:"price"`             // parties.price
	AvailableTickets int64    `json:"available_tickets"` // parties.available_tickets
	OrganizerID      int64    `json:"organizer_id"`      // parties.organizer_id
}

// PartyRequest is the body of POST /parties and PUT /parties/:id.
type PartyRequest struct {
	Title            *string   `json:"title" validate:"required"`
	Description      *string   `json:"description" validate:"required"`
	Date             *DateTime `json:"date" validate:"required"`
	Time             *DateTime `json:"time" validate:"required"`
	Location         *string   `json:"location" validate:"required"`
	Price            *float64  `json:"price" validate:"required"`
	AvailableTickets *int64    `json:"available_tickets" validate:"required"`
	OrganizerID      *int64    `json:"organizer_id" validate:"required"`
}

// PartyPatch is the body of PATCH /parties/:id.
type PartyPatch struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Date             *DateTime `json:"date"`
	Time             *DateTime `json:"time"`
	Location         *string   `json:"location"`
	Price            *float64  `json:"price"`
	AvailableTickets *int64    `json:"available_tickets"`
	OrganizerID      *int64    `json:"organizer_id"`
}

func (r *PartyRequest) ApplyTo(p *Party) { (*PartyPatch)(r).ApplyTo(p) }

func (pp *PartyPatch) ApplyTo(p *Party) {
	set(&p.Title, pp.Title)
	set(&p.Description, pp.Description)
	set(&p.Date, pp.Date)
	set(&p.Time, pp.Time)
	set(&p.Location, pp.Location)
	set(&p.Price, pp.Price)
	set(&p.AvailableTickets, pp.AvailableTickets)
	set(&p.OrganizerID, pp.OrganizerID)
}

var PartyTable = repository.Table[Party]{
	Entity: "Party",
	Name:   "parties",
	Key:    "party_id",
	Columns: []string{
		"title", "description", "date", "time", "location",
		"price", "available_tickets", "organizer_id",
	},
	ID: func(p *Party) *int64 { return &p.PartyID },
	Fields: func(p *Party) []any {
		return []any{
			&p.Title, &p.Description, &p.Date, &p.Time, &p.Location,
			&p.Price, &p.AvailableTickets, &p.OrganizerID,
		}
	},
}
