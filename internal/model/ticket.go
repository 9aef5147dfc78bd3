package model

import "github.com/mamutes/party-service/internal/repository"

// Ticket records a purchase of Quantity tickets for a party by a user.
// Creating tickets does not touch Party.AvailableTickets.
type Ticket struct {
	TicketID     int64 `json:"ticket_id"`
	UserID       int64 `json:"user_id"`
	PartyID      int64 `json:"party_id"`
	Quantity     int64 `json:"quantity"`
	PurchaseDate Date  `json:"purchase_date"`
}

type TicketRequest struct {
	UserID       *int64 `json:"user_id" validate:"required"`
	PartyID      *int64 `json:"party_id" validate:"required"`
	Quantity     *int64 `json:"quantity" validate:"required"`
	PurchaseDate *Date  `json:"purchase_date" validate:"required"`
}

type TicketPatch struct {
	UserID       *int64 `json:"user_id"`
	PartyID      *int64 `json:"party_id"`
	Quantity     *int64 `json:"quantity"`
	PurchaseDate *Date  `json:"purchase_date"`
}

func (r *TicketRequest) ApplyTo(t *Ticket) { (*TicketPatch)(r).ApplyTo(t) }

func (p *TicketPatch) ApplyTo(t *Ticket) {
	set(&t.UserID, p.UserID)
	set(&t.PartyID, p.PartyID)
	set(&t.Quantity, p.Quantity)
	set(&t.PurchaseDate, p.PurchaseDate)
}

var TicketTable = repository.Table[Ticket]{
	Entity:  "Ticket",
	Name:    "tickets",
	Key:     "ticket_id",
	Columns: []string{"user_id", "party_id", "quantity", "purchase_date"},
	ID:      func(t *Ticket) *int64 { return &t.TicketID },
	Fields:  func(t *Ticket) []any { return []any{&t.UserID, &t.PartyID, &t.Quantity, &t.PurchaseDate} },
}
