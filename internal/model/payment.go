package model

import "github.com/mamutes/party-service/internal/repository"

// Payment records money received from a user for a party. Status is a
// free-form label; nothing reconciles payments against tickets.
type Payment struct {
	PaymentID int64   `json:"payment_id"`
	UserID    int64   `json:"user_id"`
	PartyID   int64   `json:"party_id"`
	Amount    float64 `json:"amount"`
	Date      Date    `json:"date"`
	Status    string  `json:"status"`
}

type PaymentRequest struct {
	UserID  *int64   `json:"user_id" validate:"required"`
	PartyID *int64   `json:"party_id" validate:"required"`
	Amount  *float64 `json:"amount" validate:"required"`
	Date    *Date    `json:"date" validate:"required"`
	Status  *string  `json:"status" validate:"required"`
}

type PaymentPatch struct {
	UserID  *int64   `json:"user_id"`
	PartyID *int64   `json:"party_id"`
	Amount  *float64 `json:"amount"`
	Date    *Date    `json:"date"`
	Status  *string  `json:"status"`
}

func (r *PaymentRequest) ApplyTo(p *Payment) { (*PaymentPatch)(r).ApplyTo(p) }

func (pp *PaymentPatch) ApplyTo(p *Payment) {
	set(&p.UserID, pp.UserID)
	set(&p.PartyID, pp.PartyID)
	set(&p.Amount, pp.Amount)
	set(&p.Date, pp.Date)
	set(&p.Status, pp.Status)
}

var PaymentTable = repository.Table[Payment]{
	Entity:  "Payment",
	Name:    "payments",
	Key:     "payment_id",
	Columns: []string{"user_id", "party_id", "amount", "date", "status"},
	ID:      func(p *Payment) *int64 { return &p.PaymentID },
	Fields:  func(p *Payment) []any { return []any{&p.UserID, &p.PartyID, &p.Amount, &p.Date, &p.Status} },
}
