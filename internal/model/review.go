package model

import "github.com/mamutes/party-service/internal/repository"

// Review is a user's rating of a party. Rating is not range-checked.
type Review struct {
	ReviewID int64   `json:"review_id"`
	UserID   int64   `json:"user_id"`
	PartyID  int64   `json:"party_id"`
	Rating   float64 `json:"rating"`
	Comment  string  `json:"comment"`
	Date     Date    `json:"date"`
}

type ReviewRequest struct {
	UserID  *int64   `json:"user_id" validate:"required"`
	PartyID *int64   `json:"party_id" validate:"required"`
	Rating  *float64 `json:"rating" validate:"required"`
	Comment *string  `json:"comment" validate:"required"`
	Date    *Date    `json:"date" validate:"required"`
}

type ReviewPatch struct {
	UserID  *int64   `json:"user_id"`
	PartyID *int64   `json:"party_id"`
	Rating  *float64 `json:"rating"`
	Comment *string  `json:"comment"`
	Date    *Date    `json:"date"`
}

func (r *ReviewRequest) ApplyTo(v *Review) { (*ReviewPatch)(r).ApplyTo(v) }

func (p *ReviewPatch) ApplyTo(v *Review) {
	set(&v.UserID, p.UserID)
	set(&v.PartyID, p.PartyID)
	set(&v.Rating, p.Rating)
	set(&v.Comment, p.Comment)
	set(&v.Date, p.Date)
}

var ReviewTable = repository.Table[Review]{
	Entity:  "Review",
	Name:    "reviews",
	Key:     "review_id",
	Columns: []string{"user_id", "party_id", "rating", "comment", "date"},
	ID:      func(v *Review) *int64 { return &v.ReviewID },
	Fields:  func(v *Review) []any { return []any{&v.UserID, &v.PartyID, &v.Rating, &v.Comment, &v.Date} },
}
