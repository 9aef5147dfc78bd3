package model

import "github.com/mamutes/party-service/internal/repository"

type Attraction struct {
	AttractionID int64  `json:"attraction_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PartyID      int64  `json:"party_id"`
}

type AttractionRequest struct {
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description" validate:"required"`
	PartyID     *int64  `json:"party_id" validate:"required"`
}

type AttractionPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PartyID     *int64  `json:"party_id"`
}

func (r *AttractionRequest) ApplyTo(a *Attraction) { (*AttractionPatch)(r).ApplyTo(a) }

func (p *AttractionPatch) ApplyTo(a *Attraction) {
	set(&a.Name, p.Name)
	set(&a.Description, p.Description)
	set(&a.PartyID, p.PartyID)
}

var AttractionTable = repository.Table[Attraction]{
	Entity:  "Attraction",
	Name:    "attractions",
	Key:     "attraction_id",
	Columns: []string{"name", "description", "party_id"},
	ID:      func(a *Attraction) *int64 { return &a.AttractionID },
	Fields:  func(a *Attraction) []any { return []any{&a.Name, &a.Description, &a.PartyID} },
}
