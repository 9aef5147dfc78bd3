package router

import (
	"context"
	"database/sql"

	"github.com/mamutes/party-service/internal/handler"
	"github.com/mamutes/party-service/internal/model"
	"github.com/mamutes/party-service/internal/repository"
)

// UserStore is the user resource store; login also looks users up by email.
type UserStore interface {
	handler.Store[model.User]
	handler.UserFinder
}

// Stores bundles one store per entity kind plus a readiness check for the
// backend they share.
type Stores struct {
	Users       UserStore
	Parties     handler.Store[model.Party]
	Tickets     handler.Store[model.Ticket]
	Organizers  handler.Store[model.Organizer]
	Attractions handler.Store[model.Attraction]
	Reviews     handler.Store[model.Review]
	Payments    handler.Store[model.Payment]
	Ping        func(context.Context) error
}

// MySQLStores backs every resource with the shared pool.
func MySQLStores(db *sql.DB) Stores {
	return Stores{
		Users:       repository.NewRepo(db, model.UserTable),
		Parties:     repository.NewRepo(db, model.PartyTable),
		Tickets:     repository.NewRepo(db, model.TicketTable),
		Organizers:  repository.NewRepo(db, model.OrganizerTable),
		Attractions: repository.NewRepo(db, model.AttractionTable),
		Reviews:     repository.NewRepo(db, model.ReviewTable),
		Payments:    repository.NewRepo(db, model.PaymentTable),
		Ping:        db.PingContext,
	}
}

// MemoryStores keeps every resource in process memory.
func MemoryStores() Stores {
	return Stores{
		Users:       repository.NewMemRepo(model.UserTable),
		Parties:     repository.NewMemRepo(model.PartyTable),
		Tickets:     repository.NewMemRepo(model.TicketTable),
		Organizers:  repository.NewMemRepo(model.OrganizerTable),
		Attractions: repository.NewMemRepo(model.AttractionTable),
		Reviews:     repository.NewMemRepo(model.ReviewTable),
		Payments:    repository.NewMemRepo(model.PaymentTable),
		Ping:        func(context.Context) error { return nil },
	}
}
