//go:build integration
// +build integration

package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/mamutes/party-service/internal/database"
	"github.com/mamutes/party-service/internal/model"
	"github.com/mamutes/party-service/internal/repository"
)

// setupMySQL starts a MySQL container, applies the schema and returns a pool.
func setupMySQL(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := mysql.Run(ctx, "mysql:8.0.36",
		mysql.WithDatabase("party"),
		mysql.WithUsername("app"),
		mysql.WithPassword("secret"),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "parseTime=true", "loc=UTC")
	require.NoError(t, err)
	db, err := database.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))
	// Migrating twice is harmless.
	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func TestMySQLRepo_PartyLifecycle(t *testing.T) {
	db := setupMySQL(t)
	ctx := context.Background()
	parties := repository.NewRepo(db, model.PartyTable)

	at := model.NewDateTime(time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC))
	p := model.Party{
		Title: "Rave", Description: "all night", Date: at, Time: at,
		Location: "Dock 4", Price: 25.5, AvailableTickets: 100, OrganizerID: 1,
	}
	require.NoError(t, parties.Insert(ctx, &p))
	require.Equal(t, int64(1), p.PartyID)

	got, err := parties.FindByID(ctx, p.PartyID)
	require.NoError(t, err)
	assert.Equal(t, p, *got)

	got.Price = 30
	require.NoError(t, parties.Save(ctx, got))
	again, err := parties.FindByID(ctx, p.PartyID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, again.Price)
	assert.Equal(t, "Rave", again.Title)

	ok, err := parties.ExistsByID(ctx, p.PartyID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, parties.DeleteByID(ctx, p.PartyID))
	require.NoError(t, parties.DeleteByID(ctx, p.PartyID))
	_, err = parties.FindByID(ctx, p.PartyID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMySQLRepo_DatesAndLookup(t *testing.T) {
	db := setupMySQL(t)
	ctx := context.Background()

	tickets := repository.NewRepo(db, model.TicketTable)
	tk := model.Ticket{UserID: 1, PartyID: 1, Quantity: 2, PurchaseDate: model.NewDate(2024, 5, 1)}
	require.NoError(t, tickets.Insert(ctx, &tk))
	assert.Equal(t, "2024-05-01", tk.PurchaseDate.String())

	users := repository.NewRepo(db, model.UserTable)
	for _, email := range []string{"a@x.com", "b@x.com"} {
		require.NoError(t, users.Insert(ctx, &model.User{Name: "n", Email: email, Password: "p", Type: "buyer"}))
	}
	u, err := users.FindFirstBy(ctx, "email", "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.UserID)

	all, err := users.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Update with an unknown identity inserts the row under that identity.
	require.NoError(t, users.Update(ctx, &model.User{UserID: 10, Name: "z", Email: "z@x.com", Password: "p", Type: "buyer"}))
	_, err = users.FindByID(ctx, 10)
	assert.NoError(t, err)
}
