package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dinner-invite/internal/database"
	"github.com/iliyamo/dinner-invite/internal/model"
)

func setupGuestRepo(t *testing.T) *GuestRepo {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return NewGuestRepo(db)
}

func TestGuestRepo_ListEmpty(t *testing.T) {
	repo := setupGuestRepo(t)

	guests, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, guests)
	assert.Empty(t, guests)
}

func TestGuestRepo_InsertThenList(t *testing.T) {
	repo := setupGuestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, model.Reservation{Seat: 5, Name: "Eve"}))
	require.NoError(t, repo.Insert(ctx, model.Reservation{Seat: 2, Name: "Bob"}))

	guests, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Reservation{
		{Seat: 2, Name: "Bob"},
		{Seat: 5, Name: "Eve"},
	}, guests)
}

func TestGuestRepo_InsertDuplicateSeat(t *testing.T) {
	repo := setupGuestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, model.Reservation{Seat: 3, Name: "Ada"}))

	err := repo.Insert(ctx, model.Reservation{Seat: 3, Name: "Grace"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.Contains(t, err.Error(), "seat 3")

	guests, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Reservation{{Seat: 3, Name: "Ada"}}, guests)
}

func TestGuestRepo_ClosedDB(t *testing.T) {
	repo := setupGuestRepo(t)
	require.NoError(t, repo.DB().Close())

	_, err := repo.List(context.Background())
	assert.Error(t, err)

	err = repo.Insert(context.Background(), model.Reservation{Seat: 1, Name: "Ada"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSeatTaken)
}
