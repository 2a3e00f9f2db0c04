package repository

import (
	"context"
	"sync"
	"testing"

	"coinstore/internal/database"
	"coinstore/internal/domain"
	"coinstore/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustCoins(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository(database.NewTestDB(t))
	require.NoError(t, repo.Create(ctx, &models.Game{Name: "X"}))

	found, err := repo.AdjustCoins(ctx, "X", decimal.NewFromInt(-100))
	require.NoError(t, err)
	require.True(t, found)
	found, err = repo.AdjustCoins(ctx, "X", decimal.RequireFromString("40.5"))
	require.NoError(t, err)
	require.True(t, found)

	g, err := repo.GetByName(ctx, "X")
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("-59.5").Equal(g.TotalCoins), "got %s", g.TotalCoins)
	require.EqualValues(t, 2, g.CoinsVersion)

	found, err = repo.AdjustCoins(ctx, "missing", decimal.NewFromInt(5))
	require.NoError(t, err)
	require.False(t, found)
}

func TestAdjustCoinsConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository(database.NewTestDB(t))
	require.NoError(t, repo.Create(ctx, &models.Game{Name: "X"}))

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustCoins(ctx, "X", decimal.NewFromInt(2))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	g, err := repo.GetByName(ctx, "X")
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(2*writers).Equal(g.TotalCoins), "got %s", g.TotalCoins)
}

func TestSetCoinsIsVersionGuarded(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository(database.NewTestDB(t))
	g := &models.Game{Name: "X"}
	require.NoError(t, repo.Create(ctx, g))
	_, err := repo.AdjustCoins(ctx, "X", decimal.NewFromInt(7))
	require.NoError(t, err)

	ok, err := repo.SetCoins(ctx, g.ID, 0, decimal.NewFromInt(1))
	require.NoError(t, err)
	require.False(t, ok, "stale version must not write")

	ok, err = repo.SetCoins(ctx, g.ID, 1, decimal.NewFromInt(1))
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(ctx, g.ID)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(1).Equal(got.TotalCoins))
	require.EqualValues(t, 2, got.CoinsVersion)
}

func TestRenameMovesEntries(t *testing.T) {
	ctx := context.Background()
	db := database.NewTestDB(t)
	games := NewGameRepository(db)
	entries := NewEntryRepository(db)

	g := &models.Game{Name: "Old"}
	require.NoError(t, games.Create(ctx, g))
	e := &models.GameEntry{Kind: domain.KindFreeplay, GameName: "Old", Username: "u", AmountBase: decimal.NewFromInt(1), Date: "2024-01-01"}
	require.NoError(t, entries.Create(ctx, e))

	require.NoError(t, games.Rename(ctx, g.ID, "New"))
	got, err := entries.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "New", got.GameName)

	require.ErrorIs(t, games.Rename(ctx, 999, "Nope"), domain.ErrNotFound)
}

func TestGameNameIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository(database.NewTestDB(t))
	require.NoError(t, repo.Create(ctx, &models.Game{Name: "X"}))
	require.ErrorIs(t, repo.Create(ctx, &models.Game{Name: "X"}), domain.ErrConflict)
}

func TestRecharge(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository(database.NewTestDB(t))
	g := &models.Game{Name: "X"}
	require.NoError(t, repo.Create(ctx, g))

	require.NoError(t, repo.Recharge(ctx, g.ID, decimal.NewFromInt(500), "2024-08-05"))
	require.NoError(t, repo.Recharge(ctx, g.ID, decimal.NewFromInt(250), "2024-08-06"))
	got, err := repo.GetByID(ctx, g.ID)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(750).Equal(got.CoinsRecharged))
	require.Equal(t, "2024-08-06", got.LastRechargeDate)
	require.True(t, got.TotalCoins.IsZero())
}
