package repository

import (
	"context"
	"testing"
	"time"

	"coinstore/internal/database"
	"coinstore/internal/domain"
	"coinstore/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCloseLatestLogin(t *testing.T) {
	ctx := context.Background()
	repo := NewLoginHistoryRepository(database.NewTestDB(t))
	uid := uint(7)

	first := &models.LoginHistory{UserID: &uid, Username: "ann", Success: true, CreatedAt: time.Now().Add(-time.Hour)}
	second := &models.LoginHistory{UserID: &uid, Username: "ann", Success: true, CreatedAt: time.Now()}
	failed := &models.LoginHistory{Username: "ann", Success: false, Reason: "bad_password"}
	for _, h := range []*models.LoginHistory{first, second, failed} {
		require.NoError(t, repo.Create(ctx, h))
	}

	require.NoError(t, repo.CloseLatest(ctx, uid, time.Now()))

	list, total, err := repo.List(ctx, "ann", nil, Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	byID := map[uint]models.LoginHistory{}
	for _, h := range list {
		byID[h.ID] = h
	}
	require.NotNil(t, byID[second.ID].LoggedOutAt)
	require.Nil(t, byID[first.ID].LoggedOutAt)

	ok := false
	failures, total, err := repo.List(ctx, "", &ok, Page{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "bad_password", failures[0].Reason)

	require.ErrorIs(t, repo.CloseLatest(ctx, 99, time.Now()), domain.ErrNotFound)
}
