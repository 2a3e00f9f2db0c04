package repository

import (
	"context"
	"testing"

	"coinstore/internal/database"
	"coinstore/internal/models"

	"github.com/stretchr/testify/require"
)

func TestScheduleOverlapping(t *testing.T) {
	ctx := context.Background()
	repo := NewScheduleRepository(database.NewTestDB(t))
	shift := &models.Schedule{UserID: 1, Username: "ann", Date: "2024-08-05", StartTime: "09:00", EndTime: "17:00"}
	require.NoError(t, repo.Create(ctx, shift))

	tests := []struct {
		name       string
		start, end string
		exclude    string
		want       int
	}{
		{"inside", "10:00", "11:00", "", 1},
		{"touching end", "17:00", "20:00", "", 0},
		{"touching start", "06:00", "09:00", "", 0},
		{"spanning", "08:00", "18:00", "", 1},
		{"self excluded", "10:00", "11:00", shift.ID, 0},
	}
	for _, tt := range tests {
		got, err := repo.Overlapping(ctx, 1, "2024-08-05", tt.start, tt.end, tt.exclude)
		require.NoError(t, err, tt.name)
		require.Len(t, got, tt.want, tt.name)
	}

	list, err := repo.List(ctx, "ann", "2024-08-01", "2024-08-31")
	require.NoError(t, err)
	require.Len(t, list, 1)
}
