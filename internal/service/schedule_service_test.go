package service

import (
	"context"
	"testing"

	"coinstore/internal/domain"
	"coinstore/internal/logger"
	"coinstore/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestScheduleOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := addUser(t, f, "ann", "pw123456", domain.RoleStaff, true)
	bob := addUser(t, f, "bob", "pw123456", domain.RoleStaff, true)
	svc := NewScheduleService(repository.NewScheduleRepository(f.db), f.users, nil, logger.Discard())

	morning, err := svc.Create(ctx, manager, ScheduleInput{UserID: ann.ID, Date: "2024-08-05", StartTime: "08:00", EndTime: "12:00"})
	require.NoError(t, err)
	require.Equal(t, "ann", morning.Username)

	tests := []struct {
		name    string
		in      ScheduleInput
		wantErr error
	}{
		{"overlapping shift", ScheduleInput{UserID: ann.ID, Date: "2024-08-05", StartTime: "11:00", EndTime: "14:00"}, domain.ErrConflict},
		{"back to back", ScheduleInput{UserID: ann.ID, Date: "2024-08-05", StartTime: "12:00", EndTime: "16:00"}, nil},
		{"other user", ScheduleInput{UserID: bob.ID, Date: "2024-08-05", StartTime: "09:00", EndTime: "10:00"}, nil},
		{"other day", ScheduleInput{UserID: ann.ID, Date: "2024-08-06", StartTime: "09:00", EndTime: "10:00"}, nil},
		{"unknown user", ScheduleInput{UserID: 999, Date: "2024-08-05", StartTime: "20:00", EndTime: "21:00"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, manager, tt.in)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	// moving a shift does not conflict with itself
	_, err = svc.Update(ctx, manager, morning.ID, ScheduleInput{Date: "2024-08-05", StartTime: "07:00", EndTime: "11:00"})
	require.NoError(t, err)
}

func TestScheduleInputValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   ScheduleInput
	}{
		{"bad date", ScheduleInput{Date: "05/08/2024", StartTime: "08:00", EndTime: "09:00"}},
		{"bad start", ScheduleInput{Date: "2024-08-05", StartTime: "8am", EndTime: "09:00"}},
		{"end before start", ScheduleInput{Date: "2024-08-05", StartTime: "10:00", EndTime: "09:00"}},
		{"zero length", ScheduleInput{Date: "2024-08-05", StartTime: "10:00", EndTime: "10:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.True(t, domain.IsValidation(tt.in.validate()))
		})
	}
}
