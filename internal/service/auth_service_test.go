package service

import (
	"context"
	"testing"

	"coinstore/internal/auth"
	"coinstore/internal/domain"
	"coinstore/internal/logger"
	"coinstore/internal/models"
	"coinstore/internal/repository"

	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*fixture, *AuthService, *repository.LoginHistoryRepository) {
	t.Helper()
	f := newFixture(t)
	history := repository.NewLoginHistoryRepository(f.db)
	return f, NewAuthService(testConfig(), f.users, history, logger.Discard()), history
}

func addUser(t *testing.T, f *fixture, username, password, role string, active bool) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Username: username, PasswordHash: hash, Role: role, IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	if !active {
		u.IsActive = false
		require.NoError(t, f.users.Update(context.Background(), u))
	}
	return u
}

func TestLoginRecordsHistory(t *testing.T) {
	f, svc, history := newAuthFixture(t)
	ctx := context.Background()
	addUser(t, f, "ann", "s3cret!", domain.RoleStaff, true)
	addUser(t, f, "old", "s3cret!", domain.RoleStaff, false)
	meta := ClientMeta{IP: "10.0.0.1", UserAgent: "test"}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
		reason   string
	}{
		{"success", "ann", "s3cret!", nil, ""},
		{"bad password", "ann", "nope", ErrInvalidCreds, reasonBadPassword},
		{"unknown user", "ghost", "s3cret!", ErrInvalidCreds, reasonUnknownUser},
		{"inactive", "old", "s3cret!", ErrInactive, reasonInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, tokens, err := svc.Login(ctx, tt.username, tt.password, meta)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.username, u.Username)
				require.NotNil(t, u.LastLoginAt)
				claims, err := auth.ParseAccessToken(&svc.cfg.JWT, tokens.AccessToken)
				require.NoError(t, err)
				require.Equal(t, domain.RoleStaff, claims.Role)
			}

			success := tt.wantErr == nil
			rows, _, err := history.List(ctx, tt.username, &success, repository.Page{Page: 1, Limit: 1})
			require.NoError(t, err)
			require.Len(t, rows, 1)
			require.Equal(t, tt.reason, rows[0].Reason)
			require.Equal(t, "10.0.0.1", rows[0].IP)
		})
	}
}

func TestLogoutClosesSession(t *testing.T) {
	f, svc, history := newAuthFixture(t)
	ctx := context.Background()
	u := addUser(t, f, "ann", "pw123456", domain.RoleStaff, true)

	_, _, err := svc.Login(ctx, "ann", "pw123456", ClientMeta{})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, u.ID))

	rows, _, err := history.List(ctx, "ann", nil, repository.Page{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].LoggedOutAt)

	// nothing left open
	require.NoError(t, svc.Logout(ctx, u.ID))
}

func TestRefreshAndChangePassword(t *testing.T) {
	f, svc, _ := newAuthFixture(t)
	ctx := context.Background()
	u := addUser(t, f, "ann", "first-pass", domain.RoleManager, true)

	_, tokens, err := svc.Login(ctx, "ann", "first-pass", ClientMeta{})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, tokens.AccessToken)
	require.Error(t, err)

	require.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "wrong", "second-pass"), ErrInvalidCreds)
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "first-pass", "second-pass"))
	_, _, err = svc.Login(ctx, "ann", "second-pass", ClientMeta{})
	require.NoError(t, err)

	u.IsActive = false
	require.NoError(t, f.users.Update(ctx, u))
	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInactive)
}
