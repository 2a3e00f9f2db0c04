package database

import (
	"testing"

	"coinstore/config"
	"coinstore/internal/domain"
	"coinstore/internal/logger"
	"coinstore/internal/models"

	"github.com/stretchr/testify/require"
)

func TestSeedAdmin(t *testing.T) {
	db := NewTestDB(t)
	cfg := &config.AdminConfig{Username: "root", Email: "root@example.com", Password: "s3cret-pass"}

	require.NoError(t, SeedAdmin(db, cfg, logger.Discard()))
	require.NoError(t, SeedAdmin(db, cfg, logger.Discard()))

	var admins []models.User
	require.NoError(t, db.Where("role = ?", domain.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	require.Equal(t, "root", admins[0].Username)
	require.True(t, admins[0].IsActive)
}

func TestSeedAdminWithoutPassword(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, SeedAdmin(db, &config.AdminConfig{Username: "root"}, logger.Discard()))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
}
