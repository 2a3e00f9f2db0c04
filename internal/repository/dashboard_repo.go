package repository

import (
	"context"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/models"

	"gorm.io/gorm"
)

type DashboardCounts struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	TotalGames    int64 `json:"total_games"`
	TotalEntries  int64 `json:"total_entries"`
	EntriesToday  int64 `json:"entries_today"`
	PendingCount  int64 `json:"pending_count"`
	PaymentsToday int64 `json:"payments_today"`
	FailedLogins  int64 `json:"failed_logins_today"`
}

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Counts returns headline counters for the reporting date today, whose local midnight is dayStart.
func (r *DashboardRepository) Counts(ctx context.Context, today string, dayStart time.Time) (*DashboardCounts, error) {
	db := r.db.WithContext(ctx)
	var s DashboardCounts
	steps := []*gorm.DB{
		db.Model(&models.User{}).Count(&s.TotalUsers),
		db.Model(&models.User{}).Where("is_active = ?", true).Count(&s.ActiveUsers),
		db.Model(&models.Game{}).Count(&s.TotalGames),
		db.Model(&models.GameEntry{}).Count(&s.TotalEntries),
		db.Model(&models.GameEntry{}).Where("date = ?", today).Count(&s.EntriesToday),
		db.Model(&models.GameEntry{}).Where("is_pending = ?", true).Count(&s.PendingCount),
		db.Model(&models.CashPayment{}).Where("date = ?", today).Count(&s.PaymentsToday),
		db.Model(&models.LoginHistory{}).Where("success = ? AND created_at >= ?", false, dayStart).Count(&s.FailedLogins),
	}
	for _, step := range steps {
		if step.Error != nil {
			return nil, step.Error
		}
	}
	return &s, nil
}

// CountByRole returns the number of users per role.
func (r *DashboardRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[string]int64{domain.RoleAdmin: 0, domain.RoleManager: 0, domain.RoleStaff: 0}
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}
