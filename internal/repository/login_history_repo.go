package repository

import (
	"context"
	"time"

	"coinstore/internal/models"

	"gorm.io/gorm"
)

type LoginHistoryRepository struct {
	db *gorm.DB
}

func NewLoginHistoryRepository(db *gorm.DB) *LoginHistoryRepository {
	return &LoginHistoryRepository{db: db}
}

func (r *LoginHistoryRepository) Create(ctx context.Context, h *models.LoginHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

// CloseLatest stamps the user's most recent open successful login as logged out.
func (r *LoginHistoryRepository) CloseLatest(ctx context.Context, userID uint, at time.Time) error {
	var h models.LoginHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND success = ? AND logged_out_at IS NULL", userID, true).
		Order("created_at DESC").Order("id DESC").
		First(&h).Error
	if err != nil {
		return translate(err)
	}
	return r.db.WithContext(ctx).Model(&h).Update("logged_out_at", at).Error
}

func (r *LoginHistoryRepository) List(ctx context.Context, username string, success *bool, page Page) ([]models.LoginHistory, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.LoginHistory{})
	if username != "" {
		q = q.Where("username = ?", username)
	}
	if success != nil {
		q = q.Where("success = ?", *success)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.LoginHistory
	err := page.scope(q).Order("created_at DESC").Order("id DESC").Find(&list).Error
	return list, total, err
}
