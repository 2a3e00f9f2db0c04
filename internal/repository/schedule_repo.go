package repository

import (
	"context"

	"coinstore/internal/models"

	"gorm.io/gorm"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, s *models.Schedule) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, s *models.Schedule) error {
	return translate(r.db.WithContext(ctx).Save(s).Error)
}

func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Schedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// List returns shifts in [from, to] ordered by date and start time. Empty bounds are open.
func (r *ScheduleRepository) List(ctx context.Context, username, from, to string) ([]models.Schedule, error) {
	q := r.db.WithContext(ctx).Model(&models.Schedule{})
	if username != "" {
		q = q.Where("username = ?", username)
	}
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	var list []models.Schedule
	err := q.Order("date ASC").Order("start_time ASC").Find(&list).Error
	return list, err
}

// Overlapping returns the user's other shifts on date that intersect [start, end).
func (r *ScheduleRepository) Overlapping(ctx context.Context, userID uint, date, start, end, excludeID string) ([]models.Schedule, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND start_time < ? AND end_time > ?", userID, date, end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var list []models.Schedule
	err := q.Find(&list).Error
	return list, err
}
