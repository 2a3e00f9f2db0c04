package repository

import (
	"context"

	"coinstore/internal/models"

	"gorm.io/gorm"
)

// PaymentFilter narrows cash payment listings. Zero fields match everything.
type PaymentFilter struct {
	Direction string
	Method    string
	Username  string
	GameName  string
	DateFrom  string
	DateTo    string
}

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (f PaymentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Direction != "" {
		q = q.Where("direction = ?", f.Direction)
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}
	if f.Username != "" {
		q = q.Where("username = ?", f.Username)
	}
	if f.GameName != "" {
		q = q.Where("game_name = ?", f.GameName)
	}
	if f.DateFrom != "" {
		q = q.Where("date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("date <= ?", f.DateTo)
	}
	return q
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.CashPayment) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.CashPayment, error) {
	var p models.CashPayment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *models.CashPayment) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CashPayment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *PaymentRepository) List(ctx context.Context, f PaymentFilter, page Page) ([]models.CashPayment, int64, error) {
	q := f.apply(r.db.WithContext(ctx).Model(&models.CashPayment{}))
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.CashPayment
	err := page.scope(q).Order("date DESC").Order("created_at DESC").Find(&list).Error
	return list, total, err
}
