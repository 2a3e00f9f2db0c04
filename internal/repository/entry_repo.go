package repository

import (
	"context"

	"coinstore/internal/ledger"
	"coinstore/internal/models"

	"gorm.io/gorm"
)

type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// applyFilter is the SQL form of ledger.Filter.Match.
func applyFilter(q *gorm.DB, f ledger.Filter) *gorm.DB {
	if f.Username != "" {
		q = q.Where("username = ?", f.Username)
	}
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}
	if f.GameName != "" {
		q = q.Where("game_name = ?", f.GameName)
	}
	if f.PlayerTag != "" {
		q = q.Where("player_tag = ?", f.PlayerTag)
	}
	if p := f.DatePrefix(); p != "" {
		q = q.Where("date LIKE ?", p+"%")
	}
	if f.DateFrom != "" {
		q = q.Where("date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("date <= ?", f.DateTo)
	}
	if f.Pending != nil {
		q = q.Where("is_pending = ?", *f.Pending)
	}
	return q
}

// WithBalances runs fn with entry and game repositories bound to one transaction,
// so an entry row and the cached balance moves it causes become visible together.
func (r *EntryRepository) WithBalances(ctx context.Context, fn func(entries *EntryRepository, games *GameRepository) error) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&EntryRepository{db: tx}, &GameRepository{db: tx})
	}))
}

func (r *EntryRepository) Create(ctx context.Context, e *models.GameEntry) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *EntryRepository) GetByID(ctx context.Context, id string) (*models.GameEntry, error) {
	var e models.GameEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *EntryRepository) Update(ctx context.Context, e *models.GameEntry) error {
	return translate(r.db.WithContext(ctx).Save(e).Error)
}

func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.GameEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// List returns one page of matching entries, newest first, with the total match count.
func (r *EntryRepository) List(ctx context.Context, f ledger.Filter, page Page) ([]models.GameEntry, int64, error) {
	q := applyFilter(r.db.WithContext(ctx).Model(&models.GameEntry{}), f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.GameEntry
	err := page.scope(q).Order("created_at DESC").Order("id ASC").Find(&entries).Error
	return entries, total, err
}

// FindAll returns every matching entry for aggregation and export.
func (r *EntryRepository) FindAll(ctx context.Context, f ledger.Filter) ([]models.GameEntry, error) {
	var entries []models.GameEntry
	err := applyFilter(r.db.WithContext(ctx), f).Order("date ASC").Order("created_at ASC").Find(&entries).Error
	return entries, err
}

// FindPending returns entries flagged pending; ledger.ListPending decides which are still owed.
func (r *EntryRepository) FindPending(ctx context.Context, username string) ([]models.GameEntry, error) {
	pending := true
	return r.FindAll(ctx, ledger.Filter{Username: username, Pending: &pending})
}
