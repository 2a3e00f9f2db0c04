package repository

import (
	"errors"

	"coinstore/internal/domain"

	"gorm.io/gorm"
)

// translate maps storage errors onto the domain sentinels handlers understand.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	}
	return err
}

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return db
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return db.Limit(p.Limit).Offset((page - 1) * p.Limit)
}
