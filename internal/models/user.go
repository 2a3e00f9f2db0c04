package models

import (
	"time"

	"coinstore/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"size:255" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // ADMIN | MANAGER | STAFF
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	FCMToken     string         `gorm:"size:512" json:"-"` // For push notifications
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// CanManage reports whether the user may change games, payments and schedules.
func (u *User) CanManage() bool {
	return u.Role == domain.RoleAdmin || u.Role == domain.RoleManager
}
