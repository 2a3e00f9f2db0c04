package models

import "time"

type LoginHistory struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      *uint      `gorm:"index" json:"user_id"`
	Username    string     `gorm:"size:64;not null;index" json:"username"`
	IP          string     `gorm:"size:45" json:"ip"`
	UserAgent   string     `gorm:"size:512" json:"user_agent"`
	Success     bool       `gorm:"not null;index" json:"success"`
	Reason      string     `gorm:"size:64" json:"reason,omitempty"`
	LoggedOutAt *time.Time `json:"logged_out_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
}

func (LoginHistory) TableName() string {
	return "login_histories"
}
