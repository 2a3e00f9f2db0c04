package models

import (
	"time"

	"coinstore/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashPayment is money moved outside the coin ledger: cash received from or paid to a player.
type CashPayment struct {
	ID         string          `gorm:"primaryKey;size:36" json:"id"`
	Direction  string          `gorm:"size:8;not null;index" json:"direction"` // in | out
	Method     domain.Method   `gorm:"size:16;not null;index" json:"method"`
	Amount     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"amount"`
	PlayerName string          `gorm:"size:128" json:"player_name"`
	GameName   string          `gorm:"size:128;index" json:"game_name"`
	Note       string          `gorm:"type:text" json:"note"`
	Date       string          `gorm:"size:10;not null;index" json:"date"`
	ReceiptURL string          `gorm:"size:512" json:"receipt_url"`
	Username   string          `gorm:"size:64;not null;index" json:"username"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (CashPayment) TableName() string {
	return "cash_payments"
}

func (p *CashPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
