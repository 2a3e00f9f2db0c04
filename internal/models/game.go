package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Game is a coin pool players deposit into and redeem from.
// TotalCoins is a cached balance maintained by ledger writes; CoinsVersion
// increases on every write to it.
type Game struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Name             string          `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CoinsRecharged   decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"coins_recharged"`
	LastRechargeDate string          `gorm:"size:10" json:"last_recharge_date"`
	TotalCoins       decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"total_coins"`
	CoinsVersion     int64           `gorm:"not null;default:0" json:"coins_version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (Game) TableName() string {
	return "games"
}
