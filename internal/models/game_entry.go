package models

import (
	"time"

	"coinstore/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GameEntry is one coin movement: a deposit, a redemption or a freeplay grant.
type GameEntry struct {
	ID         string           `gorm:"primaryKey;size:36" json:"id"`
	Kind       domain.EntryKind `gorm:"size:16;not null;index" json:"type"`
	Mode       domain.EntryMode `gorm:"size:16;not null;default:'our_tag'" json:"mode"`
	Method     domain.Method    `gorm:"size:16;index" json:"method"`
	GameName   string           `gorm:"size:128;not null;index" json:"game_name"`
	PlayerName string           `gorm:"size:128" json:"player_name"`
	PlayerTag  string           `gorm:"size:128;index" json:"player_tag"`
	Username   string           `gorm:"size:64;not null;index" json:"username"`

	AmountBase  decimal.Decimal     `gorm:"type:decimal(16,2);not null;default:0" json:"amount_base"`
	BonusRate   decimal.Decimal     `gorm:"type:decimal(6,2);not null;default:0" json:"bonus_rate"`
	BonusAmount decimal.Decimal     `gorm:"type:decimal(16,2);not null;default:0" json:"bonus_amount"`
	AmountFinal decimal.NullDecimal `gorm:"type:decimal(16,2)" json:"amount_final"`

	// Redemption payout tracking.
	TotalCashout decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"total_cashout"`
	TotalPaid    decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"total_paid"`
	RemainingPay decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"remaining_pay"`

	// Player-tag deposit flow.
	CashoutAmount decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"cashout_amount"`
	Reduction     decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"reduction"`

	IsPending bool      `gorm:"not null;default:false;index" json:"is_pending"`
	Date      string    `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GameEntry) TableName() string {
	return "game_entries"
}

func (e *GameEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EffectiveAmount is AmountFinal when set, else AmountBase. Rows imported
// before AmountFinal existed have only a base amount.
func (e *GameEntry) EffectiveAmount() decimal.Decimal {
	if e.AmountFinal.Valid {
		return e.AmountFinal.Decimal
	}
	return e.AmountBase
}

// PlayerLabel names the player for display: name, then tag, then "Unknown".
func (e *GameEntry) PlayerLabel() string {
	if e.PlayerName != "" {
		return e.PlayerName
	}
	if e.PlayerTag != "" {
		return e.PlayerTag
	}
	return "Unknown"
}
