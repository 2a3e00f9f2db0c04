package ledger

import (
	"sort"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/models"

	"github.com/shopspring/decimal"
)

// OutstandingKind tells what an outstanding amount is owed for.
type OutstandingKind string

const (
	// OutstandingRedemption is payout still owed on a redemption (RemainingPay).
	OutstandingRedemption OutstandingKind = "redemption"
	// OutstandingReduction is the part of a player-tag deposit not covered by the player's cashout.
	OutstandingReduction OutstandingKind = "reduction"
)

type Outstanding struct {
	Kind   OutstandingKind `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

type PendingItem struct {
	ID           string           `json:"id"`
	Label        string           `json:"label"`
	GameName     string           `json:"game_name"`
	Method       domain.Method    `json:"method"`
	Username     string           `json:"username"`
	TotalCashout decimal.Decimal  `json:"total_cashout"`
	TotalPaid    decimal.Decimal  `json:"total_paid"`
	RemainingPay decimal.Decimal  `json:"remaining_pay"`
	Outstanding  Outstanding      `json:"outstanding"`
	Date         string           `json:"date"`
	CreatedAt    time.Time        `json:"created_at"`
	Kind         domain.EntryKind `json:"type"`
}

// OutstandingOf returns what e still owes and whether it belongs on the pending list.
func OutstandingOf(e *models.GameEntry) (Outstanding, bool) {
	if !e.IsPending {
		return Outstanding{}, false
	}
	if e.Kind == domain.KindRedeem && e.RemainingPay.IsPositive() {
		return Outstanding{Kind: OutstandingRedemption, Amount: e.RemainingPay}, true
	}
	if e.Mode == domain.ModePlayerTag && e.Reduction.IsPositive() {
		return Outstanding{Kind: OutstandingReduction, Amount: e.Reduction}, true
	}
	return Outstanding{}, false
}

// ListPending returns entries still awaiting payout, newest first.
// An empty username lists every user's entries.
func ListPending(entries []models.GameEntry, username string) []PendingItem {
	items := make([]PendingItem, 0)
	for i := range entries {
		e := &entries[i]
		if username != "" && e.Username != username {
			continue
		}
		out, ok := OutstandingOf(e)
		if !ok {
			continue
		}
		items = append(items, PendingItem{
			ID:           e.ID,
			Label:        e.PlayerLabel(),
			GameName:     e.GameName,
			Method:       e.Method,
			Username:     e.Username,
			TotalCashout: e.TotalCashout,
			TotalPaid:    e.TotalPaid,
			RemainingPay: e.RemainingPay,
			Outstanding:  out,
			Date:         e.Date,
			CreatedAt:    e.CreatedAt,
			Kind:         e.Kind,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// ClearPending marks e as settled. It reports false when e was already clear.
func ClearPending(e *models.GameEntry) bool {
	if !e.IsPending {
		return false
	}
	e.IsPending = false
	return true
}

// RemainingPay is the payout still owed on a redemption. Over-payment floors at zero.
func RemainingPay(totalCashout, totalPaid decimal.Decimal) decimal.Decimal {
	return decimal.Max(totalCashout.Sub(totalPaid), decimal.Zero)
}

// RecordPayout adds amount to a redemption's paid total and settles it once nothing remains.
func RecordPayout(e *models.GameEntry, amount decimal.Decimal) error {
	if e.Kind != domain.KindRedeem {
		return domain.Invalid("type", "payouts apply to redemptions only")
	}
	if !amount.IsPositive() {
		return domain.Invalid("amount", "must be greater than zero")
	}
	if amount.GreaterThan(e.RemainingPay) {
		return domain.Invalid("amount", "exceeds remaining pay %s", e.RemainingPay.StringFixed(2))
	}
	e.TotalPaid = e.TotalPaid.Add(amount)
	e.RemainingPay = RemainingPay(e.TotalCashout, e.TotalPaid)
	if e.RemainingPay.IsZero() {
		e.IsPending = false
	}
	return nil
}
