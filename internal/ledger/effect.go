// Package ledger holds the coin ledger rules: per-entry pricing, balance
// effects, aggregation and pending payout tracking. It does no I/O.
package ledger

import (
	"coinstore/internal/domain"
	"coinstore/internal/models"

	"github.com/shopspring/decimal"
)

// CoinEffect is the signed change an entry applies to its game's balance.
// Deposits and freeplay draw coins from the game; redemptions return them.
func CoinEffect(kind domain.EntryKind, amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	switch kind {
	case domain.KindDeposit, domain.KindFreeplay:
		return amount.Neg()
	case domain.KindRedeem:
		return amount
	}
	return decimal.Zero
}

// Snapshot is the part of an entry that determines its balance effect.
// Take it before mutating an entry so the old effect can be reversed.
type Snapshot struct {
	Kind     domain.EntryKind
	Amount   decimal.Decimal
	GameName string
}

func SnapshotOf(e *models.GameEntry) Snapshot {
	return Snapshot{Kind: e.Kind, Amount: e.EffectiveAmount(), GameName: e.GameName}
}

func (s Snapshot) Effect() decimal.Decimal {
	return CoinEffect(s.Kind, s.Amount)
}

// Adjustment is a delta to apply to one game's cached balance.
type Adjustment struct {
	GameName string
	Delta    decimal.Decimal
}

// CreateAdjustments returns the balance change for a newly recorded entry.
func CreateAdjustments(created Snapshot) []Adjustment {
	return compact([]Adjustment{{GameName: created.GameName, Delta: created.Effect()}})
}

// UpdateAdjustments returns the balance changes for an edit. Moving an entry
// to another game reverses it on the old game and applies it on the new one.
func UpdateAdjustments(before, after Snapshot) []Adjustment {
	if before.GameName == after.GameName {
		return compact([]Adjustment{{GameName: after.GameName, Delta: after.Effect().Sub(before.Effect())}})
	}
	return compact([]Adjustment{
		{GameName: before.GameName, Delta: before.Effect().Neg()},
		{GameName: after.GameName, Delta: after.Effect()},
	})
}

// DeleteAdjustments reverses a removed entry's effect.
func DeleteAdjustments(deleted Snapshot) []Adjustment {
	return compact([]Adjustment{{GameName: deleted.GameName, Delta: deleted.Effect().Neg()}})
}

func compact(adjs []Adjustment) []Adjustment {
	out := adjs[:0]
	for _, a := range adjs {
		if a.GameName == "" || a.Delta.IsZero() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Balance folds CoinEffect over a game's full history.
func Balance(entries []models.GameEntry) decimal.Decimal {
	total := decimal.Zero
	for i := range entries {
		total = total.Add(CoinEffect(entries[i].Kind, entries[i].EffectiveAmount()))
	}
	return total
}
