package ledger

import (
	"sort"

	"coinstore/internal/domain"
	"coinstore/internal/models"

	"github.com/shopspring/decimal"
)

// Totals sums effective amounts per entry kind. TotalCoin is the net coin
// flow: redemptions minus everything that left the game.
type Totals struct {
	TotalDeposit  decimal.Decimal `json:"total_deposit"`
	TotalFreeplay decimal.Decimal `json:"total_freeplay"`
	TotalRedeem   decimal.Decimal `json:"total_redeem"`
	TotalCoin     decimal.Decimal `json:"total_coin"`
	Count         int             `json:"count"`
}

func (t *Totals) add(e *models.GameEntry) {
	amount := e.EffectiveAmount()
	switch e.Kind {
	case domain.KindDeposit:
		t.TotalDeposit = t.TotalDeposit.Add(amount)
	case domain.KindFreeplay:
		t.TotalFreeplay = t.TotalFreeplay.Add(amount)
	case domain.KindRedeem:
		t.TotalRedeem = t.TotalRedeem.Add(amount)
	}
	t.Count++
}

func (t *Totals) finish() {
	t.TotalCoin = t.TotalRedeem.Sub(t.TotalFreeplay.Add(t.TotalDeposit))
}

// Summarize totals the entries that match filter.
func Summarize(entries []models.GameEntry, filter Filter) Totals {
	var t Totals
	for i := range entries {
		if filter.Match(&entries[i]) {
			t.add(&entries[i])
		}
	}
	t.finish()
	return t
}

type GameTotals struct {
	GameName string `json:"game_name"`
	Totals
}

// SummarizeByGame totals entries per game name, ordered by name.
func SummarizeByGame(entries []models.GameEntry) []GameTotals {
	byGame := make(map[string]*Totals)
	for i := range entries {
		t, ok := byGame[entries[i].GameName]
		if !ok {
			t = &Totals{}
			byGame[entries[i].GameName] = t
		}
		t.add(&entries[i])
	}
	out := make([]GameTotals, 0, len(byGame))
	for name, t := range byGame {
		t.finish()
		out = append(out, GameTotals{GameName: name, Totals: *t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameName < out[j].GameName })
	return out
}

// RevenueByMethod sums deposit base amounts (before bonus) per recognized method.
// Deposits with an unknown method still count in Summarize but not here.
func RevenueByMethod(entries []models.GameEntry) map[domain.Method]decimal.Decimal {
	out := make(map[domain.Method]decimal.Decimal, len(domain.Methods))
	for _, m := range domain.Methods {
		out[m] = decimal.Zero
	}
	for i := range entries {
		e := &entries[i]
		if e.Kind != domain.KindDeposit || !e.Method.Valid() {
			continue
		}
		out[e.Method] = out[e.Method].Add(e.AmountBase)
	}
	return out
}

// NetCoins is the ledger-only balance: redemptions minus deposits and freeplay.
// It is unclamped and matches what Balance Sync maintains in Game.TotalCoins.
func NetCoins(t Totals) decimal.Decimal {
	return t.TotalRedeem.Sub(t.TotalDeposit).Sub(t.TotalFreeplay)
}

// NetCoinsWithRecharge adds manual recharges to NetCoins and floors at zero.
func NetCoinsWithRecharge(t Totals, recharged decimal.Decimal) decimal.Decimal {
	return decimal.Max(recharged.Add(NetCoins(t)), decimal.Zero)
}
