package ledger

import (
	"strings"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/models"

	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	maxBonusRate = decimal.NewFromInt(100)
)

// EntryInput is a validated-shape request to record or rewrite an entry.
// TotalCashout defaults to AmountBase for redemptions; IsPending defaults to
// whether the entry leaves anything outstanding.
type EntryInput struct {
	Kind          domain.EntryKind
	Mode          domain.EntryMode
	Method        domain.Method
	GameName      string
	PlayerName    string
	PlayerTag     string
	AmountBase    decimal.Decimal
	BonusRate     decimal.Decimal
	TotalCashout  *decimal.Decimal
	TotalPaid     decimal.Decimal
	CashoutAmount decimal.Decimal
	IsPending     *bool
	Date          string
}

// InputOf converts a stored entry back into input so edits go through BuildEntry.
func InputOf(e *models.GameEntry) EntryInput {
	cashout := e.TotalCashout
	pending := e.IsPending
	return EntryInput{
		Kind:          e.Kind,
		Mode:          e.Mode,
		Method:        e.Method,
		GameName:      e.GameName,
		PlayerName:    e.PlayerName,
		PlayerTag:     e.PlayerTag,
		AmountBase:    e.AmountBase,
		BonusRate:     e.BonusRate,
		TotalCashout:  &cashout,
		TotalPaid:     e.TotalPaid,
		CashoutAmount: e.CashoutAmount,
		IsPending:     &pending,
		Date:          e.Date,
	}
}

// Validate checks the per-kind rules. Freeplay never needs a method;
// deposits and redemptions must name a recognized one.
func (in EntryInput) Validate() error {
	if !in.Kind.Valid() {
		return domain.Invalid("type", "must be one of freeplay, deposit, redeem")
	}
	mode := in.Mode
	if mode == "" {
		mode = domain.ModeOurTag
	}
	if !mode.Valid() {
		return domain.Invalid("mode", "must be our_tag or player_tag")
	}
	if mode == domain.ModePlayerTag && in.Kind != domain.KindDeposit {
		return domain.Invalid("mode", "player_tag applies to deposits only")
	}
	if in.Kind != domain.KindFreeplay && !in.Method.Valid() {
		return domain.Invalid("method", "required for %s: one of cashapp, paypal, chime, venmo", in.Kind)
	}
	if strings.TrimSpace(in.GameName) == "" {
		return domain.Invalid("game_name", "required")
	}
	if strings.TrimSpace(in.PlayerName) == "" && strings.TrimSpace(in.PlayerTag) == "" {
		return domain.Invalid("player_name", "player name or tag required")
	}
	if !in.AmountBase.IsPositive() {
		return domain.Invalid("amount_base", "must be greater than zero")
	}
	if in.BonusRate.IsNegative() || in.BonusRate.GreaterThan(maxBonusRate) {
		return domain.Invalid("bonus_rate", "must be between 0 and 100")
	}
	if in.Kind != domain.KindDeposit && !in.BonusRate.IsZero() {
		return domain.Invalid("bonus_rate", "only deposits carry a bonus")
	}
	if in.TotalCashout != nil && in.TotalCashout.IsNegative() {
		return domain.Invalid("total_cashout", "must not be negative")
	}
	if in.TotalPaid.IsNegative() {
		return domain.Invalid("total_paid", "must not be negative")
	}
	if in.CashoutAmount.IsNegative() {
		return domain.Invalid("cashout_amount", "must not be negative")
	}
	if _, err := time.Parse(domain.DateLayout, in.Date); err != nil {
		return domain.Invalid("date", "must be YYYY-MM-DD")
	}
	return nil
}

// BuildEntry validates in and derives the computed amounts.
// The caller sets ID, Username and timestamps.
func BuildEntry(in EntryInput) (*models.GameEntry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	e := &models.GameEntry{
		Kind:       in.Kind,
		Mode:       in.Mode,
		Method:     in.Method,
		GameName:   strings.TrimSpace(in.GameName),
		PlayerName: strings.TrimSpace(in.PlayerName),
		PlayerTag:  strings.TrimSpace(in.PlayerTag),
		AmountBase: in.AmountBase,
		Date:       in.Date,
	}
	if e.Mode == "" {
		e.Mode = domain.ModeOurTag
	}

	switch in.Kind {
	case domain.KindFreeplay:
		e.Method = ""
		e.AmountFinal = decimal.NewNullDecimal(in.AmountBase)
	case domain.KindDeposit:
		e.BonusRate = in.BonusRate
		e.BonusAmount = in.AmountBase.Mul(in.BonusRate).Div(hundred).Round(2)
		e.AmountFinal = decimal.NewNullDecimal(in.AmountBase.Add(e.BonusAmount))
		if e.Mode == domain.ModePlayerTag {
			e.CashoutAmount = in.CashoutAmount
			e.Reduction = decimal.Max(in.AmountBase.Sub(in.CashoutAmount), decimal.Zero)
		}
	case domain.KindRedeem:
		e.AmountFinal = decimal.NewNullDecimal(in.AmountBase)
		e.TotalCashout = in.AmountBase
		if in.TotalCashout != nil {
			e.TotalCashout = *in.TotalCashout
		}
		e.TotalPaid = in.TotalPaid
		e.RemainingPay = RemainingPay(e.TotalCashout, e.TotalPaid)
	}

	if in.IsPending != nil {
		e.IsPending = *in.IsPending
	} else {
		_, e.IsPending = outstandingIfPending(e)
	}
	return e, nil
}

func outstandingIfPending(e *models.GameEntry) (Outstanding, bool) {
	owed := *e
	owed.IsPending = true
	return OutstandingOf(&owed)
}
