package ledger

import (
	"testing"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(kind domain.EntryKind, game string, amount string) models.GameEntry {
	return models.GameEntry{
		ID:          game + "-" + string(kind) + "-" + amount,
		Kind:        kind,
		Mode:        domain.ModeOurTag,
		Method:      domain.MethodCashApp,
		GameName:    game,
		PlayerName:  "player",
		Username:    "staff1",
		AmountBase:  d(amount),
		AmountFinal: decimal.NewNullDecimal(d(amount)),
		Date:        "2024-08-05",
		CreatedAt:   time.Date(2024, 8, 5, 12, 0, 0, 0, time.UTC),
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, d(want).Equal(got), "want %s, got %s", want, got)
}
