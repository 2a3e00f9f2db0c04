package ledger

import (
	"testing"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/models"

	"github.com/stretchr/testify/require"
)

func TestListPending(t *testing.T) {
	t.Parallel()

	older := entry(domain.KindRedeem, "A", "100")
	older.ID = "older"
	older.IsPending = true
	older.TotalCashout = d("100")
	older.TotalPaid = d("40")
	older.RemainingPay = d("60")
	older.PlayerName = ""
	older.PlayerTag = "$tag"

	newer := older
	newer.ID = "newer"
	newer.PlayerTag = ""
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	settled := older
	settled.ID = "settled"
	settled.RemainingPay = d("0")

	notPending := older
	notPending.ID = "not-pending"
	notPending.IsPending = false

	reduction := entry(domain.KindDeposit, "B", "80")
	reduction.ID = "reduction"
	reduction.Mode = domain.ModePlayerTag
	reduction.Reduction = d("30")
	reduction.IsPending = true
	reduction.Username = "staff2"
	reduction.CreatedAt = older.CreatedAt.Add(-time.Hour)

	all := []models.GameEntry{older, newer, settled, notPending, reduction}

	items := ListPending(all, "")
	require.Len(t, items, 3)
	require.Equal(t, "newer", items[0].ID)
	require.Equal(t, "Unknown", items[0].Label)
	require.Equal(t, "older", items[1].ID)
	require.Equal(t, "$tag", items[1].Label)
	require.Equal(t, OutstandingRedemption, items[1].Outstanding.Kind)
	requireDecimal(t, "60", items[1].Outstanding.Amount)
	require.Equal(t, "reduction", items[2].ID)
	require.Equal(t, OutstandingReduction, items[2].Outstanding.Kind)
	requireDecimal(t, "30", items[2].Outstanding.Amount)

	mine := ListPending(all, "staff2")
	require.Len(t, mine, 1)
	require.Equal(t, "reduction", mine[0].ID)

	require.NotNil(t, ListPending(nil, ""))
}

func TestClearPendingIsIdempotent(t *testing.T) {
	t.Parallel()

	e := entry(domain.KindRedeem, "A", "10")
	e.IsPending = true
	require.True(t, ClearPending(&e))
	snapshot := e
	require.False(t, ClearPending(&e))
	require.Equal(t, snapshot, e)
}

func TestRemainingPay(t *testing.T) {
	t.Parallel()

	tests := []struct{ cashout, paid, want string }{
		{"100", "40", "60"},
		{"100", "100", "0"},
		{"100", "130", "0"},
		{"0", "0", "0"},
	}
	for _, tt := range tests {
		requireDecimal(t, tt.want, RemainingPay(d(tt.cashout), d(tt.paid)))
	}
}

func TestRecordPayout(t *testing.T) {
	t.Parallel()

	e := entry(domain.KindRedeem, "A", "100")
	e.TotalCashout = d("100")
	e.RemainingPay = d("100")
	e.IsPending = true

	require.NoError(t, RecordPayout(&e, d("60")))
	requireDecimal(t, "40", e.RemainingPay)
	require.True(t, e.IsPending)

	require.Error(t, RecordPayout(&e, d("41")))
	require.Error(t, RecordPayout(&e, d("0")))

	require.NoError(t, RecordPayout(&e, d("40")))
	requireDecimal(t, "0", e.RemainingPay)
	requireDecimal(t, "100", e.TotalPaid)
	require.False(t, e.IsPending)

	deposit := entry(domain.KindDeposit, "A", "10")
	err := RecordPayout(&deposit, d("1"))
	require.True(t, domain.IsValidation(err))
}
