package service

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportFixture() []models.GameEntry {
	return []models.GameEntry{
		{
			ID: "e1", Kind: domain.KindDeposit, Mode: domain.ModeOurTag, Method: domain.MethodCashApp,
			GameName: "X", PlayerName: "p", Username: "ann", Date: "2024-08-05",
			AmountBase: dec("100"), BonusRate: dec("10"), BonusAmount: dec("10"),
			AmountFinal: decimal.NewNullDecimal(dec("110")),
			CreatedAt:   time.Date(2024, 8, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			ID: "e2", Kind: domain.KindRedeem, Mode: domain.ModeOurTag, Method: domain.MethodVenmo,
			GameName: "X", PlayerTag: "$w", Username: "ann", Date: "2024-08-06",
			AmountBase: dec("40"), AmountFinal: decimal.NewNullDecimal(dec("40")),
			TotalCashout: dec("40"), RemainingPay: dec("40"), IsPending: true,
		},
	}
}

func TestWriteEntriesCSV(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WriteEntriesCSV(&buf, exportFixture()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, exportHeader, rows[0])
	require.Equal(t, "110.00", rows[1][12])
	require.Equal(t, "2024-08-05 10:00:00", rows[1][19])
	require.Equal(t, "yes", rows[2][18])
}

func TestWriteEntriesXLSX(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WriteEntriesXLSX(&buf, exportFixture()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "ID", rows[0][0])
	require.Equal(t, "e2", rows[2][0])

	final, err := f.GetCellValue(exportSheet, "M2")
	require.NoError(t, err)
	require.Equal(t, "110", final)
}
