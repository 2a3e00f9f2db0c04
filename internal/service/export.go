package service

import (
	"encoding/csv"
	"io"

	"coinstore/internal/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Entries"

var exportHeader = []string{
	"ID", "Date", "Type", "Mode", "Method", "Game", "Player", "Player Tag", "Recorded By",
	"Amount", "Bonus Rate", "Bonus", "Final Amount", "Total Cashout", "Total Paid",
	"Remaining Pay", "Cashout", "Reduction", "Pending", "Created At",
}

func exportRow(e *models.GameEntry) []string {
	pending := "no"
	if e.IsPending {
		pending = "yes"
	}
	return []string{
		e.ID, e.Date, string(e.Kind), string(e.Mode), string(e.Method), e.GameName,
		e.PlayerName, e.PlayerTag, e.Username,
		e.AmountBase.StringFixed(2), e.BonusRate.StringFixed(2), e.BonusAmount.StringFixed(2),
		e.EffectiveAmount().StringFixed(2), e.TotalCashout.StringFixed(2), e.TotalPaid.StringFixed(2),
		e.RemainingPay.StringFixed(2), e.CashoutAmount.StringFixed(2), e.Reduction.StringFixed(2),
		pending, e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

// WriteEntriesCSV writes entries as CSV with a header row.
func WriteEntriesCSV(w io.Writer, entries []models.GameEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i := range entries {
		if err := cw.Write(exportRow(&entries[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEntriesXLSX writes entries as a single-sheet workbook with numeric amount cells.
func WriteEntriesXLSX(w io.Writer, entries []models.GameEntry) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}
	for i := range entries {
		e := &entries[i]
		cells := exportRow(e)
		row := make([]interface{}, len(cells))
		for j, v := range cells {
			row[j] = v
		}
		// amount columns J through R hold numbers, not text
		amounts := []interface{}{
			e.AmountBase.InexactFloat64(), e.BonusRate.InexactFloat64(), e.BonusAmount.InexactFloat64(),
			e.EffectiveAmount().InexactFloat64(), e.TotalCashout.InexactFloat64(), e.TotalPaid.InexactFloat64(),
			e.RemainingPay.InexactFloat64(), e.CashoutAmount.InexactFloat64(), e.Reduction.InexactFloat64(),
		}
		copy(row[9:18], amounts)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "B", "I", 14); err != nil {
		return err
	}
	return f.Write(w)
}
