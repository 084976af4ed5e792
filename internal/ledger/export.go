package ledger

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"Date", "Particulars", "Reference", "Debit", "Credit", "Balance"}

func entryRow(e Entry) []string {
	return []string{
		e.Date.Format("2006-01-02"),
		e.Particulars,
		e.Reference,
		e.Debit.StringFixed(2),
		e.Credit.StringFixed(2),
		fmt.Sprintf("%s %s", e.Balance.StringFixed(2), e.BalanceSide),
	}
}

// WriteCSV streams a client ledger as CSV.
func WriteCSV(w io.Writer, data *ClientLedgerData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, e := range data.Transactions {
		if err := cw.Write(entryRow(e)); err != nil {
			return err
		}
	}
	closing := fmt.Sprintf("%s %s", data.Summary.ClosingBalance.StringFixed(2), data.Summary.ClosingBalanceSide)
	if err := cw.Write([]string{"", "Closing Balance", "",
		data.Summary.TotalDebit.StringFixed(2), data.Summary.TotalCredit.StringFixed(2), closing}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a client ledger as a single-sheet workbook.
func WriteXLSX(w io.Writer, data *ClientLedgerData) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Ledger"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	for rowIdx, e := range data.Transactions {
		for col, value := range entryRow(e) {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	summaryRow := len(data.Transactions) + 2
	closing := fmt.Sprintf("%s %s", data.Summary.ClosingBalance.StringFixed(2), data.Summary.ClosingBalanceSide)
	for col, value := range []string{"", "Closing Balance", "",
		data.Summary.TotalDebit.StringFixed(2), data.Summary.TotalCredit.StringFixed(2), closing} {
		cell, err := excelize.CoordinatesToCellName(col+1, summaryRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return f.Write(w)
}
