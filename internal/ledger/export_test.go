package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/payments"
	"github.com/freightdesk/freightdesk/internal/shared"
)

func TestWriteCSV(t *testing.T) {
	invs := []invoices.Invoice{testInvoice(1, 1001, 7, "2024-01-01", 1000)}
	pays := []payments.Payment{testPayment(7, "2024-01-05", 400)}
	data, err := BuildClientLedger(7, invs, pays, shared.DateRange{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, data))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "Particulars")
	require.Contains(t, lines[1], "INV-1001")
	require.Contains(t, lines[1], "1000.00")
	require.Contains(t, lines[3], "600.00 DR")
}

func TestWriteXLSX(t *testing.T) {
	data := &ClientLedgerData{
		CustomerID: 7,
		Transactions: []Entry{{
			Date:        day("2024-01-01"),
			Particulars: "Invoice INV-1001",
			Debit:       decimal.NewFromInt(1000),
			Balance:     decimal.NewFromInt(1000),
			BalanceSide: SideDebit,
		}},
		Summary: Summary{
			TotalDebit:         decimal.NewFromInt(1000),
			ClosingBalance:     decimal.NewFromInt(1000),
			ClosingBalanceSide: SideDebit,
			TransactionCount:   1,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, data))
	require.NotZero(t, buf.Len())
}
