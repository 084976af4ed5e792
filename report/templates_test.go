package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/company"
	"github.com/freightdesk/freightdesk/internal/customers"
	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/ledger"
	"github.com/freightdesk/freightdesk/internal/lorryreceipts"
)

func testCompany() company.Info {
	return company.Info{
		ID:      1,
		Name:    "Sharma Roadlines",
		Address: "14 Transport Nagar",
		City:    "Indore",
		GSTIN:   "23AAACS1234F1Z5",
	}
}

func TestRenderTaxInvoiceGroupsDigitsIndianStyle(t *testing.T) {
	html, err := RenderTaxInvoice(TaxInvoiceData{
		Company:  testCompany(),
		Customer: customers.Customer{ID: 7, Name: "Acme Textiles"},
		Invoice: invoices.Invoice{
			InvoiceNumber: 1001,
			Date:          time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
			TotalAmount:   decimal.NewFromInt(100000),
			GST: invoices.GSTDetails{
				Type:       invoices.GSTTypeCGSTSGST,
				CGSTRate:   decimal.NewFromInt(9),
				SGSTRate:   decimal.NewFromInt(9),
				CGSTAmount: decimal.NewFromInt(9000),
				SGSTAmount: decimal.NewFromInt(9000),
			},
			GrandTotal: decimal.NewFromInt(118000),
			Status:     invoices.StatusUnpaid,
		},
		Lines: []InvoiceLine{{
			LRNumber: 5001,
			Date:     time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
			From:     "Indore",
			To:       "Mumbai",
			Amount:   decimal.NewFromInt(100000),
		}},
	})
	require.NoError(t, err)
	require.Contains(t, html, "INV-1001")
	require.Contains(t, html, "LR-5001")
	require.Contains(t, html, "1,00,000.00")
	require.Contains(t, html, "1,18,000.00")
	require.Contains(t, html, "CGST @ 9%")
	require.Contains(t, html, "SGST @ 9%")
	require.NotContains(t, html, "reverse charge")
}

func TestRenderTaxInvoiceReverseCharge(t *testing.T) {
	html, err := RenderTaxInvoice(TaxInvoiceData{
		Company:  testCompany(),
		Customer: customers.Customer{ID: 7, Name: "Acme Textiles"},
		Invoice: invoices.Invoice{
			InvoiceNumber: 1002,
			Date:          time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
			TotalAmount:   decimal.NewFromInt(5000),
			GST:           invoices.GSTDetails{Type: invoices.GSTTypeCGSTSGST, IsRCM: true},
			GrandTotal:    decimal.NewFromInt(5000),
			Status:        invoices.StatusUnpaid,
		},
	})
	require.NoError(t, err)
	require.Contains(t, html, "reverse charge")
	require.NotContains(t, html, "CGST @")
}

func TestRenderTaxInvoiceBankDetails(t *testing.T) {
	html, err := RenderTaxInvoice(TaxInvoiceData{
		Company:  testCompany(),
		Bank:     &company.BankAccount{BankName: "SBI", AccountNumber: "3055012345", IFSC: "SBIN0001234"},
		Customer: customers.Customer{ID: 7, Name: "Acme Textiles"},
		Invoice: invoices.Invoice{
			InvoiceNumber: 1003,
			Date:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			GST:           invoices.GSTDetails{Type: invoices.GSTTypeIGST, IGSTRate: decimal.NewFromInt(18)},
			Status:        invoices.StatusUnpaid,
		},
	})
	require.NoError(t, err)
	require.Contains(t, html, "SBIN0001234")
	require.Contains(t, html, "IGST @ 18%")
}

func TestRenderConsignmentNote(t *testing.T) {
	html, err := RenderConsignmentNote(ConsignmentNoteData{
		Company: testCompany(),
		Receipt: lorryreceipts.LorryReceipt{
			LRNumber: 5001,
			Date:     time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
			From:     "Indore",
			To:       "Mumbai",
			Packages: []lorryreceipts.Package{{
				Description:   "Cotton bales",
				Count:         40,
				ActualWeight:  decimal.NewFromInt(8000),
				ChargedWeight: decimal.NewFromInt(8500),
			}},
			Charges: lorryreceipts.Charges{
				Freight: decimal.NewFromInt(12000),
				Hamali:  decimal.NewFromInt(500),
			},
			TotalAmount: decimal.NewFromInt(12500),
			Status:      lorryreceipts.StatusCreated,
		},
		Consignor: customers.Customer{Name: "Acme Textiles", City: "Indore"},
		Consignee: customers.Customer{Name: "Bombay Mills", City: "Mumbai"},
	})
	require.NoError(t, err)
	require.Contains(t, html, "CONSIGNMENT NOTE")
	require.Contains(t, html, "LR-5001")
	require.Contains(t, html, "Cotton bales")
	require.Contains(t, html, "Hamali")
	require.NotContains(t, html, "Detention")
	require.Contains(t, html, "12,500.00")
	require.Contains(t, html, "10-04-2024")
}

func TestRenderLedgerStatement(t *testing.T) {
	html, err := RenderLedgerStatement(LedgerStatementData{
		Company:  testCompany(),
		Customer: customers.Customer{ID: 7, Name: "Acme Textiles"},
		Ledger: ledger.ClientLedgerData{
			CustomerID: 7,
			Transactions: []ledger.Entry{{
				Date:        time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
				Particulars: "Invoice INV-1001",
				Reference:   "INV-1001",
				Debit:       decimal.NewFromInt(118000),
				Balance:     decimal.NewFromInt(118000),
				BalanceSide: ledger.SideDebit,
			}},
			Summary: ledger.Summary{
				TotalDebit:         decimal.NewFromInt(118000),
				ClosingBalance:     decimal.NewFromInt(118000),
				ClosingBalanceSide: ledger.SideDebit,
				TransactionCount:   1,
			},
		},
	})
	require.NoError(t, err)
	require.Contains(t, html, "LEDGER STATEMENT")
	require.Contains(t, html, "Acme Textiles")
	require.Contains(t, html, "1,18,000.00 DR")
}
