package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the bookkeeping side of a balance.
type Side string

const (
	SideDebit  Side = "DR"
	SideCredit Side = "CR"
)

// Entry is one normalized ledger line. Invoices, payments and truck hiring
// notes all flatten into this shape before sorting.
type Entry struct {
	Date        time.Time       `json:"date"`
	Particulars string          `json:"particulars"`
	Reference   string          `json:"reference,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	// Balance is the running balance after this entry, displayed as its
	// absolute value with a DR/CR side.
	Balance     decimal.Decimal `json:"balance"`
	BalanceSide Side            `json:"balance_side"`
}

// Summary totals a client ledger.
type Summary struct {
	TotalDebit         decimal.Decimal `json:"total_debit"`
	TotalCredit        decimal.Decimal `json:"total_credit"`
	ClosingBalance     decimal.Decimal `json:"closing_balance"`
	ClosingBalanceSide Side            `json:"closing_balance_side"`
	TransactionCount   int             `json:"transaction_count"`
}

// ClientLedgerData is the ledger view for one customer.
type ClientLedgerData struct {
	CustomerID   int64   `json:"customer_id"`
	Transactions []Entry `json:"transactions"`
	Summary      Summary `json:"summary"`
}

// CompanySummary totals the company-wide book.
type CompanySummary struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TotalReceipts    decimal.Decimal `json:"total_receipts"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	TransactionCount int             `json:"transaction_count"`
}

// CompanyLedgerData is the company-wide ledger view.
type CompanyLedgerData struct {
	Transactions []Entry        `json:"transactions"`
	Summary      CompanySummary `json:"summary"`
}

// side maps a signed running balance to its display side. Zero reads as DR,
// matching how a nil balance prints on statements.
func side(running decimal.Decimal) Side {
	if running.IsNegative() {
		return SideCredit
	}
	return SideDebit
}
