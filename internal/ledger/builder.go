package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/payments"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/truckhiring"
)

// sortRank orders same-date entries: invoices post before payments, expense
// notes last, and within a rank the input order is kept.
const (
	rankInvoice = iota
	rankPayment
	rankExpense
)

type rankedEntry struct {
	Entry
	rank int
	seq  int
}

func sortEntries(entries []rankedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		if entries[i].rank != entries[j].rank {
			return entries[i].rank < entries[j].rank
		}
		return entries[i].seq < entries[j].seq
	})
}

func invoiceParticulars(inv invoices.Invoice) string {
	if len(inv.LorryReceipts) == 0 {
		return fmt.Sprintf("Invoice INV-%d", inv.InvoiceNumber)
	}
	refs := make([]string, len(inv.LorryReceipts))
	for i, id := range inv.LorryReceipts {
		refs[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("Invoice INV-%d (LR %s)", inv.InvoiceNumber, strings.Join(refs, ", "))
}

func paymentParticulars(p payments.Payment, invoiceNumbers map[int64]int64) string {
	label := "Payment received"
	if p.Type == payments.TypeAdvance {
		label = "Advance received"
	}
	if p.InvoiceID != nil {
		if number, ok := invoiceNumbers[*p.InvoiceID]; ok {
			label = fmt.Sprintf("%s against INV-%d", label, number)
		}
	}
	return fmt.Sprintf("%s (%s)", label, p.Mode)
}

// resolveCustomer finds the customer a payment belongs to, directly or
// through its linked invoice. Zero means unresolvable.
func resolveCustomer(p payments.Payment, invoiceCustomers map[int64]int64) int64 {
	if p.CustomerID > 0 {
		return p.CustomerID
	}
	if p.InvoiceID != nil {
		return invoiceCustomers[*p.InvoiceID]
	}
	return 0
}

// BuildClientLedger produces the chronologically ordered ledger for one
// customer from already-fetched invoices and payments. It never mutates its
// inputs. A customer with no activity yields an empty ledger, not an error.
func BuildClientLedger(customerID int64, invs []invoices.Invoice, pays []payments.Payment, filter shared.DateRange) (*ClientLedgerData, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: invalid customer ID", shared.ErrValidation)
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoiceNumbers := make(map[int64]int64, len(invs))
	invoiceCustomers := make(map[int64]int64, len(invs))
	for _, inv := range invs {
		invoiceNumbers[inv.ID] = inv.InvoiceNumber
		invoiceCustomers[inv.ID] = inv.CustomerID
	}

	var merged []rankedEntry
	for i, inv := range invs {
		if inv.CustomerID != customerID || !filter.Contains(inv.Date) {
			continue
		}
		merged = append(merged, rankedEntry{
			Entry: Entry{
				Date:        inv.Date,
				Particulars: invoiceParticulars(inv),
				Reference:   fmt.Sprintf("INV-%d", inv.InvoiceNumber),
				Debit:       inv.GrandTotal,
				Credit:      decimal.Zero,
			},
			rank: rankInvoice,
			seq:  i,
		})
	}
	for i, p := range pays {
		if resolveCustomer(p, invoiceCustomers) != customerID || !filter.Contains(p.Date) {
			continue
		}
		merged = append(merged, rankedEntry{
			Entry: Entry{
				Date:        p.Date,
				Particulars: paymentParticulars(p, invoiceNumbers),
				Reference:   p.ReferenceNo,
				Debit:       decimal.Zero,
				Credit:      p.Amount,
			},
			rank: rankPayment,
			seq:  i,
		})
	}
	sortEntries(merged)

	data := &ClientLedgerData{CustomerID: customerID, Transactions: []Entry{}}
	running := decimal.Zero
	for _, re := range merged {
		running = running.Add(re.Debit).Sub(re.Credit)
		re.Balance = running.Abs()
		re.BalanceSide = side(running)
		data.Transactions = append(data.Transactions, re.Entry)
		data.Summary.TotalDebit = data.Summary.TotalDebit.Add(re.Debit)
		data.Summary.TotalCredit = data.Summary.TotalCredit.Add(re.Credit)
	}
	data.Summary.ClosingBalance = running.Abs()
	data.Summary.ClosingBalanceSide = side(running)
	data.Summary.TransactionCount = len(data.Transactions)
	return data, nil
}

// BuildCompanyLedger produces the company-wide book: income from invoices,
// expenses from truck hiring notes, receipts from payments.
func BuildCompanyLedger(invs []invoices.Invoice, pays []payments.Payment, thns []truckhiring.TruckHiringNote, filter shared.DateRange) (*CompanyLedgerData, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoiceNumbers := make(map[int64]int64, len(invs))
	for _, inv := range invs {
		invoiceNumbers[inv.ID] = inv.InvoiceNumber
	}

	var merged []rankedEntry
	summary := CompanySummary{}
	for i, inv := range invs {
		if !filter.Contains(inv.Date) {
			continue
		}
		summary.TotalRevenue = summary.TotalRevenue.Add(inv.GrandTotal)
		merged = append(merged, rankedEntry{
			Entry: Entry{
				Date:        inv.Date,
				Particulars: invoiceParticulars(inv),
				Reference:   fmt.Sprintf("INV-%d", inv.InvoiceNumber),
				Debit:       inv.GrandTotal,
				Credit:      decimal.Zero,
			},
			rank: rankInvoice,
			seq:  i,
		})
	}
	for i, p := range pays {
		if !filter.Contains(p.Date) {
			continue
		}
		summary.TotalReceipts = summary.TotalReceipts.Add(p.Amount)
		merged = append(merged, rankedEntry{
			Entry: Entry{
				Date:        p.Date,
				Particulars: paymentParticulars(p, invoiceNumbers),
				Reference:   p.ReferenceNo,
				Debit:       decimal.Zero,
				Credit:      p.Amount,
			},
			rank: rankPayment,
			seq:  i,
		})
	}
	for i, thn := range thns {
		if !filter.Contains(thn.Date) {
			continue
		}
		summary.TotalExpenses = summary.TotalExpenses.Add(thn.FreightAmount)
		merged = append(merged, rankedEntry{
			Entry: Entry{
				Date:        thn.Date,
				Particulars: fmt.Sprintf("Truck hire THN-%d (%s to %s, %s)", thn.THNNumber, thn.From, thn.To, thn.TruckNumber),
				Reference:   fmt.Sprintf("THN-%d", thn.THNNumber),
				Debit:       decimal.Zero,
				Credit:      thn.FreightAmount,
			},
			rank: rankExpense,
			seq:  i,
		})
	}
	sortEntries(merged)

	data := &CompanyLedgerData{Transactions: []Entry{}}
	running := decimal.Zero
	for _, re := range merged {
		running = running.Add(re.Debit).Sub(re.Credit)
		re.Balance = running.Abs()
		re.BalanceSide = side(running)
		data.Transactions = append(data.Transactions, re.Entry)
	}
	summary.NetProfit = summary.TotalRevenue.Sub(summary.TotalExpenses)
	summary.TransactionCount = len(data.Transactions)
	data.Summary = summary
	return data, nil
}
