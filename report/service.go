package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/freightdesk/freightdesk/internal/company"
	"github.com/freightdesk/freightdesk/internal/customers"
	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/ledger"
	"github.com/freightdesk/freightdesk/internal/lorryreceipts"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// CompanySource supplies the company profile printed on every document.
type CompanySource interface {
	Get(ctx context.Context) (*company.Info, error)
	ListBankAccounts(ctx context.Context) ([]company.BankAccount, error)
}

// CustomerSource resolves parties named on documents.
type CustomerSource interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// ReceiptSource resolves lorry receipts.
type ReceiptSource interface {
	Get(ctx context.Context, id int64) (*lorryreceipts.LorryReceipt, error)
}

// InvoiceSource resolves invoices.
type InvoiceSource interface {
	Get(ctx context.Context, id int64) (*invoices.Invoice, error)
}

// LedgerSource builds client ledgers.
type LedgerSource interface {
	ClientLedger(ctx context.Context, customerID int64, filter shared.DateRange) (*ledger.ClientLedgerData, error)
}

// Service assembles document data and converts it to PDF via Gotenberg.
type Service struct {
	logger    *slog.Logger
	client    *Client
	companies CompanySource
	customers CustomerSource
	receipts  ReceiptSource
	invoices  InvoiceSource
	ledgers   LedgerSource
}

// NewService constructs a Service instance.
func NewService(logger *slog.Logger, client *Client, companies CompanySource, custs CustomerSource, receipts ReceiptSource, invs InvoiceSource, ledgers LedgerSource) *Service {
	return &Service{
		logger:    logger,
		client:    client,
		companies: companies,
		customers: custs,
		receipts:  receipts,
		invoices:  invs,
		ledgers:   ledgers,
	}
}

// ConsignmentNotePDF renders the printable consignment note for one lorry
// receipt.
func (s *Service) ConsignmentNotePDF(ctx context.Context, id int64) ([]byte, string, error) {
	receipt, err := s.receipts.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	info, err := s.companies.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	consignor, err := s.customers.Get(ctx, receipt.ConsignorID)
	if err != nil {
		return nil, "", fmt.Errorf("resolve consignor: %w", err)
	}
	consignee, err := s.customers.Get(ctx, receipt.ConsigneeID)
	if err != nil {
		return nil, "", fmt.Errorf("resolve consignee: %w", err)
	}

	html, err := RenderConsignmentNote(ConsignmentNoteData{
		Company:   *info,
		Receipt:   *receipt,
		Consignor: *consignor,
		Consignee: *consignee,
	})
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.client.RenderHTML(ctx, html)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("LR-%d.pdf", receipt.LRNumber), nil
}

// TaxInvoicePDF renders the printable tax invoice.
func (s *Service) TaxInvoicePDF(ctx context.Context, id int64) ([]byte, string, error) {
	invoice, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	info, err := s.companies.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	customer, err := s.customers.Get(ctx, invoice.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("resolve customer: %w", err)
	}

	lines := make([]InvoiceLine, 0, len(invoice.LorryReceipts))
	for _, lrID := range invoice.LorryReceipts {
		receipt, err := s.receipts.Get(ctx, lrID)
		if err != nil {
			return nil, "", fmt.Errorf("resolve lorry receipt %d: %w", lrID, err)
		}
		lines = append(lines, InvoiceLine{
			LRNumber: receipt.LRNumber,
			Date:     receipt.Date,
			From:     receipt.From,
			To:       receipt.To,
			Amount:   receipt.TotalAmount,
		})
	}

	html, err := RenderTaxInvoice(TaxInvoiceData{
		Company:  *info,
		Bank:     s.currentBankAccount(ctx, info),
		Customer: *customer,
		Invoice:  *invoice,
		Lines:    lines,
	})
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.client.RenderHTML(ctx, html)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("INV-%d.pdf", invoice.InvoiceNumber), nil
}

// LedgerStatementPDF renders the printable ledger statement for one customer.
func (s *Service) LedgerStatementPDF(ctx context.Context, customerID int64, filter shared.DateRange) ([]byte, string, error) {
	data, err := s.ledgers.ClientLedger(ctx, customerID, filter)
	if err != nil {
		return nil, "", err
	}
	info, err := s.companies.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return nil, "", err
	}

	html, err := RenderLedgerStatement(LedgerStatementData{
		Company:  *info,
		Customer: *customer,
		Ledger:   *data,
		Period:   filter,
	})
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.client.RenderHTML(ctx, html)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("ledger-%d.pdf", customerID), nil
}

// currentBankAccount resolves the account printed on invoices. Missing bank
// details are not fatal; the invoice renders without the footer box.
func (s *Service) currentBankAccount(ctx context.Context, info *company.Info) *company.BankAccount {
	if info.CurrentBankAccountID == nil {
		return nil
	}
	accounts, err := s.companies.ListBankAccounts(ctx)
	if err != nil {
		s.logger.Warn("list bank accounts", slog.Any("error", err))
		return nil
	}
	for i := range accounts {
		if accounts[i].ID == *info.CurrentBankAccountID {
			return &accounts[i]
		}
	}
	return nil
}
