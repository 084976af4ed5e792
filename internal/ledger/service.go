package ledger

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/payments"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/truckhiring"
)

// InvoiceSource supplies invoices to the builder.
type InvoiceSource interface {
	ListAll(ctx context.Context) ([]invoices.Invoice, error)
}

// PaymentSource supplies payments to the builder.
type PaymentSource interface {
	ListAll(ctx context.Context) ([]payments.Payment, error)
}

// THNSource supplies truck hiring notes to the builder.
type THNSource interface {
	ListAll(ctx context.Context) ([]truckhiring.TruckHiringNote, error)
}

// Service fetches source records and feeds the pure builders.
type Service struct {
	invoices InvoiceSource
	payments PaymentSource
	thns     THNSource
}

// NewService builds Service instance.
func NewService(inv InvoiceSource, pay PaymentSource, thn THNSource) *Service {
	return &Service{invoices: inv, payments: pay, thns: thn}
}

// ClientLedger fetches the customer's sources concurrently and builds the
// ledger.
func (s *Service) ClientLedger(ctx context.Context, customerID int64, filter shared.DateRange) (*ClientLedgerData, error) {
	var (
		invs []invoices.Invoice
		pays []payments.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invs, err = s.invoices.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pays, err = s.payments.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return BuildClientLedger(customerID, invs, pays, filter)
}

// CompanyLedger fetches all sources concurrently and builds the company-wide
// book.
func (s *Service) CompanyLedger(ctx context.Context, filter shared.DateRange) (*CompanyLedgerData, error) {
	var (
		invs []invoices.Invoice
		pays []payments.Payment
		thns []truckhiring.TruckHiringNote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invs, err = s.invoices.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pays, err = s.payments.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		thns, err = s.thns.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return BuildCompanyLedger(invs, pays, thns, filter)
}
