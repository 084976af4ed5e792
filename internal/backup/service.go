package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/freightdesk/freightdesk/internal/company"
	"github.com/freightdesk/freightdesk/internal/customers"
	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/lorryreceipts"
	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/payments"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/truckhiring"
)

// CustomerSource supplies customers to the snapshot.
type CustomerSource interface {
	ListAll(ctx context.Context) ([]customers.Customer, error)
}

// LRSource supplies lorry receipts to the snapshot.
type LRSource interface {
	ListAll(ctx context.Context) ([]lorryreceipts.LorryReceipt, error)
}

// InvoiceSource supplies invoices to the snapshot.
type InvoiceSource interface {
	ListAll(ctx context.Context) ([]invoices.Invoice, error)
}

// PaymentSource supplies payments to the snapshot.
type PaymentSource interface {
	ListAll(ctx context.Context) ([]payments.Payment, error)
}

// THNSource supplies truck hiring notes to the snapshot.
type THNSource interface {
	ListAll(ctx context.Context) ([]truckhiring.TruckHiringNote, error)
}

// CompanySource supplies the company profile to the snapshot.
type CompanySource interface {
	Get(ctx context.Context) (*company.Info, error)
	ListBankAccounts(ctx context.Context) ([]company.BankAccount, error)
}

// NumberingSource supplies sequence configs and repairs them after restore.
type NumberingSource interface {
	List(ctx context.Context) ([]numbering.Config, error)
	ResyncAll(ctx context.Context) (map[numbering.DocType]int64, error)
}

// Restorer rewrites the database from a snapshot.
type Restorer interface {
	Restore(ctx context.Context, snap *Snapshot) error
}

// Service exports and restores full-database snapshots.
type Service struct {
	logger    *slog.Logger
	customers CustomerSource
	lrs       LRSource
	invoices  InvoiceSource
	payments  PaymentSource
	thns      THNSource
	company   CompanySource
	numbering NumberingSource
	restorer  Restorer
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, cs CustomerSource, lrs LRSource, inv InvoiceSource,
	pay PaymentSource, thn THNSource, comp CompanySource, num NumberingSource, restorer Restorer) *Service {
	return &Service{
		logger:    logger,
		customers: cs,
		lrs:       lrs,
		invoices:  inv,
		payments:  pay,
		thns:      thn,
		company:   comp,
		numbering: num,
		restorer:  restorer,
	}
}

// Export writes a JSON snapshot of every collection.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	snap := Snapshot{Version: FormatVersion, CreatedAt: time.Now().UTC()}

	var err error
	if snap.Customers, err = s.customers.ListAll(ctx); err != nil {
		return fmt.Errorf("backup: export customers: %w", err)
	}
	if snap.LorryReceipts, err = s.lrs.ListAll(ctx); err != nil {
		return fmt.Errorf("backup: export lorry receipts: %w", err)
	}
	if snap.Invoices, err = s.invoices.ListAll(ctx); err != nil {
		return fmt.Errorf("backup: export invoices: %w", err)
	}
	if snap.Payments, err = s.payments.ListAll(ctx); err != nil {
		return fmt.Errorf("backup: export payments: %w", err)
	}
	if snap.TruckHiringNotes, err = s.thns.ListAll(ctx); err != nil {
		return fmt.Errorf("backup: export truck hiring notes: %w", err)
	}
	info, err := s.company.Get(ctx)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("backup: export company: %w", err)
	}
	snap.Company = info
	if snap.BankAccounts, err = s.company.ListBankAccounts(ctx); err != nil {
		return fmt.Errorf("backup: export bank accounts: %w", err)
	}
	if snap.NumberingConfigs, err = s.numbering.List(ctx); err != nil {
		return fmt.Errorf("backup: export numbering configs: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// Restore loads a snapshot, rewrites the database and resyncs every number
// sequence against the restored documents.
func (s *Service) Restore(ctx context.Context, r io.Reader) error {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("%w: decode snapshot: %s", shared.ErrValidation, err.Error())
	}
	if snap.Version != FormatVersion {
		return fmt.Errorf("%w: snapshot version %d, want %d", shared.ErrValidation, snap.Version, FormatVersion)
	}

	if err := s.restorer.Restore(ctx, &snap); err != nil {
		return err
	}

	next, err := s.numbering.ResyncAll(ctx)
	if err != nil {
		return fmt.Errorf("backup: resync after restore: %w", err)
	}
	for docType, n := range next {
		s.logger.Info("sequence resynced after restore",
			slog.String("doc_type", string(docType)), slog.Int64("next", n))
	}
	return nil
}
