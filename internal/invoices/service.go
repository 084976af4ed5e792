package invoices

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// Allocator is the slice of the numbering service the invoice module needs.
type Allocator interface {
	AllocateNext(ctx context.Context, docType numbering.DocType) (int64, error)
	AllocateManual(ctx context.Context, docType numbering.DocType, candidate int64) (int64, error)
}

// Service handles invoice business logic.
type Service struct {
	repo      RepositoryPort
	allocator Allocator
	validate  *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, allocator Allocator) *Service {
	return &Service{repo: repo, allocator: allocator, validate: validator.New()}
}

// prepare validates the payload, loads the billed receipts and recomputes the
// freight total plus the GST amounts from the rates. It returns the receipts
// so callers can apply their own membership rules, and the zero-freight
// warning flag.
func (s *Service) prepare(ctx context.Context, input Input) (Invoice, []LRFreight, bool, error) {
	if err := s.validate.Struct(input); err != nil {
		return Invoice{}, nil, false, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}

	lrs, err := s.repo.FetchLRFreights(ctx, input.LorryReceipts)
	if err != nil {
		return Invoice{}, nil, false, err
	}
	if len(lrs) != len(input.LorryReceipts) {
		return Invoice{}, nil, false, fmt.Errorf("%w: one or more lorry receipts missing", shared.ErrNotFound)
	}

	total := decimal.Zero
	hasZeroFreight := false
	for _, lr := range lrs {
		if lr.Freight.IsZero() {
			hasZeroFreight = true
		}
		total = total.Add(lr.Freight)
	}

	gst := input.GST
	grand := gst.Compute(total)

	inv := Invoice{
		Date:          input.Date,
		CustomerID:    input.CustomerID,
		LorryReceipts: input.LorryReceipts,
		TotalAmount:   total,
		GST:           gst,
		GrandTotal:    grand,
		Status:        StatusUnpaid,
		Remarks:       input.Remarks,
	}
	return inv, lrs, hasZeroFreight, nil
}

// Create allocates the invoice number, bills the receipts and stamps them
// Invoiced. Receipts already on another invoice are rejected.
func (s *Service) Create(ctx context.Context, input Input) (*CreateResult, error) {
	inv, lrs, hasZeroFreight, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	for _, lr := range lrs {
		if lr.Status == "Invoiced" || lr.Status == "Paid" {
			return nil, fmt.Errorf("%w: lorry receipt %d already invoiced", shared.ErrConflict, lr.LRNumber)
		}
	}

	if input.InvoiceNumber > 0 {
		inv.InvoiceNumber, err = s.allocator.AllocateManual(ctx, numbering.DocTypeInvoice, input.InvoiceNumber)
	} else {
		inv.InvoiceNumber, err = s.allocator.AllocateNext(ctx, numbering.DocTypeInvoice)
	}
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateWithLRs(ctx, inv)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Invoice: created, HasZeroFreight: hasZeroFreight}, nil
}

// Get returns one invoice.
func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid invoice ID", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// List returns a page of invoices.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Invoice, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Update rewrites the invoice and reconciles receipt membership. Receipts
// added to the invoice become Invoiced, removed ones revert to Created.
// Receipts already billed by a different invoice are rejected.
func (s *Service) Update(ctx context.Context, id int64, input Input) (*CreateResult, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	inv, lrs, hasZeroFreight, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	for _, lr := range lrs {
		if lr.InvoiceID != nil && *lr.InvoiceID != id {
			return nil, fmt.Errorf("%w: lorry receipt %d already invoiced", shared.ErrConflict, lr.LRNumber)
		}
	}
	inv.ID = id
	inv.Status = existing.Status

	inv.InvoiceNumber = existing.InvoiceNumber
	if input.InvoiceNumber > 0 && input.InvoiceNumber != existing.InvoiceNumber {
		inv.InvoiceNumber, err = s.allocator.AllocateManual(ctx, numbering.DocTypeInvoice, input.InvoiceNumber)
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateWithLRs(ctx, inv, existing.LorryReceipts)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Invoice: updated, HasZeroFreight: hasZeroFreight}, nil
}

// Delete removes an invoice and reverts its receipts to Created. Deletion is
// blocked while payments are attached.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid invoice ID", shared.ErrValidation)
	}
	attached, err := s.repo.CountPayments(ctx, id)
	if err != nil {
		return err
	}
	if attached > 0 {
		return fmt.Errorf("%w: invoice has %d payments attached", shared.ErrConflict, attached)
	}
	return s.repo.DeleteWithLRs(ctx, id)
}
