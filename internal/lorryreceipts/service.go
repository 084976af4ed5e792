package lorryreceipts

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// Allocator is the slice of the numbering service the LR module needs.
type Allocator interface {
	AllocateNext(ctx context.Context, docType numbering.DocType) (int64, error)
	AllocateManual(ctx context.Context, docType numbering.DocType, candidate int64) (int64, error)
}

// Service handles lorry receipt business logic.
type Service struct {
	repo      RepositoryPort
	allocator Allocator
	validate  *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, allocator Allocator) *Service {
	return &Service{repo: repo, allocator: allocator, validate: validator.New()}
}

// Create allocates (or validates) the LR number, recomputes the total from
// the charge breakdown and stores the receipt with status Created.
func (s *Service) Create(ctx context.Context, input Input) (*LorryReceipt, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}

	var number int64
	var err error
	if input.LRNumber > 0 {
		number, err = s.allocator.AllocateManual(ctx, numbering.DocTypeConsignment, input.LRNumber)
	} else {
		number, err = s.allocator.AllocateNext(ctx, numbering.DocTypeConsignment)
	}
	if err != nil {
		return nil, err
	}

	lr := LorryReceipt{
		LRNumber:    number,
		Date:        input.Date,
		ConsignorID: input.ConsignorID,
		ConsigneeID: input.ConsigneeID,
		From:        input.From,
		To:          input.To,
		Packages:    input.Packages,
		Charges:     input.Charges,
		TotalAmount: input.Charges.Total(),
		Status:      StatusCreated,
	}
	return s.repo.Create(ctx, lr)
}

// Get returns one lorry receipt.
func (s *Service) Get(ctx context.Context, id int64) (*LorryReceipt, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid lorry receipt ID", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// List returns a page of lorry receipts.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]LorryReceipt, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Update rewrites a lorry receipt. Invoiced receipts are frozen: their
// numbers and amounts are already carried on an invoice.
func (s *Service) Update(ctx context.Context, id int64, input Input) (*LorryReceipt, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == StatusInvoiced || existing.Status == StatusPaid {
		return nil, fmt.Errorf("%w: lorry receipt %d is invoiced", shared.ErrConflict, existing.LRNumber)
	}

	number := existing.LRNumber
	if input.LRNumber > 0 && input.LRNumber != existing.LRNumber {
		number, err = s.allocator.AllocateManual(ctx, numbering.DocTypeConsignment, input.LRNumber)
		if err != nil {
			return nil, err
		}
	}

	updated := *existing
	updated.LRNumber = number
	updated.Date = input.Date
	updated.ConsignorID = input.ConsignorID
	updated.ConsigneeID = input.ConsigneeID
	updated.From = input.From
	updated.To = input.To
	updated.Packages = input.Packages
	updated.Charges = input.Charges
	updated.TotalAmount = input.Charges.Total()
	return s.repo.Update(ctx, id, updated)
}

// UpdateStatus applies a manual status transition. Invoiced/Paid are owned
// by the invoice lifecycle and rejected here.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !manualStatuses[status] {
		return fmt.Errorf("%w: status %q is set by the invoice lifecycle", shared.ErrValidation, status)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status == StatusInvoiced || existing.Status == StatusPaid {
		return fmt.Errorf("%w: lorry receipt %d is invoiced", shared.ErrConflict, existing.LRNumber)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes a lorry receipt unless it is on an invoice.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status == StatusInvoiced || existing.Status == StatusPaid {
		return fmt.Errorf("%w: lorry receipt %d is invoiced and cannot be deleted", shared.ErrConflict, existing.LRNumber)
	}
	return s.repo.Delete(ctx, id)
}
