package payments

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/freightdesk/freightdesk/internal/shared"
)

// Service handles payment business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Create records a money movement. The repository resettles the linked
// invoice or truck hiring note in the same transaction.
func (s *Service) Create(ctx context.Context, input Input) (*Payment, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	if input.InvoiceID != nil && input.THNID != nil {
		return nil, fmt.Errorf("%w: a payment offsets an invoice or a truck hiring note, not both", shared.ErrValidation)
	}

	return s.repo.Create(ctx, Payment{
		Amount:      input.Amount,
		Date:        input.Date,
		Type:        input.Type,
		Mode:        input.Mode,
		CustomerID:  input.CustomerID,
		InvoiceID:   input.InvoiceID,
		THNID:       input.THNID,
		ReferenceNo: input.ReferenceNo,
		Notes:       input.Notes,
	})
}

// Get returns one payment.
func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid payment ID", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// List returns a page of payments.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Payment, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Delete removes a payment and resettles whatever it offset.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid payment ID", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
