package truckhiring

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// Allocator is the slice of the numbering service the THN module needs.
type Allocator interface {
	AllocateNext(ctx context.Context, docType numbering.DocType) (int64, error)
	AllocateManual(ctx context.Context, docType numbering.DocType, candidate int64) (int64, error)
}

// Service handles truck hiring note business logic.
type Service struct {
	repo      RepositoryPort
	allocator Allocator
	validate  *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, allocator Allocator) *Service {
	return &Service{repo: repo, allocator: allocator, validate: validator.New()}
}

func (s *Service) checkInput(input Input) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	if input.FreightRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: freight rate must be positive", shared.ErrValidation)
	}
	if input.RateType != RatePerTrip && input.Quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: quantity required for %s rates", shared.ErrValidation, input.RateType)
	}
	if input.AdvanceAmount.IsNegative() {
		return fmt.Errorf("%w: advance cannot be negative", shared.ErrValidation)
	}
	return nil
}

// Create allocates (or validates) the THN number, computes the trip freight
// and stores the note. The advance alone can already settle the note.
func (s *Service) Create(ctx context.Context, input Input) (*TruckHiringNote, error) {
	if err := s.checkInput(input); err != nil {
		return nil, err
	}

	var number int64
	var err error
	if input.THNNumber > 0 {
		number, err = s.allocator.AllocateManual(ctx, numbering.DocTypeTruckHiring, input.THNNumber)
	} else {
		number, err = s.allocator.AllocateNext(ctx, numbering.DocTypeTruckHiring)
	}
	if err != nil {
		return nil, err
	}

	freight := input.FreightAmountValue()
	thn := TruckHiringNote{
		THNNumber:     number,
		Date:          input.Date,
		TruckNumber:   input.TruckNumber,
		OwnerName:     input.OwnerName,
		OwnerContact:  input.OwnerContact,
		From:          input.From,
		To:            input.To,
		FreightRate:   input.FreightRate,
		RateType:      input.RateType,
		Quantity:      input.Quantity,
		FreightAmount: freight,
		AdvanceAmount: input.AdvanceAmount,
		Status:        DeriveStatus(freight, input.AdvanceAmount, decimal.Zero),
		Remarks:       input.Remarks,
	}
	return s.repo.Create(ctx, thn)
}

// Get returns one truck hiring note.
func (s *Service) Get(ctx context.Context, id int64) (*TruckHiringNote, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid truck hiring note ID", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// List returns a page of truck hiring notes.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]TruckHiringNote, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Update rewrites a truck hiring note, recomputing freight and status against
// the payments already recorded.
func (s *Service) Update(ctx context.Context, id int64, input Input) (*TruckHiringNote, error) {
	if err := s.checkInput(input); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	number := existing.THNNumber
	if input.THNNumber > 0 && input.THNNumber != existing.THNNumber {
		number, err = s.allocator.AllocateManual(ctx, numbering.DocTypeTruckHiring, input.THNNumber)
		if err != nil {
			return nil, err
		}
	}

	freight := input.FreightAmountValue()
	updated := *existing
	updated.THNNumber = number
	updated.Date = input.Date
	updated.TruckNumber = input.TruckNumber
	updated.OwnerName = input.OwnerName
	updated.OwnerContact = input.OwnerContact
	updated.From = input.From
	updated.To = input.To
	updated.FreightRate = input.FreightRate
	updated.RateType = input.RateType
	updated.Quantity = input.Quantity
	updated.FreightAmount = freight
	updated.AdvanceAmount = input.AdvanceAmount
	updated.Status = DeriveStatus(freight, input.AdvanceAmount, existing.PaidAmount)
	updated.Remarks = input.Remarks
	return s.repo.Update(ctx, id, updated)
}

// Delete removes a truck hiring note unless payments are attached.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid truck hiring note ID", shared.ErrValidation)
	}
	attached, err := s.repo.CountPayments(ctx, id)
	if err != nil {
		return err
	}
	if attached > 0 {
		return fmt.Errorf("%w: truck hiring note has %d payments attached", shared.ErrConflict, attached)
	}
	return s.repo.Delete(ctx, id)
}
