package customers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/shared"
)

var gstinPattern = regexp.MustCompile(`^[0-9A-Z]{15}$`)

// Service handles customer business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) normalize(input *CustomerInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.TradeName = strings.TrimSpace(input.TradeName)
	input.GSTIN = strings.ToUpper(strings.TrimSpace(input.GSTIN))
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	if input.GSTIN != "" {
		if !gstinPattern.MatchString(input.GSTIN) {
			return fmt.Errorf("%w: gstin must be 15 uppercase alphanumeric characters", shared.ErrValidation)
		}
		if input.GSTINSource == "" {
			input.GSTINSource = GSTINSourceManual
		}
	} else {
		input.GSTINSource = ""
	}
	return nil
}

// Create validates and stores a new customer.
func (s *Service) Create(ctx context.Context, input CustomerInput) (*Customer, error) {
	if err := s.normalize(&input); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, input)
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid customer ID", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// List returns a page of customers.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Customer, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Update validates and rewrites a customer.
func (s *Service) Update(ctx context.Context, id int64, input CustomerInput) (*Customer, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid customer ID", shared.ErrValidation)
	}
	if err := s.normalize(&input); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, input)
}

// Delete removes a customer unless documents still reference it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid customer ID", shared.ErrValidation)
	}
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: customer is referenced by %d documents", shared.ErrConflict, refs)
	}
	return s.repo.Delete(ctx, id)
}
