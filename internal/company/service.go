package company

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/shared"
)

// Service handles company profile business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Get returns the company profile. A missing profile comes back as an empty
// one so the UI always has something to edit.
func (s *Service) Get(ctx context.Context) (*Info, error) {
	info, err := s.repo.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return &Info{ID: 1}, nil
	}
	return info, err
}

// Update writes the company profile.
func (s *Service) Update(ctx context.Context, input InfoInput) (*Info, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	return s.repo.Upsert(ctx, Info{
		Name:    input.Name,
		Address: input.Address,
		City:    input.City,
		State:   input.State,
		PIN:     input.PIN,
		Phone:   input.Phone,
		Email:   input.Email,
		GSTIN:   strings.ToUpper(input.GSTIN),
		PAN:     strings.ToUpper(input.PAN),
	})
}

// ListBankAccounts returns all bank accounts.
func (s *Service) ListBankAccounts(ctx context.Context) ([]BankAccount, error) {
	return s.repo.ListBankAccounts(ctx)
}

// AddBankAccount stores a bank account.
func (s *Service) AddBankAccount(ctx context.Context, input BankAccountInput) (*BankAccount, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	return s.repo.AddBankAccount(ctx, BankAccount{
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		IFSC:          strings.ToUpper(input.IFSC),
		Branch:        input.Branch,
	})
}

// DeleteBankAccount removes a bank account, repointing the current marker if
// needed.
func (s *Service) DeleteBankAccount(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid bank account ID", shared.ErrValidation)
	}
	return s.repo.DeleteBankAccount(ctx, id)
}

// SetCurrentBankAccount marks the account the documents print.
func (s *Service) SetCurrentBankAccount(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid bank account ID", shared.ErrValidation)
	}
	return s.repo.SetCurrentBankAccount(ctx, id)
}
