package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/users"
)

// UserStore is the slice of the users repository authentication needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	Get(ctx context.Context, id int64) (*users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	store UserStore
}

// NewService constructs a new Service.
func NewService(store UserStore) *Service {
	return &Service{store: store}
}

// Authenticate validates email/password credentials. Every failure path
// collapses into ErrInvalidCredentials so callers cannot probe accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// CurrentUser resolves the session's user ID to an account.
func (s *Service) CurrentUser(ctx context.Context, id int64) (*users.User, error) {
	if id <= 0 {
		return nil, shared.ErrUnauthorized
	}
	return s.store.Get(ctx, id)
}
