package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/users"
)

type stubUserStore struct {
	user *users.User
}

func (s *stubUserStore) FindByEmail(_ context.Context, _ string) (*users.User, error) {
	if s.user == nil {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubUserStore) Get(_ context.Context, id int64) (*users.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthenticate(t *testing.T) {
	store := &stubUserStore{user: &users.User{
		ID: 1, Email: "ops@freightdesk.in", PasswordHash: hashed(t, "correct-horse"), IsActive: true,
	}}
	svc := NewService(store)

	user, err := svc.Authenticate(context.Background(), "ops@freightdesk.in", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	store := &stubUserStore{user: &users.User{
		ID: 1, Email: "ops@freightdesk.in", PasswordHash: hashed(t, "correct-horse"), IsActive: true,
	}}
	svc := NewService(store)

	_, err := svc.Authenticate(context.Background(), "ops@freightdesk.in", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	store := &stubUserStore{user: &users.User{
		ID: 1, Email: "ops@freightdesk.in", PasswordHash: hashed(t, "correct-horse"), IsActive: false,
	}}
	svc := NewService(store)

	_, err := svc.Authenticate(context.Background(), "ops@freightdesk.in", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewService(&stubUserStore{})

	_, err := svc.Authenticate(context.Background(), "ghost@freightdesk.in", "whatever")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestCurrentUserAnonymous(t *testing.T) {
	svc := NewService(&stubUserStore{})

	_, err := svc.CurrentUser(context.Background(), 0)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}
