package service

import (
	"context"
	"fmt"

	"rentalmap/internal/auth"
	"rentalmap/internal/model"
)

// AccountStore is the credential-store collaborator.
type AccountStore interface {
	Find(ctx context.Context, username string) (*model.Account, error)
	Insert(ctx context.Context, username, passwordHash string) error
}

// AuthService gates access to the catalog. Authentication failures are
// deliberately shapeless: a missing account and a wrong password both
// come back as plain false.
type AuthService struct {
	store      AccountStore
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(store AccountStore, bcryptCost int) *AuthService {
	return &AuthService{store: store, bcryptCost: bcryptCost}
}

// Register stores a new account with a hashed password. Usernames are
// not checked for pre-existence.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	hashed, err := auth.Hash(password, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.store.Insert(ctx, username, hashed); err != nil {
		return fmt.Errorf("failed to register account: %w", err)
	}
	return nil
}

// Authenticate verifies a username/password pair. Store errors are
// returned; a missing account or mismatched password is not an error,
// just false.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	account, err := s.store.Find(ctx, username)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}
	return auth.Verify(account.PasswordHash, password), nil
}
