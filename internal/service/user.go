// internal/service/user.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"expense-tracker/internal/auth"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"
)

// defaultCategories are provisioned for every new user.
var defaultCategories = []domain.Category{
	{Name: "Car", Type: domain.CategoryExpense},
	{Name: "Food", Type: domain.CategoryExpense},
	{Name: "Clothes", Type: domain.CategoryExpense},
	{Name: "Salary", Type: domain.CategoryIncome},
}

type UserStore interface {
	storage.UserStorage
	storage.CategoryStorage
}

type UserService struct {
	store  UserStore
	tokens *auth.TokenService
	hasher *auth.PasswordHasher
}

func NewUserService(store UserStore, tokens *auth.TokenService, hasher *auth.PasswordHasher) *UserService {
	return &UserService{store: store, tokens: tokens, hasher: hasher}
}

// Register creates the user with the default starting balance, then
// provisions the default categories as an explicit follow-up step.
// Returns the user and a fresh bearer token.
func (s *UserService) Register(ctx context.Context, username, password, email string) (*domain.User, string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:        username,
		Email:           email,
		PasswordHash:    hash,
		StartingBalance: domain.DefaultStartingBalance,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	if err := s.ProvisionDefaults(ctx, user); err != nil {
		// The account itself is usable without the starter categories.
		slog.Warn("default category provisioning failed", "user_id", user.ID, "error", err)
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// ProvisionDefaults creates the starter categories for a new user.
func (s *UserService) ProvisionDefaults(ctx context.Context, user *domain.User) error {
	for _, def := range defaultCategories {
		cat := domain.Category{Name: def.Name, Type: def.Type, UserID: user.ID}
		if err := s.store.CreateCategory(ctx, &cat); err != nil {
			return fmt.Errorf("provision category %q: %w", def.Name, err)
		}
	}
	return nil
}

// Login verifies credentials and issues a bearer token.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, "", domain.ErrNotFound
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, "", domain.ErrNotFound
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}
