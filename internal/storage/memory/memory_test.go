// internal/storage/memory/memory_test.go
package memory

import (
	"context"
	"testing"
	"time"

	"expense-tracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteCategoryCascadesToExpenses(t *testing.T) {
	ctx := context.Background()
	store := NewStorage()

	user := domain.User{Username: "alice", StartingBalance: domain.DefaultStartingBalance}
	require.NoError(t, store.CreateUser(ctx, &user))

	cat := domain.Category{Name: "Food", Type: domain.CategoryExpense, UserID: user.ID}
	require.NoError(t, store.CreateCategory(ctx, &cat))

	exp := domain.Expense{
		Amount:     decimal.RequireFromString("12.00"),
		CategoryID: cat.ID,
		Date:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		UserID:     user.ID,
	}
	require.NoError(t, store.CreateExpense(ctx, &exp))

	require.NoError(t, store.DeleteCategory(ctx, user.ID, cat.ID))

	_, err := store.GetExpense(ctx, user.ID, exp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateExpenseOwnerChecks(t *testing.T) {
	ctx := context.Background()
	store := NewStorage()

	alice := domain.User{Username: "alice"}
	bob := domain.User{Username: "bob"}
	require.NoError(t, store.CreateUser(ctx, &alice))
	require.NoError(t, store.CreateUser(ctx, &bob))

	cat := domain.Category{Name: "Travel", Type: domain.CategoryExpense, UserID: alice.ID}
	require.NoError(t, store.CreateCategory(ctx, &cat))

	exp := domain.Expense{
		Amount:     decimal.RequireFromString("10.00"),
		CategoryID: cat.ID,
		Date:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		UserID:     bob.ID,
	}
	assert.ErrorIs(t, store.CreateExpense(ctx, &exp), domain.ErrForbiddenCategory)

	exp.CategoryID = 999
	assert.ErrorIs(t, store.CreateExpense(ctx, &exp), domain.ErrNotFound)
}
