// internal/storage/storage.go
package storage

import (
	"context"
	"time"

	"expense-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// ExpenseFilter narrows an expense listing. Zero-valued fields impose
// no constraint; set fields combine with AND. The date bounds apply to
// the record's creation date, matching the listing contract (the
// balance engine filters by the expense's own date instead).
type ExpenseFilter struct {
	CategoryID int64
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	StartDate  *time.Time
	EndDate    *time.Time
}

type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateStartingBalance(ctx context.Context, userID int64, balance decimal.Decimal) error
}

type CategoryStorage interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, userID, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, userID int64) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, userID, id int64) error
}

type ExpenseStorage interface {
	CreateExpense(ctx context.Context, expense *domain.Expense) error
	GetExpense(ctx context.Context, userID, id int64) (*domain.Expense, error)
	ListExpenses(ctx context.Context, userID int64, filter ExpenseFilter) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, expense *domain.Expense) error
	DeleteExpense(ctx context.Context, userID, id int64) error

	// Balance engine reads. Both return expense rows joined with their
	// category's type, keyed by the expense's transaction date.
	TransactionsBefore(ctx context.Context, userID int64, before time.Time) ([]domain.Transaction, error)
	TransactionsBetween(ctx context.Context, userID int64, start, end time.Time) ([]domain.Transaction, error)
}
