// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"

	"github.com/shopspring/decimal"
)

// Storage is an in-memory implementation of the storage interfaces,
// used by tests in place of Postgres. Semantics mirror the postgres
// package: owner filtering on every read, category-owner check on
// expense writes, cascade delete from category to expenses.
type Storage struct {
	mu         sync.Mutex
	nextID     int64
	users      map[int64]domain.User
	categories map[int64]domain.Category
	expenses   map[int64]domain.Expense
}

func NewStorage() *Storage {
	return &Storage{
		nextID:     1,
		users:      make(map[int64]domain.User),
		categories: make(map[int64]domain.Category),
		expenses:   make(map[int64]domain.Expense),
	}
}

func (s *Storage) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// === UserStorage ===

func (s *Storage) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	user.ID = s.id()
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) FindUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (s *Storage) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Storage) UpdateStartingBalance(_ context.Context, userID int64, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.StartingBalance = balance
	s.users[userID] = user
	return nil
}

// === CategoryStorage ===

func (s *Storage) CreateCategory(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	category.ID = s.id()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	s.categories[category.ID] = *category
	return nil
}

func (s *Storage) GetCategory(_ context.Context, userID, id int64) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := domain.AssertOwned(cat, userID); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *Storage) ListCategories(_ context.Context, userID int64) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	categories := []domain.Category{}
	for _, cat := range s.categories {
		if cat.UserID == userID {
			categories = append(categories, cat)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].CreatedAt.Equal(categories[j].CreatedAt) {
			return categories[i].ID > categories[j].ID
		}
		return categories[i].CreatedAt.After(categories[j].CreatedAt)
	})
	return categories, nil
}

func (s *Storage) UpdateCategory(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.categories[category.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := domain.AssertOwned(existing, category.UserID); err != nil {
		return err
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	s.categories[category.ID] = *category
	return nil
}

func (s *Storage) DeleteCategory(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := s.categories[id]
	if !ok {
		return domain.ErrNotFound
	}
	if err := domain.AssertOwned(cat, userID); err != nil {
		return err
	}
	delete(s.categories, id)
	for expID, exp := range s.expenses {
		if exp.CategoryID == id {
			delete(s.expenses, expID)
		}
	}
	return nil
}

// === ExpenseStorage ===

func (s *Storage) CreateExpense(_ context.Context, expense *domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCategoryOwner(expense.CategoryID, expense.UserID); err != nil {
		return err
	}
	expense.ID = s.id()
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	s.expenses[expense.ID] = *expense
	return nil
}

func (s *Storage) checkCategoryOwner(categoryID, userID int64) error {
	cat, ok := s.categories[categoryID]
	if !ok {
		return domain.ErrNotFound
	}
	if cat.UserID != userID {
		return domain.ErrForbiddenCategory
	}
	return nil
}

func (s *Storage) GetExpense(_ context.Context, userID, id int64) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expenses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := domain.AssertOwned(exp, userID); err != nil {
		return nil, err
	}
	return &exp, nil
}

func (s *Storage) ListExpenses(_ context.Context, userID int64, filter storage.ExpenseFilter) ([]domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expenses := []domain.Expense{}
	for _, exp := range s.expenses {
		if exp.UserID != userID {
			continue
		}
		if filter.CategoryID > 0 && exp.CategoryID != filter.CategoryID {
			continue
		}
		if filter.MinAmount != nil && exp.Amount.LessThan(*filter.MinAmount) {
			continue
		}
		if filter.MaxAmount != nil && exp.Amount.GreaterThan(*filter.MaxAmount) {
			continue
		}
		created := exp.CreatedAt.Truncate(24 * time.Hour)
		if filter.StartDate != nil && created.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && created.After(*filter.EndDate) {
			continue
		}
		expenses = append(expenses, exp)
	}
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].CreatedAt.Equal(expenses[j].CreatedAt) {
			return expenses[i].ID > expenses[j].ID
		}
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses, nil
}

func (s *Storage) UpdateExpense(_ context.Context, expense *domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.expenses[expense.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := domain.AssertOwned(existing, expense.UserID); err != nil {
		return err
	}
	if err := s.checkCategoryOwner(expense.CategoryID, expense.UserID); err != nil {
		return err
	}
	expense.CreatedAt = existing.CreatedAt
	expense.UpdatedAt = time.Now()
	s.expenses[expense.ID] = *expense
	return nil
}

func (s *Storage) DeleteExpense(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expenses[id]
	if !ok {
		return domain.ErrNotFound
	}
	if err := domain.AssertOwned(exp, userID); err != nil {
		return err
	}
	delete(s.expenses, id)
	return nil
}

// === Balance engine reads ===

func (s *Storage) TransactionsBefore(_ context.Context, userID int64, before time.Time) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txs []domain.Transaction
	for _, exp := range s.expenses {
		if exp.UserID != userID || !exp.Date.Before(before) {
			continue
		}
		txs = append(txs, s.transaction(exp))
	}
	return txs, nil
}

func (s *Storage) TransactionsBetween(_ context.Context, userID int64, start, end time.Time) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txs []domain.Transaction
	for _, exp := range s.expenses {
		if exp.UserID != userID || exp.Date.Before(start) || exp.Date.After(end) {
			continue
		}
		txs = append(txs, s.transaction(exp))
	}
	return txs, nil
}

func (s *Storage) transaction(exp domain.Expense) domain.Transaction {
	return domain.Transaction{
		Amount: exp.Amount,
		Type:   s.categories[exp.CategoryID].Type,
		Date:   exp.Date,
	}
}
