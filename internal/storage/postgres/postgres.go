// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// Monetary columns are NUMERIC(10,2); amounts travel as fixed-point
// strings so no float ever touches a balance.
func scanDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return d, nil
}

// === UserStorage ===

func (s *Storage) CreateUser(ctx context.Context, user *domain.User) error {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", user.Username,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if exists {
		return domain.ErrUsernameTaken
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, starting_balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, user.Username, user.Email, user.PasswordHash, user.StartingBalance.StringFixed(2)).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Storage) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.findUser(ctx, "id = $1", id)
}

func (s *Storage) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findUser(ctx, "username = $1", username)
}

func (s *Storage) findUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var user domain.User
	var balance string
	err := s.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, starting_balance, created_at
		FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &balance, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	user.StartingBalance, err = scanDecimal(balance)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) UpdateStartingBalance(ctx context.Context, userID int64, balance decimal.Decimal) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE users SET starting_balance = $1, updated_at = now() WHERE id = $2",
		balance.StringFixed(2), userID,
	)
	if err != nil {
		return fmt.Errorf("update starting balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// === CategoryStorage ===

func (s *Storage) CreateCategory(ctx context.Context, category *domain.Category) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO categories (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, category.UserID, category.Name, string(category.Type)).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *Storage) GetCategory(ctx context.Context, userID, id int64) (*domain.Category, error) {
	var cat domain.Category
	var catType string
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, name, type, created_at, updated_at
		FROM categories WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&cat.ID, &cat.UserID, &cat.Name, &catType, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	cat.Type = domain.CategoryType(catType)
	return &cat, nil
}

func (s *Storage) ListCategories(ctx context.Context, userID int64) ([]domain.Category, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, type, created_at, updated_at
		FROM categories WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var cat domain.Category
		var catType string
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &catType, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cat.Type = domain.CategoryType(catType)
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (s *Storage) UpdateCategory(ctx context.Context, category *domain.Category) error {
	err := s.db.QueryRow(ctx, `
		UPDATE categories SET name = $1, type = $2, updated_at = now()
		WHERE id = $3 AND user_id = $4
		RETURNING updated_at
	`, category.Name, string(category.Type), category.ID, category.UserID).
		Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (s *Storage) DeleteCategory(ctx context.Context, userID, id int64) error {
	// Expenses go with the category via ON DELETE CASCADE.
	tag, err := s.db.Exec(ctx,
		"DELETE FROM categories WHERE id = $1 AND user_id = $2", id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// === ExpenseStorage ===

// CreateExpense validates the category-owner invariant inside the same
// transaction as the insert, so a concurrent category mutation cannot
// slip between check and commit.
func (s *Storage) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkCategoryOwner(ctx, tx, expense.CategoryID, expense.UserID); err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO expenses (user_id, category_id, amount, description, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, expense.UserID, expense.CategoryID, expense.Amount.StringFixed(2),
		expense.Description, expense.Date).
		Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func checkCategoryOwner(ctx context.Context, tx pgx.Tx, categoryID, userID int64) error {
	var ownerID int64
	err := tx.QueryRow(ctx,
		"SELECT user_id FROM categories WHERE id = $1", categoryID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("find expense category: %w", err)
	}
	if ownerID != userID {
		return domain.ErrForbiddenCategory
	}
	return nil
}

func (s *Storage) GetExpense(ctx context.Context, userID, id int64) (*domain.Expense, error) {
	var exp domain.Expense
	var amount string
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, category_id, amount, description, date, created_at, updated_at
		FROM expenses WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&exp.ID, &exp.UserID, &exp.CategoryID, &amount,
		&exp.Description, &exp.Date, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	exp.Amount, err = scanDecimal(amount)
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

func (s *Storage) ListExpenses(ctx context.Context, userID int64, filter storage.ExpenseFilter) ([]domain.Expense, error) {
	query := `
		SELECT id, user_id, category_id, amount, description, date, created_at, updated_at
		FROM expenses WHERE user_id = $1`
	args := []any{userID}

	if filter.CategoryID > 0 {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.MinAmount != nil {
		args = append(args, filter.MinAmount.StringFixed(2))
		query += fmt.Sprintf(" AND amount >= $%d", len(args))
	}
	if filter.MaxAmount != nil {
		args = append(args, filter.MaxAmount.StringFixed(2))
		query += fmt.Sprintf(" AND amount <= $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND created_at::date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND created_at::date <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var exp domain.Expense
		var amount string
		if err := rows.Scan(&exp.ID, &exp.UserID, &exp.CategoryID, &amount,
			&exp.Description, &exp.Date, &exp.CreatedAt, &exp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if exp.Amount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	return expenses, rows.Err()
}

func (s *Storage) UpdateExpense(ctx context.Context, expense *domain.Expense) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkCategoryOwner(ctx, tx, expense.CategoryID, expense.UserID); err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		UPDATE expenses SET category_id = $1, amount = $2, description = $3, date = $4, updated_at = now()
		WHERE id = $5 AND user_id = $6
		RETURNING created_at, updated_at
	`, expense.CategoryID, expense.Amount.StringFixed(2), expense.Description,
		expense.Date, expense.ID, expense.UserID).
		Scan(&expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update expense: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Storage) DeleteExpense(ctx context.Context, userID, id int64) error {
	tag, err := s.db.Exec(ctx,
		"DELETE FROM expenses WHERE id = $1 AND user_id = $2", id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// === Balance engine reads ===

func (s *Storage) TransactionsBefore(ctx context.Context, userID int64, before time.Time) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT e.amount, c.type, e.date
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = $1 AND e.date < $2
	`, userID, before)
}

func (s *Storage) TransactionsBetween(ctx context.Context, userID int64, start, end time.Time) ([]domain.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT e.amount, c.type, e.date
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = $1 AND e.date >= $2 AND e.date <= $3
	`, userID, start, end)
}

func (s *Storage) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var amount, catType string
		if err := rows.Scan(&amount, &catType, &tx.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tx.Amount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		tx.Type = domain.CategoryType(catType)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
