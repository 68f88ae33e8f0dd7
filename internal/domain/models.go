// internal/domain/models.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultStartingBalance is assigned to every new user profile.
var DefaultStartingBalance = decimal.New(1000000, -2) // 10000.00

type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

func ParseCategoryType(s string) (CategoryType, error) {
	switch CategoryType(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryIncome:
		return CategoryIncome, nil
	case CategoryExpense:
		return CategoryExpense, nil
	}
	return "", ErrInvalidCategoryType
}

type User struct {
	ID              int64           `json:"id"`
	Username        string          `json:"username"`
	Email           string          `json:"email"`
	PasswordHash    string          `json:"-"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	CreatedAt       time.Time       `json:"date_joined"`
}

type Category struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	UserID    int64        `json:"-"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

var titleCaser = cases.Title(language.English)

// NormalizeName trims and title-cases the category name the same way
// on every write path.
func (c *Category) NormalizeName() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyCategoryName
	}
	c.Name = titleCaser.String(name)
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	if c.Type != CategoryIncome && c.Type != CategoryExpense {
		return ErrInvalidCategoryType
	}
	return nil
}

type Expense struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  int64           `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	UserID      int64           `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Normalize folds a signed amount into its positive magnitude. The
// contribution sign comes from the owning category's type, never from
// the stored amount.
func (e *Expense) Normalize() error {
	e.Amount = e.Amount.Abs().Round(2)
	if !e.Amount.GreaterThan(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	return nil
}

func (e Expense) Validate(now time.Time) error {
	if !e.Amount.GreaterThan(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	if e.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if e.Date.After(now) {
		return ErrFutureDate
	}
	return nil
}

// Transaction is the read model the balance engine consumes: an
// expense row joined with its category's type.
type Transaction struct {
	Amount decimal.Decimal
	Type   CategoryType
	Date   time.Time
}

// Signed returns the transaction's contribution to the balance:
// +amount for income categories, -amount for expense categories.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == CategoryIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}
