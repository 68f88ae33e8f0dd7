// internal/domain/models_test.go
package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseNormalizeAbsoluteValue(t *testing.T) {
	exp := Expense{Amount: decimal.RequireFromString("-50.00")}
	require.NoError(t, exp.Normalize())
	assert.Equal(t, "50.00", exp.Amount.StringFixed(2))
}

func TestExpenseNormalizeRejectsZero(t *testing.T) {
	exp := Expense{Amount: decimal.Zero}
	assert.ErrorIs(t, exp.Normalize(), ErrNonPositiveAmount)
}

func TestExpenseValidateFutureDate(t *testing.T) {
	now := time.Now()
	exp := Expense{
		Amount:     decimal.RequireFromString("10.00"),
		CategoryID: 1,
		Date:       now.Add(48 * time.Hour),
	}
	assert.ErrorIs(t, exp.Validate(now), ErrFutureDate)

	exp.Date = now.Add(-time.Hour)
	assert.NoError(t, exp.Validate(now))
}

func TestTransactionSigned(t *testing.T) {
	amount := decimal.RequireFromString("25.00")

	income := Transaction{Amount: amount, Type: CategoryIncome}
	assert.True(t, income.Signed().Equal(amount))

	expense := Transaction{Amount: amount, Type: CategoryExpense}
	assert.True(t, expense.Signed().Equal(amount.Neg()))
}

func TestCategoryNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"food", "Food"},
		{"  eating out  ", "Eating Out"},
		{"SALARY", "Salary"},
	}
	for _, tt := range tests {
		cat := Category{Name: tt.in}
		require.NoError(t, cat.NormalizeName())
		assert.Equal(t, tt.want, cat.Name)
	}

	blank := Category{Name: "   "}
	assert.ErrorIs(t, blank.NormalizeName(), ErrEmptyCategoryName)
}

func TestParseCategoryType(t *testing.T) {
	got, err := ParseCategoryType(" Income ")
	require.NoError(t, err)
	assert.Equal(t, CategoryIncome, got)

	got, err = ParseCategoryType("expense")
	require.NoError(t, err)
	assert.Equal(t, CategoryExpense, got)

	_, err = ParseCategoryType("transfer")
	assert.ErrorIs(t, err, ErrInvalidCategoryType)
}

func TestAssertOwned(t *testing.T) {
	cat := Category{ID: 1, UserID: 7}
	assert.NoError(t, AssertOwned(cat, 7))
	assert.ErrorIs(t, AssertOwned(cat, 8), ErrNotFound)
}
