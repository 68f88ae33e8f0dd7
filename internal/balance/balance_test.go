// internal/balance/balance_test.go
package balance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"expense-tracker/internal/balance"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	store   *memory.Storage
	engine  *balance.Engine
	user    domain.User
	income  domain.Category
	expense domain.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStorage()

	user := domain.User{
		Username:        "testuser",
		StartingBalance: domain.DefaultStartingBalance,
	}
	require.NoError(t, store.CreateUser(ctx, &user))

	income := domain.Category{Name: "Salary", Type: domain.CategoryIncome, UserID: user.ID}
	expense := domain.Category{Name: "Food", Type: domain.CategoryExpense, UserID: user.ID}
	require.NoError(t, store.CreateCategory(ctx, &income))
	require.NoError(t, store.CreateCategory(ctx, &expense))

	return &fixture{
		store:   store,
		engine:  balance.NewEngine(store),
		user:    user,
		income:  income,
		expense: expense,
	}
}

func (f *fixture) addTransaction(t *testing.T, categoryID int64, amount, day string) {
	t.Helper()
	exp := domain.Expense{
		Amount:     dec(amount),
		CategoryID: categoryID,
		Date:       date(day),
		UserID:     f.user.ID,
	}
	require.NoError(t, exp.Normalize())
	require.NoError(t, f.store.CreateExpense(context.Background(), &exp))
}

func TestComputeBalanceNoTransactions(t *testing.T) {
	f := newFixture(t)

	report, err := f.engine.ComputeBalance(context.Background(), f.user, date("2024-01-01"), date("2024-12-31"))
	require.NoError(t, err)

	assert.True(t, report.OpeningBalance.Equal(dec("10000.00")), "opening = %s", report.OpeningBalance)
	assert.True(t, report.ClosingBalance.Equal(dec("10000.00")), "closing = %s", report.ClosingBalance)
	assert.True(t, report.PeriodNet.IsZero())
	assert.Zero(t, report.TotalCount)
	assert.Equal(t, 366, report.Period.Days)
}

func TestComputeBalanceIncomeAndExpense(t *testing.T) {
	f := newFixture(t)
	f.addTransaction(t, f.income.ID, "500.00", "2024-03-10")
	f.addTransaction(t, f.expense.ID, "200.00", "2024-03-15")

	report, err := f.engine.ComputeBalance(context.Background(), f.user, date("2024-03-01"), date("2024-03-31"))
	require.NoError(t, err)

	assert.True(t, report.PeriodNet.Equal(dec("300.00")), "net = %s", report.PeriodNet)
	assert.True(t, report.ClosingBalance.Equal(report.OpeningBalance.Add(dec("300.00"))))
	assert.True(t, report.TotalIncome.Equal(dec("500.00")))
	assert.True(t, report.TotalExpenses.Equal(dec("200.00")))
	assert.Equal(t, 1, report.IncomeCount)
	assert.Equal(t, 1, report.ExpenseCount)
	assert.Equal(t, 2, report.TotalCount)
	assert.Equal(t, 31, report.Period.Days)
}

func TestComputeBalancePriorTransactionsShiftOpening(t *testing.T) {
	f := newFixture(t)
	f.addTransaction(t, f.income.ID, "1000.00", "2024-01-05")
	f.addTransaction(t, f.expense.ID, "250.00", "2024-01-20")
	f.addTransaction(t, f.expense.ID, "100.00", "2024-02-10")

	report, err := f.engine.ComputeBalance(context.Background(), f.user, date("2024-02-01"), date("2024-02-29"))
	require.NoError(t, err)

	// 10000 + 1000 - 250 from January
	assert.True(t, report.OpeningBalance.Equal(dec("10750.00")), "opening = %s", report.OpeningBalance)
	assert.True(t, report.PeriodNet.Equal(dec("-100.00")))
	assert.True(t, report.ClosingBalance.Equal(dec("10650.00")))
}

func TestComputeBalanceBoundaryDatesInclusive(t *testing.T) {
	f := newFixture(t)
	f.addTransaction(t, f.income.ID, "10.00", "2024-06-01")
	f.addTransaction(t, f.income.ID, "20.00", "2024-06-30")
	f.addTransaction(t, f.income.ID, "40.00", "2024-05-31")
	f.addTransaction(t, f.income.ID, "80.00", "2024-07-01")

	report, err := f.engine.ComputeBalance(context.Background(), f.user, date("2024-06-01"), date("2024-06-30"))
	require.NoError(t, err)

	assert.True(t, report.TotalIncome.Equal(dec("30.00")), "income = %s", report.TotalIncome)
	assert.Equal(t, 2, report.TotalCount)
	// The May transaction lands strictly before the period.
	assert.True(t, report.OpeningBalance.Equal(dec("10040.00")))
}

// Closing balance of range N must equal the opening balance of range
// N+1 for adjacent ranges covering the full history.
func TestComputeBalanceRangeContinuity(t *testing.T) {
	f := newFixture(t)
	f.addTransaction(t, f.income.ID, "123.45", "2024-01-03")
	f.addTransaction(t, f.expense.ID, "67.89", "2024-01-28")
	f.addTransaction(t, f.expense.ID, "0.01", "2024-02-14")
	f.addTransaction(t, f.income.ID, "999.99", "2024-03-09")
	f.addTransaction(t, f.expense.ID, "55.55", "2024-03-31")

	ranges := [][2]string{
		{"2024-01-01", "2024-01-31"},
		{"2024-02-01", "2024-02-29"},
		{"2024-03-01", "2024-03-31"},
	}

	var prevClosing decimal.Decimal
	for i, r := range ranges {
		report, err := f.engine.ComputeBalance(context.Background(), f.user, date(r[0]), date(r[1]))
		require.NoError(t, err)
		if i > 0 {
			assert.True(t, report.OpeningBalance.Equal(prevClosing),
				"range %d opening %s != previous closing %s", i, report.OpeningBalance, prevClosing)
		}
		prevClosing = report.ClosingBalance
	}
}

func TestComputeBalanceManySmallAmountsNoDrift(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 100; i++ {
		f.addTransaction(t, f.expense.ID, "0.10", "2024-04-15")
	}

	report, err := f.engine.ComputeBalance(context.Background(), f.user, date("2024-04-01"), date("2024-04-30"))
	require.NoError(t, err)

	assert.True(t, report.TotalExpenses.Equal(dec("10.00")), "expenses = %s", report.TotalExpenses)
	assert.True(t, report.ClosingBalance.Equal(dec("9990.00")), "closing = %s", report.ClosingBalance)
}

func TestComputeBalanceRejectsReversedRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.ComputeBalance(context.Background(), f.user, date("2024-05-10"), date("2024-05-01"))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{"valid", "2024-01-01", "2024-01-31", nil},
		{"same day", "2024-01-01", "2024-01-01", nil},
		{"missing start", "", "2024-01-31", domain.ErrMissingParameter},
		{"missing end", "2024-01-01", "", domain.ErrMissingParameter},
		{"both missing", "", "", domain.ErrMissingParameter},
		{"garbage start", "not-a-date", "2024-01-31", domain.ErrInvalidDateFormat},
		{"garbage end", "2024-01-01", "31/01/2024", domain.ErrInvalidDateFormat},
		{"reversed", "2024-02-01", "2024-01-01", domain.ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := balance.ParseRange(tt.start, tt.end)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.False(t, start.After(end))
		})
	}
}
