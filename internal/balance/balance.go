// internal/balance/balance.go
package balance

import (
	"context"
	"fmt"
	"time"

	"expense-tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// TransactionSource is the slice of the storage layer the engine
// needs: signed-typed transactions for one owner, keyed by the
// expense's own transaction date.
type TransactionSource interface {
	TransactionsBefore(ctx context.Context, userID int64, before time.Time) ([]domain.Transaction, error)
	TransactionsBetween(ctx context.Context, userID int64, start, end time.Time) ([]domain.Transaction, error)
}

type Period struct {
	Start time.Time
	End   time.Time
	Days  int
}

type Report struct {
	Period         Period
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	PeriodNet      decimal.Decimal
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
	IncomeCount    int
	ExpenseCount   int
	TotalCount     int
}

type Engine struct {
	source TransactionSource
}

func NewEngine(source TransactionSource) *Engine {
	return &Engine{source: source}
}

// ParseRange validates the raw date parameters of a balance query.
// Both dates are required, must parse as YYYY-MM-DD and must be
// ordered start <= end.
func ParseRange(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, domain.ErrMissingParameter
	}
	start, err := time.Parse(time.DateOnly, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateFormat
	}
	end, err := time.Parse(time.DateOnly, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidDateFormat
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, domain.ErrInvalidRange
	}
	return start, end, nil
}

// ComputeBalance reports the user's balance over [start, end], both
// inclusive calendar dates:
//
//	opening = starting balance + sum of signed transactions strictly before start
//	net     = period income - period expenses
//	closing = opening + net
//
// Sums over an empty set are zero. Purely a read-and-compute
// operation; the engine never writes.
func (e *Engine) ComputeBalance(ctx context.Context, user domain.User, start, end time.Time) (Report, error) {
	if start.After(end) {
		return Report{}, domain.ErrInvalidRange
	}

	before, err := e.source.TransactionsBefore(ctx, user.ID, start)
	if err != nil {
		return Report{}, fmt.Errorf("load transactions before period: %w", err)
	}
	opening := user.StartingBalance
	for _, tx := range before {
		opening = opening.Add(tx.Signed())
	}

	inRange, err := e.source.TransactionsBetween(ctx, user.ID, start, end)
	if err != nil {
		return Report{}, fmt.Errorf("load period transactions: %w", err)
	}

	income := decimal.Zero
	expenses := decimal.Zero
	incomeCount := 0
	expenseCount := 0
	for _, tx := range inRange {
		if tx.Type == domain.CategoryIncome {
			income = income.Add(tx.Amount)
			incomeCount++
		} else {
			expenses = expenses.Add(tx.Amount.Abs())
			expenseCount++
		}
	}
	net := income.Sub(expenses)

	return Report{
		Period: Period{
			Start: start,
			End:   end,
			Days:  int(end.Sub(start).Hours()/24) + 1,
		},
		OpeningBalance: opening,
		ClosingBalance: opening.Add(net),
		PeriodNet:      net,
		TotalIncome:    income,
		TotalExpenses:  expenses,
		IncomeCount:    incomeCount,
		ExpenseCount:   expenseCount,
		TotalCount:     len(inRange),
	}, nil
}
