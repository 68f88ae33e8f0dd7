// internal/handler/balance.go
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"expense-tracker/internal/balance"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"

	"github.com/gin-gonic/gin"
)

type BalanceHandler struct {
	engine *balance.Engine
	users  storage.UserStorage
}

func NewBalanceHandler(engine *balance.Engine, users storage.UserStorage) *BalanceHandler {
	return &BalanceHandler{engine: engine, users: users}
}

// CustomPeriod handles GET /balance/custom?start_date=...&end_date=...
func (h *BalanceHandler) CustomPeriod(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	start, end, err := balance.ParseRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.FindUserByID(context.Background(), uid)
	if err != nil {
		respondError(c, err, "CustomPeriodBalance")
		return
	}

	report, err := h.engine.ComputeBalance(context.Background(), *user, start, end)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err, "CustomPeriodBalance")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Custom period balance calculated successfully",
		"period": gin.H{
			"start_date": report.Period.Start.Format(time.DateOnly),
			"end_date":   report.Period.End.Format(time.DateOnly),
			"days":       report.Period.Days,
		},
		"balance": gin.H{
			"balance_at_start_of_period": report.OpeningBalance.StringFixed(2),
			"balance_at_end_of_period":   report.ClosingBalance.StringFixed(2),
			"change_during_period":       report.PeriodNet.StringFixed(2),
		},
		"period_summary": gin.H{
			"total_income":         report.TotalIncome.StringFixed(2),
			"total_expenses":       report.TotalExpenses.StringFixed(2),
			"net_amount":           report.PeriodNet.StringFixed(2),
			"income_transactions":  report.IncomeCount,
			"expense_transactions": report.ExpenseCount,
			"total_transactions":   report.TotalCount,
		},
	})
}
