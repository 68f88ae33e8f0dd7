// internal/handler/expense.go
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ExpenseHandler struct {
	store storage.ExpenseStorage
}

func NewExpenseHandler(store storage.ExpenseStorage) *ExpenseHandler {
	return &ExpenseHandler{store: store}
}

// Amount accepts a JSON number or a numeric string; a negative value
// is normalized to its absolute magnitude before persisting.
type ExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	CategoryID  int64           `json:"category" validate:"required,min=1"`
	Description string          `json:"description" validate:"max=255"`
	Date        string          `json:"date" validate:"required,dateonly"`
}

type expenseResponse struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	CategoryID  int64  `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func newExpenseResponse(exp domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          exp.ID,
		Amount:      exp.Amount.StringFixed(2),
		CategoryID:  exp.CategoryID,
		Description: exp.Description,
		Date:        exp.Date.Format(time.DateOnly),
		CreatedAt:   exp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   exp.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *ExpenseHandler) bindExpense(c *gin.Context, uid int64) (*domain.Expense, bool) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return nil, false
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidDateFormat.Error()})
		return nil, false
	}

	expense := &domain.Expense{
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Date:        date,
		UserID:      uid,
	}
	if err := expense.Normalize(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if err := expense.Validate(time.Now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return expense, true
}

var expenseFilterKeys = []string{"category", "min_price", "max_price", "start_date", "end_date"}

func parseExpenseFilter(c *gin.Context) (storage.ExpenseFilter, map[string]string, error) {
	var filter storage.ExpenseFilter
	applied := map[string]string{}

	for _, key := range expenseFilterKeys {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		applied[key] = raw

		switch key {
		case "category":
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return filter, nil, fmt.Errorf("category must be a positive integer")
			}
			filter.CategoryID = id
		case "min_price", "max_price":
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return filter, nil, fmt.Errorf("%s must be a decimal number", key)
			}
			if key == "min_price" {
				filter.MinAmount = &amount
			} else {
				filter.MaxAmount = &amount
			}
		case "start_date", "end_date":
			date, err := time.Parse(time.DateOnly, raw)
			if err != nil {
				return filter, nil, fmt.Errorf("%s must be a date in YYYY-MM-DD format", key)
			}
			if key == "start_date" {
				filter.StartDate = &date
			} else {
				filter.EndDate = &date
			}
		}
	}
	return filter, applied, nil
}

func (h *ExpenseHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	filter, applied, err := parseExpenseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expenses, err := h.store.ListExpenses(context.Background(), uid, filter)
	if err != nil {
		respondError(c, err, "ListExpenses")
		return
	}

	out := make([]expenseResponse, len(expenses))
	for i, exp := range expenses {
		out[i] = newExpenseResponse(exp)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Expenses retrieved successfully",
		"filters_applied": applied,
		"total_count":     len(out),
		"expenses":        out,
	})
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	expense, ok := h.bindExpense(c, uid)
	if !ok {
		return
	}

	if err := h.store.CreateExpense(context.Background(), expense); err != nil {
		// A missing category on create is a bad reference, not a
		// missing expense row.
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category does not exist"})
			return
		}
		respondError(c, err, "CreateExpense")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Expense created successfully",
		"expense": newExpenseResponse(*expense),
	})
}

func (h *ExpenseHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	expense, err := h.store.GetExpense(context.Background(), uid, id)
	if err != nil {
		respondError(c, err, "GetExpense")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expense retrieved successfully",
		"expense": newExpenseResponse(*expense),
	})
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	expense, ok := h.bindExpense(c, uid)
	if !ok {
		return
	}
	expense.ID = id

	if err := h.store.UpdateExpense(context.Background(), expense); err != nil {
		respondError(c, err, "UpdateExpense")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expense updated successfully",
		"expense": newExpenseResponse(*expense),
	})
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	expense, err := h.store.GetExpense(context.Background(), uid, id)
	if err != nil {
		respondError(c, err, "DeleteExpense")
		return
	}
	if err := h.store.DeleteExpense(context.Background(), uid, id); err != nil {
		respondError(c, err, "DeleteExpense")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Expense %q deleted successfully", expense.Description),
	})
}
