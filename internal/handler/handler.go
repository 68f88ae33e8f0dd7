// internal/handler/handler.go
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"expense-tracker/internal/domain"
	"expense-tracker/internal/middleware"
	val "expense-tracker/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func validateStruct(s interface{}) error {
	err := val.Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%s is required", fe.Field())
		case "notblank":
			return fmt.Errorf("%s cannot be empty", fe.Field())
		case "dateonly":
			return fmt.Errorf("%s must be a date in YYYY-MM-DD format", fe.Field())
		case "categorytype":
			return fmt.Errorf("%s must be income or expense", fe.Field())
		default:
			return fmt.Errorf("%s is invalid", fe.Field())
		}
	}
	return err
}

func userID(c *gin.Context) (int64, bool) {
	userIDVal, ok := c.Get(middleware.UserIDKey)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return 0, false
	}
	id, ok := userIDVal.(int64)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto the HTTP taxonomy: validation
// and cross-owner category references → 400, missing or foreign rows
// → 404, anything else → 500.
func respondError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, domain.ErrForbiddenCategory),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmptyCategoryName),
		errors.Is(err, domain.ErrInvalidCategoryType),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrMissingCategory),
		errors.Is(err, domain.ErrFutureDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error(op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

type userResponse struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	StartingBalance string `json:"starting_balance"`
}

func newUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		StartingBalance: user.StartingBalance.StringFixed(2),
	}
}
