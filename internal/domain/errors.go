// internal/domain/errors.go
package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrForbiddenCategory   = errors.New("category belongs to another user")
	ErrEmptyCategoryName   = errors.New("category name cannot be empty")
	ErrInvalidCategoryType = errors.New("category type must be income or expense")
	ErrNonPositiveAmount   = errors.New("amount must be greater than zero")
	ErrMissingCategory     = errors.New("category is required")
	ErrFutureDate          = errors.New("date cannot be in the future")

	ErrMissingParameter  = errors.New("both start_date and end_date parameters are required (YYYY-MM-DD format)")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD (e.g., 2024-01-15)")
	ErrInvalidRange      = errors.New("start_date must be before or equal to end_date")
)
