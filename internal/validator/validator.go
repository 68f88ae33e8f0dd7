// internal/validator/validator.go
package validator

import (
	"regexp"
	"time"

	"expense-tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// Calendar date: "2024-01-15"
	_ = Validate.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	})

	// Not empty and not only whitespace
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(regexp.MustCompile(`\S`).FindString(s)) > 0
	})

	// income or expense
	_ = Validate.RegisterValidation("categorytype", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCategoryType(fl.Field().String())
		return err == nil
	})
}
