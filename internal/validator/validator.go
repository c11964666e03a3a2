// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var categoryNameRegex = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("recurring_type", validateRecurringType)
		_ = v.RegisterValidation("category_name", validateCategoryName)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "income", "expense":
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateRecurringType(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "none", "weekly", "monthly", "yearly":
		return true
	}
	return false
}

// validateCategoryName enforces the letters/digits/spaces shape with at least
// two characters after trimming. Per-owner uniqueness is checked by the
// service layer, not here.
func validateCategoryName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return len(name) >= 2 && len(name) <= 100 && categoryNameRegex.MatchString(name)
}
