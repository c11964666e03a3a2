// Package rules implements the pre-persistence validation checks for
// categories, transactions, and budgets. Every check is a pure function of
// the candidate record and a snapshot of existing rows: no queries, no side
// effects, first violated rule returned as an AppError. The database
// constraints remain the final authority under concurrent writes; these
// checks exist so failures are caught before anything is written.
package rules

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// MaxAmount is the upper bound for transaction and budget amounts.
const MaxAmount = 1_000_000

var categoryNamePattern = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

// CategoryName checks that name is well-formed and not already used
// (case-insensitively) by another category in the owner's snapshot.
// excludeID skips the record being updated.
func CategoryName(name string, existing []models.Category, excludeID string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidFormat, "category name must not be empty")
	}
	if utf8.RuneCountInString(trimmed) < 2 {
		return apperrors.WithMessage(apperrors.ErrInvalidFormat, "category name must be at least 2 characters")
	}
	if utf8.RuneCountInString(trimmed) > 100 {
		return apperrors.WithMessage(apperrors.ErrInvalidFormat, "category name must be at most 100 characters")
	}
	if !categoryNamePattern.MatchString(trimmed) {
		return apperrors.WithMessage(apperrors.ErrInvalidFormat, "category name may only contain letters, digits, and spaces")
	}

	lowered := strings.ToLower(trimmed)
	for i := range existing {
		if existing[i].ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(existing[i].Name)) == lowered {
			return apperrors.WithMessage(apperrors.ErrDuplicateName, "a category with this name already exists")
		}
	}
	return nil
}

// CategoryType checks that t is one of the closed set of category types.
func CategoryType(t models.CategoryType) error {
	switch t {
	case models.CategoryTypeIncome, models.CategoryTypeExpense:
		return nil
	}
	return apperrors.WithMessage(apperrors.ErrInvalidFormat, "category type must be income or expense")
}

// Amount checks that v is within (0, MaxAmount].
func Amount(v float64) error {
	if v <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidRange, "amount must be greater than zero")
	}
	if v > MaxAmount {
		return apperrors.WithMessage(apperrors.ErrInvalidRange, "amount must not exceed 1000000")
	}
	return nil
}

// Transaction checks all invariants of a candidate transaction against its
// resolved category: amount range, non-future date, type membership,
// recurring type membership, and category ownership. now supplies the
// current time so the date check is deterministic in tests.
func Transaction(candidate *models.Transaction, category *models.Category, now time.Time) error {
	if err := Amount(candidate.Amount); err != nil {
		return err
	}
	if dateOnly(candidate.Date).After(dateOnly(now)) {
		return apperrors.WithMessage(apperrors.ErrInvalidRange, "transaction date must not be in the future")
	}
	if _, err := NormalizeTransactionType(string(candidate.Type)); err != nil {
		return err
	}
	if _, err := NormalizeRecurringType(string(candidate.RecurringType)); err != nil {
		return err
	}
	if category.UserID != candidate.UserID {
		return apperrors.WithMessage(apperrors.ErrOwnership, "category does not belong to the transaction owner")
	}
	return nil
}

// NormalizeTransactionType lowercases and validates a transaction type.
func NormalizeTransactionType(s string) (models.TransactionType, error) {
	switch t := models.TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return t, nil
	default:
		return "", apperrors.WithMessage(apperrors.ErrInvalidTransactionType, "transaction type must be income or expense")
	}
}

// NormalizeRecurringType lowercases and validates a recurring type.
// An empty value is treated as none.
func NormalizeRecurringType(s string) (models.RecurringType, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return models.RecurringNone, nil
	}
	switch t := models.RecurringType(trimmed); t {
	case models.RecurringNone, models.RecurringWeekly, models.RecurringMonthly, models.RecurringYearly:
		return t, nil
	default:
		return "", apperrors.WithMessage(apperrors.ErrInvalidFormat, "recurring type must be none, weekly, monthly, or yearly")
	}
}

// BudgetWindow checks that end falls strictly after start.
func BudgetWindow(start, end time.Time) error {
	if !end.After(start) {
		return apperrors.WithMessage(apperrors.ErrInvalidRange, "end date must be after start date")
	}
	return nil
}

// BudgetOverlap checks the candidate window against existing budgets for the
// same (owner, category). Two windows overlap when
// existing.start <= candidate.end && existing.end >= candidate.start.
// excludeID skips the record being updated.
func BudgetOverlap(candidate *models.Budget, existing []models.Budget, excludeID string) error {
	for i := range existing {
		b := &existing[i]
		if b.ID == excludeID {
			continue
		}
		if b.UserID != candidate.UserID || b.CategoryID != candidate.CategoryID {
			continue
		}
		if !b.StartDate.After(candidate.EndDate) && !b.EndDate.Before(candidate.StartDate) {
			return apperrors.WithMessage(apperrors.ErrOverlap, "budget dates overlap with an existing budget for this category")
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
