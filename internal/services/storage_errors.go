package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
)

// translateStorageError maps constraint violations surfaced by the database
// to the same error kinds as the pre-persistence checks, so a race that
// slips past a validator pre-check produces an identical client response.
// conflict is the kind to use for a uniqueness/exclusion violation.
func translateStorageError(err error, conflict *apperrors.AppError) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return conflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.ErrCategoryInUse
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}
