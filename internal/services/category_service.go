package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/rules"
	"fintrack/internal/sanitize"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ownedCategories loads the snapshot of a user's categories for the
// duplicate-name pre-check.
func (s *categoryService) ownedCategories(userID string) ([]models.Category, error) {
	var existing []models.Category
	if err := s.db.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return existing, nil
}

// CreateCategory creates a new category after running the name and type checks.
func (s *categoryService) CreateCategory(userID, name string, categoryType models.CategoryType, description string) (*models.Category, error) {
	if description != "" {
		cleaned, err := sanitize.Clean(description)
		if err != nil {
			return nil, err
		}
		description = cleaned
	}

	if err := rules.CategoryType(categoryType); err != nil {
		return nil, err
	}

	existing, err := s.ownedCategories(userID)
	if err != nil {
		return nil, err
	}
	if err := rules.CategoryName(name, existing, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Type:        categoryType,
		Description: description,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, translateStorageError(err, apperrors.ErrDuplicateName)
	}

	return category, nil
}

// GetUserCategories retrieves a paginated list of categories for a user.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user. Another
// owner's category is indistinguishable from a missing one.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory applies a partial update to an existing category.
func (s *categoryService) UpdateCategory(userID, categoryID string, name *string, categoryType *models.CategoryType, description *string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if name != nil {
		existing, err := s.ownedCategories(userID)
		if err != nil {
			return nil, err
		}
		if err := rules.CategoryName(*name, existing, categoryID); err != nil {
			return nil, err
		}
		updates["name"] = strings.TrimSpace(*name)
	}

	if categoryType != nil {
		if err := rules.CategoryType(*categoryType); err != nil {
			return nil, err
		}
		updates["type"] = *categoryType
	}

	if description != nil {
		cleaned := ""
		if *description != "" {
			cleaned, err = sanitize.Clean(*description)
			if err != nil {
				return nil, err
			}
		}
		updates["description"] = cleaned
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, translateStorageError(err, apperrors.ErrDuplicateName)
		}
	}

	return category, nil
}

// DeleteCategory soft-deletes a category. Deletion is refused while any
// transaction or budget still references the category.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	var budgetCount int64
	if err := s.db.Model(&models.Budget{}).Where("category_id = ?", categoryID).Count(&budgetCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budgetCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return translateStorageError(err, apperrors.ErrCategoryInUse)
	}
	return nil
}
