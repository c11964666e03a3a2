package services

import (
	"errors"

	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/rules"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, categoryService CategoryServicer) BudgetServicer {
	return &budgetService{db: db, categoryService: categoryService}
}

// categoryBudgets loads the snapshot of budgets for (owner, category) used
// by the overlap pre-check.
func (s *budgetService) categoryBudgets(userID, categoryID string) ([]models.Budget, error) {
	var existing []models.Budget
	if err := s.db.Where("user_id = ? AND category_id = ?", userID, categoryID).Find(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return existing, nil
}

// CreateBudget creates a new budget for a category after checking the amount
// range, window ordering, and overlap with existing budgets.
func (s *budgetService) CreateBudget(userID, categoryID string, amount float64, startDate, endDate time.Time) (*models.Budget, error) {
	if err := rules.Amount(amount); err != nil {
		return nil, err
	}
	if err := rules.BudgetWindow(startDate, endDate); err != nil {
		return nil, err
	}

	category, err := s.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Amount:     amount,
		StartDate:  startDate,
		EndDate:    endDate,
	}

	existing, err := s.categoryBudgets(userID, category.ID)
	if err != nil {
		return nil, err
	}
	if err := rules.BudgetOverlap(budget, existing, ""); err != nil {
		return nil, err
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, translateStorageError(err, apperrors.ErrOverlap)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of the user's budgets.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").Order("start_date DESC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget applies a partial update, re-running the window and overlap
// checks against the merged record before anything is written.
func (s *budgetService) UpdateBudget(userID, budgetID string, update BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	merged := *budget

	if update.CategoryID != nil {
		category, err := s.categoryService.GetCategoryByID(userID, *update.CategoryID)
		if err != nil {
			return nil, err
		}
		merged.CategoryID = category.ID
	}
	if update.Amount != nil {
		merged.Amount = *update.Amount
	}
	if update.StartDate != nil {
		merged.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		merged.EndDate = *update.EndDate
	}

	if err := rules.Amount(merged.Amount); err != nil {
		return nil, err
	}
	if err := rules.BudgetWindow(merged.StartDate, merged.EndDate); err != nil {
		return nil, err
	}

	existing, err := s.categoryBudgets(userID, merged.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := rules.BudgetOverlap(&merged, existing, budgetID); err != nil {
		return nil, err
	}

	merged.Category = models.Category{}
	if err := s.db.Save(&merged).Error; err != nil {
		return nil, translateStorageError(err, apperrors.ErrOverlap)
	}

	return &merged, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetStatus calculates spending against the budget over its date range.
// A zero-amount budget reports 0% used rather than dividing by zero.
func (s *budgetService) GetBudgetStatus(userID, budgetID string) (*BudgetStatus, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	var totalSpent float64
	err = s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date <= ?",
			userID, budget.CategoryID, models.TransactionTypeExpense, budget.StartDate, budget.EndDate).
		Scan(&totalSpent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var percentage float64
	if budget.Amount > 0 {
		percentage = totalSpent / budget.Amount * 100
	}

	status := "ok"
	if percentage > 80 {
		status = "warning"
	}

	return &BudgetStatus{
		BudgetID:       budget.ID,
		Category:       budget.Category.Name,
		BudgetAmount:   budget.Amount,
		TotalSpent:     totalSpent,
		Remaining:      budget.Amount - totalSpent,
		PercentageUsed: percentage,
		Status:         status,
	}, nil
}
