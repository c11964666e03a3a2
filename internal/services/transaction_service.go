package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/rules"
	"fintrack/internal/sanitize"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		categoryService: categoryService,
	}
}

// sortColumns is the closed set of accepted sort keys for transaction listings.
var sortColumns = map[string]string{
	"date":        "date ASC",
	"-date":       "date DESC",
	"amount":      "amount ASC",
	"-amount":     "amount DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
}

// CreateTransaction validates and creates a new transaction. The referenced
// category is resolved through the owner scope, so a category belonging to
// another user is reported as not found.
func (s *transactionService) CreateTransaction(
	userID, categoryID, transactionType string,
	amount float64,
	description string,
	date time.Time,
	isRecurring bool,
	recurringType string,
) (*models.Transaction, error) {
	txType, err := rules.NormalizeTransactionType(transactionType)
	if err != nil {
		return nil, err
	}

	recType, err := rules.NormalizeRecurringType(recurringType)
	if err != nil {
		return nil, err
	}
	if isRecurring && recType == models.RecurringNone {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidFormat, "recurring type is required for recurring transactions")
	}
	if !isRecurring {
		recType = models.RecurringNone
	}

	cleaned, err := sanitize.Clean(description)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:        userID,
		CategoryID:    category.ID,
		Type:          txType,
		Amount:        amount,
		Description:   cleaned,
		Date:          date,
		IsRecurring:   isRecurring,
		RecurringType: recType,
	}

	if err := rules.Transaction(transaction, category, time.Now()); err != nil {
		return nil, err
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, translateStorageError(err, apperrors.ErrInvalidInput)
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered, sorted list of the
// user's transactions. The default order is date descending.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	order := sortColumns["-date"]
	if filter.SortBy != "" {
		var ok bool
		order, ok = sortColumns[filter.SortBy]
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidFormat, "unsupported sort key: "+filter.SortBy)
		}
	}

	base := s.db.Model(&models.Transaction{}).Where("transactions.user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Order(order).
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.CategoryName != nil {
		q = q.Joins("JOIN categories ON categories.id = transactions.category_id").
			Where("LOWER(categories.name) = LOWER(?)", *f.CategoryName)
	}
	if f.Type != nil {
		q = q.Where("transactions.type = ?", *f.Type)
	}
	if f.FromDate != nil {
		q = q.Where("transactions.date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("transactions.date <= ?", *f.ToDate)
	}
	if f.RecurringType != nil {
		q = q.Where("transactions.recurring_type = ?", *f.RecurringType)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial update, re-running every invariant
// against the merged record before anything is written.
func (s *transactionService) UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	merged := *transaction

	if update.Type != nil {
		txType, err := rules.NormalizeTransactionType(*update.Type)
		if err != nil {
			return nil, err
		}
		merged.Type = txType
	}
	if update.Amount != nil {
		merged.Amount = *update.Amount
	}
	if update.Description != nil {
		cleaned, err := sanitize.Clean(*update.Description)
		if err != nil {
			return nil, err
		}
		merged.Description = cleaned
	}
	if update.Date != nil {
		merged.Date = *update.Date
	}
	if update.IsRecurring != nil {
		merged.IsRecurring = *update.IsRecurring
	}
	if update.RecurringType != nil {
		recType, err := rules.NormalizeRecurringType(*update.RecurringType)
		if err != nil {
			return nil, err
		}
		merged.RecurringType = recType
	}
	if merged.IsRecurring && merged.RecurringType == models.RecurringNone {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidFormat, "recurring type is required for recurring transactions")
	}
	if !merged.IsRecurring {
		merged.RecurringType = models.RecurringNone
	}
	if update.CategoryID != nil {
		merged.CategoryID = *update.CategoryID
	}

	category, err := s.categoryService.GetCategoryByID(userID, merged.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := rules.Transaction(&merged, category, time.Now()); err != nil {
		return nil, err
	}

	merged.Category = models.Category{}
	if err := s.db.Save(&merged).Error; err != nil {
		return nil, translateStorageError(err, apperrors.ErrInvalidInput)
	}

	return &merged, nil
}

// DeleteTransaction soft-deletes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetSummary computes income/expense totals, balance, and the per-category
// expense breakdown over [start, end]. A range with no matching rows yields
// zero totals and an empty breakdown.
func (s *transactionService) GetSummary(userID string, start, end time.Time) (*Summary, error) {
	totalIncome, err := s.sumByType(userID, models.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}

	totalExpense, err := s.sumByType(userID, models.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	var breakdown []CategoryExpense
	err = s.db.Model(&models.Transaction{}).
		Select("categories.name AS category, COALESCE(SUM(transactions.amount), 0) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ? AND transactions.date >= ? AND transactions.date <= ?",
			userID, models.TransactionTypeExpense, start, end).
		Group("categories.name").
		Order("total DESC").
		Scan(&breakdown).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if breakdown == nil {
		breakdown = []CategoryExpense{}
	}

	return &Summary{
		StartDate:          start,
		EndDate:            end,
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Balance:            totalIncome - totalExpense,
		ExpensesByCategory: breakdown,
	}, nil
}

func (s *transactionService) sumByType(userID string, txType models.TransactionType, start, end time.Time) (float64, error) {
	var total float64
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND date >= ? AND date <= ?", userID, txType, start, end).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// GetRecurringSummary counts recurring transactions per cadence and nets the
// recurring amounts by transaction type. MonthlyImpact is expense total minus
// income total, so a positive value means net recurring outflow.
func (s *transactionService) GetRecurringSummary(userID string) (*RecurringSummary, error) {
	counts := map[models.RecurringType]int64{
		models.RecurringWeekly:  0,
		models.RecurringMonthly: 0,
		models.RecurringYearly:  0,
	}

	var countRows []struct {
		RecurringType models.RecurringType
		Count         int64
	}
	err := s.db.Model(&models.Transaction{}).
		Select("recurring_type, COUNT(*) AS count").
		Where("user_id = ? AND is_recurring = ? AND recurring_type <> ?", userID, true, models.RecurringNone).
		Group("recurring_type").
		Scan(&countRows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, row := range countRows {
		counts[row.RecurringType] = row.Count
	}

	var totalRows []struct {
		Type  models.TransactionType
		Total float64
	}
	err = s.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND is_recurring = ?", userID, true).
		Group("type").
		Scan(&totalRows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &RecurringSummary{CountsByType: counts}
	for _, row := range totalRows {
		switch row.Type {
		case models.TransactionTypeIncome:
			summary.IncomeTotal = row.Total
		case models.TransactionTypeExpense:
			summary.ExpenseTotal = row.Total
		}
	}
	summary.MonthlyImpact = summary.ExpenseTotal - summary.IncomeTotal

	return summary, nil
}
