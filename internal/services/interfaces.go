package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, description string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, name *string, categoryType *models.CategoryType, description *string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	CategoryName  *string
	Type          *models.TransactionType
	FromDate      *time.Time
	ToDate        *time.Time
	RecurringType *models.RecurringType
	SortBy        string
}

// TransactionUpdate holds the fields of a partial transaction update.
// Nil fields are left unchanged.
type TransactionUpdate struct {
	CategoryID    *string
	Type          *string
	Amount        *float64
	Description   *string
	Date          *time.Time
	IsRecurring   *bool
	RecurringType *string
}

// CategoryExpense is one row of the per-category expense breakdown.
type CategoryExpense struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Summary aggregates a user's transactions over a date range.
type Summary struct {
	StartDate          time.Time         `json:"start_date"`
	EndDate            time.Time         `json:"end_date"`
	TotalIncome        float64           `json:"total_income"`
	TotalExpense       float64           `json:"total_expense"`
	Balance            float64           `json:"balance"`
	ExpensesByCategory []CategoryExpense `json:"expenses_by_category"`
}

// RecurringSummary aggregates a user's recurring transactions.
// MonthlyImpact is the net recurring outflow: recurring expense total minus
// recurring income total.
type RecurringSummary struct {
	CountsByType  map[models.RecurringType]int64 `json:"counts_by_type"`
	IncomeTotal   float64                        `json:"income_total"`
	ExpenseTotal  float64                        `json:"expense_total"`
	MonthlyImpact float64                        `json:"monthly_impact"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, categoryID, transactionType string, amount float64, description string, date time.Time, isRecurring bool, recurringType string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetSummary(userID string, start, end time.Time) (*Summary, error)
	GetRecurringSummary(userID string) (*RecurringSummary, error)
}

// BudgetUpdate holds the fields of a partial budget update.
type BudgetUpdate struct {
	CategoryID *string
	Amount     *float64
	StartDate  *time.Time
	EndDate    *time.Time
}

// BudgetStatus contains spending vs budget data for a budget's date range.
type BudgetStatus struct {
	BudgetID       string  `json:"budget_id"`
	Category       string  `json:"category"`
	BudgetAmount   float64 `json:"budget_amount"`
	TotalSpent     float64 `json:"total_spent"`
	Remaining      float64 `json:"remaining"`
	PercentageUsed float64 `json:"percentage_used"`
	Status         string  `json:"status"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID string, amount float64, startDate, endDate time.Time) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, update BudgetUpdate) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetStatus(userID, budgetID string) (*BudgetStatus, error)
}
