package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

const testTransactionID = "01900000-0000-7000-8000-0000000000d1"

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn   func(userID, categoryID, transactionType string, amount float64, description string, date time.Time, isRecurring bool, recurringType string) (*models.Transaction, error)
	getUserTransactionsFn func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn  func(userID, transactionID string) (*models.Transaction, error)
	updateTransactionFn   func(userID, transactionID string, update services.TransactionUpdate) (*models.Transaction, error)
	deleteTransactionFn   func(userID, transactionID string) error
	getSummaryFn          func(userID string, start, end time.Time) (*services.Summary, error)
	getRecurringSummaryFn func(userID string) (*services.RecurringSummary, error)
}

func (m *mockTransactionService) CreateTransaction(userID, categoryID, transactionType string, amount float64, description string, date time.Time, isRecurring bool, recurringType string) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, categoryID, transactionType, amount, description, date, isRecurring, recurringType)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID string, update services.TransactionUpdate) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, update)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetSummary(userID string, start, end time.Time) (*services.Summary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID, start, end)
	}
	return &services.Summary{StartDate: start, EndDate: end, ExpensesByCategory: []services.CategoryExpense{}}, nil
}

func (m *mockTransactionService) GetRecurringSummary(userID string) (*services.RecurringSummary, error) {
	if m.getRecurringSummaryFn != nil {
		return m.getRecurringSummaryFn(userID)
	}
	return &services.RecurringSummary{CountsByType: map[models.RecurringType]int64{}}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetUserTransactions)
	auth.GET("/transactions/summary", handler.GetSummary)
	auth.GET("/transactions/recurring_summary", handler.GetRecurringSummary)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PATCH("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_, _, txType string, amount float64, desc string, date time.Time, _ bool, _ string) (*models.Transaction, error) {
				return &models.Transaction{
					Base:        models.Base{ID: testTransactionID},
					Type:        models.TransactionType(txType),
					Amount:      amount,
					Description: desc,
					Date:        date,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":"`+testCategoryID+`","type":"expense","amount":42.5,"description":"dinner out","date":"2024-03-10"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["amount"] != 42.5 {
			t.Errorf("expected amount 42.5, got %v", tx["amount"])
		}
	})

	t.Run("returns 400 on bad date format", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":"`+testCategoryID+`","type":"expense","amount":10,"description":"dinner out","date":"10/03/2024"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-positive amount", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":"`+testCategoryID+`","type":"expense","amount":-5,"description":"dinner out","date":"2024-03-10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid category id", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":"42","type":"expense","amount":10,"description":"dinner out","date":"2024-03-10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 on unknown category", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_, _, _ string, _ float64, _ string, _ time.Time, _ bool, _ string) (*models.Transaction, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":"`+testCategoryID+`","type":"expense","amount":10,"description":"dinner out","date":"2024-03-10"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetUserTransactions(t *testing.T) {
	t.Run("passes filters to service", func(t *testing.T) {
		var captured services.TransactionFilter
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				captured = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?category=food&type=expense&start_date=2024-01-01&end_date=2024-01-31&sort_by=-amount", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.CategoryName == nil || *captured.CategoryName != "food" {
			t.Errorf("expected category filter food, got %v", captured.CategoryName)
		}
		if captured.Type == nil || *captured.Type != models.TransactionTypeExpense {
			t.Errorf("expected type filter expense, got %v", captured.Type)
		}
		if captured.FromDate == nil || captured.FromDate.Format("2006-01-02") != "2024-01-01" {
			t.Errorf("expected from date 2024-01-01, got %v", captured.FromDate)
		}
		if captured.SortBy != "-amount" {
			t.Errorf("expected sort -amount, got %q", captured.SortBy)
		}
	})

	t.Run("returns 400 on invalid type filter", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?type=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad start_date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?start_date=January", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unsupported sort key", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, _ pagination.PageRequest, _ services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidFormat, "unsupported sort key")
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?sort_by=balance", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_FORMAT")
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("returns 200 with updated fields", func(t *testing.T) {
		var captured services.TransactionUpdate
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_, _ string, update services.TransactionUpdate) (*models.Transaction, error) {
				captured = update
				return &models.Transaction{Base: models.Base{ID: testTransactionID}, Amount: *update.Amount}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PATCH", "/transactions/"+testTransactionID, `{"amount":99.99}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Amount == nil || *captured.Amount != 99.99 {
			t.Errorf("expected amount 99.99, got %v", captured.Amount)
		}
		if captured.Type != nil || captured.Date != nil {
			t.Error("expected omitted fields to be nil")
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_, _ string, _ services.TransactionUpdate) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PATCH", "/transactions/"+testTransactionID, `{"amount":10}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "DELETE", "/transactions/"+testTransactionID, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetSummary(t *testing.T) {
	t.Run("defaults to current month", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		txSvc := &mockTransactionService{
			getSummaryFn: func(_ string, start, end time.Time) (*services.Summary, error) {
				gotStart, gotEnd = start, end
				return &services.Summary{StartDate: start, EndDate: end, ExpensesByCategory: []services.CategoryExpense{}}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		now := time.Now()
		if gotStart.Day() != 1 || gotStart.Month() != now.Month() {
			t.Errorf("expected start at first of month, got %v", gotStart)
		}
		if gotEnd.Day() != now.Day() {
			t.Errorf("expected end today, got %v", gotEnd)
		}
	})

	t.Run("returns 400 when range is inverted", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/summary?start_date=2024-02-01&end_date=2024-01-01", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_RANGE")
	})
}

func TestTransactionHandler_GetRecurringSummary(t *testing.T) {
	t.Run("returns 200 with overview", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getRecurringSummaryFn: func(_ string) (*services.RecurringSummary, error) {
				return &services.RecurringSummary{
					CountsByType:  map[models.RecurringType]int64{models.RecurringMonthly: 2},
					IncomeTotal:   100,
					ExpenseTotal:  170,
					MonthlyImpact: 70,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/recurring_summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		summary := result["summary"].(map[string]interface{})
		if summary["monthly_impact"] != 70.0 {
			t.Errorf("expected monthly_impact 70, got %v", summary["monthly_impact"])
		}
	})
}
