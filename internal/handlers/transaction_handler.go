package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	CategoryID    string  `json:"category_id" binding:"required,uuid"`
	Type          string  `json:"type" binding:"required,transaction_type"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Description   string  `json:"description" binding:"required,max=500"`
	Date          string  `json:"date" binding:"required"`
	IsRecurring   bool    `json:"is_recurring"`
	RecurringType string  `json:"recurring_type" binding:"omitempty,recurring_type"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
// All fields are optional; omitted fields are left unchanged.
type UpdateTransactionRequest struct {
	CategoryID    *string  `json:"category_id" binding:"omitempty,uuid"`
	Type          *string  `json:"type" binding:"omitempty,transaction_type"`
	Amount        *float64 `json:"amount" binding:"omitempty,gt=0"`
	Description   *string  `json:"description" binding:"omitempty,max=500"`
	Date          *string  `json:"date"`
	IsRecurring   *bool    `json:"is_recurring"`
	RecurringType *string  `json:"recurring_type" binding:"omitempty,recurring_type"`
}

// ListTransactionsRequest represents the query parameters for listing transactions.
type ListTransactionsRequest struct {
	pagination.PageRequest
	Category      string `form:"category"`
	Type          string `form:"type" binding:"omitempty,transaction_type"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	RecurringType string `form:"recurring_type" binding:"omitempty,recurring_type"`
	SortBy        string `form:"sort_by"`
}

// TransactionResponse represents a transaction in the response
type TransactionResponse struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"user_id"`
	CategoryID    string                 `json:"category_id"`
	Type          models.TransactionType `json:"type"`
	Amount        float64                `json:"amount"`
	Description   string                 `json:"description"`
	Date          time.Time              `json:"date"`
	IsRecurring   bool                   `json:"is_recurring"`
	RecurringType models.RecurringType   `json:"recurring_type"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a new income or expense transaction for the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID,
		req.CategoryID,
		req.Type,
		req.Amount,
		req.Description,
		date,
		req.IsRecurring,
		req.RecurringType,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles the retrieval of transactions for a user
// @Summary     Get user transactions
// @Description Get a paginated, filterable list of transactions for the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page           query int    false "Page number (default 1)"
// @Param       page_size      query int    false "Items per page (default 20, max 100)"
// @Param       category       query string false "Filter by category name (case-insensitive)"
// @Param       type           query string false "Filter by type (income or expense)"
// @Param       start_date     query string false "Filter from date (YYYY-MM-DD)"
// @Param       end_date       query string false "Filter to date (YYYY-MM-DD)"
// @Param       recurring_type query string false "Filter by recurring cadence"
// @Param       sort_by        query string false "Sort key: date, -date, amount, -amount, created_at, -created_at (default -date)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{SortBy: req.SortBy}
	if req.Category != "" {
		filter.CategoryName = &req.Category
	}
	if req.Type != "" {
		t := models.TransactionType(req.Type)
		filter.Type = &t
	}
	if req.RecurringType != "" {
		rt := models.RecurringType(req.RecurringType)
		filter.RecurringType = &rt
	}
	if req.StartDate != "" {
		from, parseErr := parseDate("start_date", req.StartDate)
		if parseErr != nil {
			respondWithError(c, parseErr)
			return
		}
		filter.FromDate = &from
	}
	if req.EndDate != "" {
		to, parseErr := parseDate("end_date", req.EndDate)
		if parseErr != nil {
			respondWithError(c, parseErr)
			return
		}
		filter.ToDate = &to
	}

	result, err := h.transactionService.GetUserTransactions(userID, req.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID handles the retrieval of a specific transaction for a user
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID for the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles partial updates to a transaction.
// @Summary     Update transaction
// @Description Update an existing transaction for the authenticated user. Omitted fields are left unchanged; the merged record is fully revalidated.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Updated transaction fields"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.TransactionUpdate{
		CategoryID:    req.CategoryID,
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
		IsRecurring:   req.IsRecurring,
		RecurringType: req.RecurringType,
	}

	if req.Date != nil && *req.Date != "" {
		date, parseErr := parseDate("date", *req.Date)
		if parseErr != nil {
			respondWithError(c, parseErr)
			return
		}
		update.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction.
// @Summary     Delete transaction
// @Description Delete a transaction for the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSummary returns income/expense totals and a per-category expense breakdown
// @Summary     Get spending summary
// @Description Get income and expense totals with a per-category expense breakdown for a date range. Defaults to the current month.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string false "Range start (YYYY-MM-DD, default first of current month)"
// @Param       end_date   query string false "Range end (YYYY-MM-DD, default today)"
// @Success     200 {object} services.Summary "Summary for the range"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := now

	if s := c.Query("start_date"); s != "" {
		start, err = parseDate("start_date", s)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}
	if e := c.Query("end_date"); e != "" {
		end, err = parseDate("end_date", e)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	if end.Before(start) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidRange, "end_date is before start_date"))
		return
	}

	summary, err := h.transactionService.GetSummary(userID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetRecurringSummary returns an overview of recurring transactions
// @Summary     Get recurring summary
// @Description Get counts per recurring cadence and the net monthly impact of recurring transactions
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.RecurringSummary "Recurring overview"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/recurring_summary [get]
func (h *TransactionHandler) GetRecurringSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.transactionService.GetRecurringSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
