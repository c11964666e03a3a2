package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// RecurringType represents the repetition cadence of a recurring transaction
type RecurringType string

const (
	RecurringNone    RecurringType = "none"
	RecurringWeekly  RecurringType = "weekly"
	RecurringMonthly RecurringType = "monthly"
	RecurringYearly  RecurringType = "yearly"
)

// Transaction represents a single income or expense record. The referenced
// category must belong to the same user; the date may not be in the future.
type Transaction struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID    string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Type          TransactionType `gorm:"not null" json:"type"`
	Amount        float64         `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description   string          `gorm:"size:255;not null" json:"description"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	IsRecurring   bool            `gorm:"default:false" json:"is_recurring"`
	RecurringType RecurringType   `gorm:"default:none" json:"recurring_type"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
