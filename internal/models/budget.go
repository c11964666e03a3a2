package models

import "time"

// Budget represents a spending limit for a category over a date range.
// For a given (user, category) pair, budget windows may not overlap.
type Budget struct {
	Base
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID string    `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount     float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	StartDate  time.Time `gorm:"not null" json:"start_date"`
	EndDate    time.Time `gorm:"not null" json:"end_date"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
