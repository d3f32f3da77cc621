package models

import "time"

// Customer carries the purchase-history aggregate updated after a sale
// commits. No stock logic depends on it.
type Customer struct {
	ID            uint       `json:"ID" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"size:100;not null" validate:"required"`
	Phone         string     `json:"phone" gorm:"size:50;index"`
	TotalSpent    float64    `json:"total_spent" gorm:"default:0"`
	PurchaseCount int        `json:"purchase_count" gorm:"default:0"`
	LastPurchase  *time.Time `json:"last_purchase"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
