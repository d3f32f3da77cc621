package models

import (
	"ledger-app/controllers/idgen"
	"ledger-app/types"
	"time"

	"gorm.io/gorm"
)

// Transfer statuses. pending and approved may be cancelled; once shipped
// the goods have left the source branch and the transfer must complete.
const (
	TransferPending   = "pending"
	TransferApproved  = "approved"
	TransferInTransit = "in_transit"
	TransferCompleted = "completed"
	TransferCancelled = "cancelled"
)

type StockTransfer struct {
	ID           types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	TransferNo   string            `json:"transfer_no" gorm:"size:30;unique;not null"`
	FromBranchID uint              `json:"from_branch_id" gorm:"index;not null"`
	ToBranchID   uint              `json:"to_branch_id" gorm:"index;not null"`
	Status       string            `json:"status" gorm:"size:20;index;default:pending"`
	Notes        string            `json:"notes" gorm:"size:255"`
	CancelReason string            `json:"cancel_reason" gorm:"size:255"`
	RequestedBy  int               `json:"requested_by"`
	ApprovedBy   int               `json:"approved_by"`
	ShippedBy    int               `json:"shipped_by"`
	ReceivedBy   int               `json:"received_by"`
	CancelledBy  int               `json:"cancelled_by"`
	ApprovedAt   *time.Time        `json:"approved_at"`
	ShippedAt    *time.Time        `json:"shipped_at"`
	ReceivedAt   *time.Time        `json:"received_at"`
	CancelledAt  *time.Time        `json:"cancelled_at"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	Items []StockTransferItem `json:"items" gorm:"foreignKey:TransferID"`
}

func (t *StockTransfer) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == 0 {
		t.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}

type StockTransferItem struct {
	ID             types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	TransferID     types.SnowflakeID `json:"transfer_id" gorm:"index;not null"`
	ProductID      types.SnowflakeID `json:"product_id" gorm:"index;not null"`
	ItemCode       string            `json:"item_code" gorm:"size:50"`
	Quantity       int               `json:"quantity" gorm:"not null"`
	UnitPrice      float64           `json:"unit_price" gorm:"default:0"`
	StockAtRequest int               `json:"stock_at_request"` // source branch stock when the transfer was raised
	CreatedAt      time.Time         `json:"created_at"`
}

func (i *StockTransferItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == 0 {
		i.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}
