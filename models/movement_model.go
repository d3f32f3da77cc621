package models

import (
	"ledger-app/controllers/idgen"
	"ledger-app/types"
	"time"

	"gorm.io/gorm"
)

// Movement kinds. transfer_out/transfer_in are the two legs of a branch
// transfer; adjustment is a set-absolute stock count correction.
const (
	MovementAdd         = "add"
	MovementDeduct      = "deduct"
	MovementAdjustment  = "adjustment"
	MovementTransferOut = "transfer_out"
	MovementTransferIn  = "transfer_in"
)

// StockMovement is one immutable ledger row per stock change. Rows are
// never updated or deleted; replaying QtyChange for a product+branch in
// id order reproduces the current branch quantity.
type StockMovement struct {
	ID         types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	ProductID  types.SnowflakeID `json:"product_id" gorm:"index:idx_movement_product_branch,priority:1;not null"`
	ItemCode   string            `json:"item_code" gorm:"size:50;index"`
	BranchID   uint              `json:"branch_id" gorm:"index:idx_movement_product_branch,priority:2;not null"`
	BranchName string            `json:"branch_name" gorm:"size:100"`
	Kind       string            `json:"kind" gorm:"size:20;not null"`
	QtyChange  int               `json:"qty_change" gorm:"not null"`
	QtyBefore  int               `json:"qty_before"`
	QtyAfter   int               `json:"qty_after"`
	Reason     string            `json:"reason" gorm:"size:255"`
	RefNo      string            `json:"ref_no" gorm:"size:30;index"`
	CreatedAt  time.Time         `json:"created_at" gorm:"index"`
	CreatedBy  int               `json:"created_by"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == 0 {
		m.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}
