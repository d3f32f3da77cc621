package models

import (
	"ledger-app/controllers/idgen"
	"ledger-app/types"
	"time"

	"gorm.io/gorm"
)

type Sale struct {
	ID          types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	SaleNo      string            `json:"sale_no" gorm:"size:30;unique;not null"`
	BranchID    uint              `json:"branch_id" gorm:"index;not null"`
	CustomerID  uint              `json:"customer_id" gorm:"index;default:null"`
	TotalAmount float64           `json:"total_amount" gorm:"default:0"`
	CreatedAt   time.Time         `json:"created_at"`
	CreatedBy   int               `json:"created_by"`

	Items []SaleItem `json:"items" gorm:"foreignKey:SaleID"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == 0 {
		s.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}

type SaleItem struct {
	ID        types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	SaleID    types.SnowflakeID `json:"sale_id" gorm:"index;not null"`
	ProductID types.SnowflakeID `json:"product_id" gorm:"index;not null"`
	ItemCode  string            `json:"item_code" gorm:"size:50"`
	Quantity  int               `json:"quantity" gorm:"not null"`
	UnitPrice float64           `json:"unit_price" gorm:"default:0"`
	Subtotal  float64           `json:"subtotal" gorm:"default:0"`
	CreatedAt time.Time         `json:"created_at"`
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == 0 {
		i.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}
