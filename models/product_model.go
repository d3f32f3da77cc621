package models

import (
	"ledger-app/controllers/idgen"
	"ledger-app/types"
	"time"

	"gorm.io/gorm"
)

// Product is the stock record for one SKU. TotalStock is always derived
// as the sum of the branch rows inside the same transaction that changes
// any of them; the branch rows are the single source of truth.
type Product struct {
	ID           types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	ItemCode     string            `json:"item_code" gorm:"size:50;unique;not null" validate:"required"`
	ItemName     string            `json:"item_name" gorm:"size:150;not null" validate:"required"`
	Barcode      string            `json:"barcode" gorm:"size:50;index"`
	Uom          string            `json:"uom" gorm:"size:20;default:PCS"`
	CostPrice    float64           `json:"cost_price" gorm:"default:0" validate:"gte=0"`
	SellingPrice float64           `json:"selling_price" gorm:"default:0" validate:"gte=0"`
	TotalStock   int               `json:"total_stock" gorm:"default:0"`
	IsActive     bool              `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    int
	UpdatedBy    int

	BranchStocks []BranchStock `json:"branch_stocks" gorm:"foreignKey:ProductID"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == 0 {
		p.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}

// BranchStock is one branch's share of a product's stock.
type BranchStock struct {
	ID            types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	ProductID     types.SnowflakeID `json:"product_id" gorm:"index:idx_branch_stock_product_branch,unique,priority:1;not null"`
	BranchID      uint              `json:"branch_id" gorm:"index:idx_branch_stock_product_branch,unique,priority:2;not null"`
	Quantity      int               `json:"quantity" gorm:"default:0"`
	MinStockLevel int               `json:"min_stock_level" gorm:"default:0"`
	MaxStockLevel int               `json:"max_stock_level" gorm:"default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (b *BranchStock) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == 0 {
		b.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}
