package services

import (
	"errors"
	"fmt"
	"ledger-app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockService owns every write against product stock. All mutations go
// through applyAdjustment inside one transaction: branch row update,
// aggregate recompute and ledger append commit or fail together.
type StockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// lockForUpdate adds FOR UPDATE on dialects that support row locks.
// SQLite allows a single writer at a time, so the clause is unnecessary
// there and its parser rejects it.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type AdjustmentRequest struct {
	ItemCode string
	BranchID uint
	Kind     string // add, deduct, adjustment (set absolute)
	Quantity int
	Reason   string
	RefNo    string
	ActorID  int
}

// Adjust applies a single manual stock adjustment.
func (s *StockService) Adjust(req AdjustmentRequest) (*models.Product, error) {
	if req.ActorID == 0 {
		return nil, ErrUnauthorized
	}

	var product *models.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := applyAdjustment(tx, req)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// applyAdjustment is the single write path for branch stock. It must run
// inside a transaction. The product row is locked first, so concurrent
// adjustments against the same SKU serialize and the aggregate recompute
// never reads a half-updated branch list.
func applyAdjustment(tx *gorm.DB, req AdjustmentRequest) (*models.Product, error) {
	switch req.Kind {
	case models.MovementAdd, models.MovementDeduct, models.MovementTransferOut, models.MovementTransferIn:
		if req.Quantity <= 0 {
			return nil, &InvalidInputError{Msg: fmt.Sprintf("quantity must be positive, got %d", req.Quantity)}
		}
	case models.MovementAdjustment:
		if req.Quantity < 0 {
			return nil, &InvalidInputError{Msg: fmt.Sprintf("stock count cannot be negative, got %d", req.Quantity)}
		}
	default:
		return nil, &InvalidInputError{Msg: "unknown movement kind: " + req.Kind}
	}

	var product models.Product
	if err := lockForUpdate(tx).
		Where("item_code = ?", req.ItemCode).
		Take(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "product", Key: req.ItemCode}
		}
		return nil, err
	}

	var branch models.Branch
	if err := tx.Where("id = ?", req.BranchID).Take(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "branch", Key: fmt.Sprint(req.BranchID)}
		}
		return nil, err
	}

	var stock models.BranchStock
	if err := tx.Where("product_id = ? AND branch_id = ?", product.ID, req.BranchID).
		Take(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{
				Resource: "branch stock",
				Key:      fmt.Sprintf("%s @ branch %d", req.ItemCode, req.BranchID),
			}
		}
		return nil, err
	}

	prev := stock.Quantity
	var next int
	switch req.Kind {
	case models.MovementAdd, models.MovementTransferIn:
		next = prev + req.Quantity
	case models.MovementDeduct, models.MovementTransferOut:
		next = prev - req.Quantity
		if next < 0 {
			return nil, &InsufficientStockError{
				ItemCode:  req.ItemCode,
				BranchID:  req.BranchID,
				Requested: req.Quantity,
				Available: prev,
			}
		}
	case models.MovementAdjustment:
		next = req.Quantity
	}

	if err := tx.Model(&stock).Update("quantity", next).Error; err != nil {
		return nil, err
	}

	// Re-read the full branch list after the update so the aggregate is
	// never computed from a stale snapshot.
	var total int64
	if err := tx.Model(&models.BranchStock{}).
		Where("product_id = ?", product.ID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error; err != nil {
		return nil, err
	}

	if err := tx.Model(&product).Updates(map[string]interface{}{
		"total_stock": total,
		"updated_by":  req.ActorID,
	}).Error; err != nil {
		return nil, err
	}
	product.TotalStock = int(total)

	movement := models.StockMovement{
		ProductID:  product.ID,
		ItemCode:   product.ItemCode,
		BranchID:   branch.ID,
		BranchName: branch.Name,
		Kind:       req.Kind,
		QtyChange:  next - prev,
		QtyBefore:  prev,
		QtyAfter:   next,
		Reason:     req.Reason,
		RefNo:      req.RefNo,
		CreatedBy:  req.ActorID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	return &product, nil
}

type InitialStock struct {
	BranchID      uint `json:"branch_id" validate:"required"`
	Quantity      int  `json:"quantity" validate:"gte=0"`
	MinStockLevel int  `json:"min_stock_level" validate:"gte=0"`
	MaxStockLevel int  `json:"max_stock_level" validate:"gte=0"`
}

type CreateProductRequest struct {
	ItemCode     string         `json:"item_code" validate:"required"`
	ItemName     string         `json:"item_name" validate:"required"`
	Barcode      string         `json:"barcode"`
	Uom          string         `json:"uom"`
	CostPrice    float64        `json:"cost_price" validate:"gte=0"`
	SellingPrice float64        `json:"selling_price" validate:"gte=0"`
	Stocks       []InitialStock `json:"stocks"`
	ActorID      int            `json:"-"`
}

// CreateProduct introduces a SKU with its initial branch distribution.
// Each stocked branch gets an opening "add" movement so that replaying
// the ledger from the first row reproduces the current quantity.
func (s *StockService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if req.ActorID == 0 {
		return nil, ErrUnauthorized
	}
	for _, st := range req.Stocks {
		if st.Quantity < 0 {
			return nil, &InvalidInputError{Msg: fmt.Sprintf("initial stock for branch %d cannot be negative", st.BranchID)}
		}
		if st.MinStockLevel > st.MaxStockLevel {
			return nil, &InvalidInputError{Msg: fmt.Sprintf("branch %d: min stock level %d exceeds max %d", st.BranchID, st.MinStockLevel, st.MaxStockLevel)}
		}
	}

	var product models.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.Where("item_code = ?", req.ItemCode).Take(&existing).Error; err == nil {
			return &InvalidInputError{Msg: "item code already exists: " + req.ItemCode}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		uom := req.Uom
		if uom == "" {
			uom = "PCS"
		}

		product = models.Product{
			ItemCode:     req.ItemCode,
			ItemName:     req.ItemName,
			Barcode:      req.Barcode,
			Uom:          uom,
			CostPrice:    req.CostPrice,
			SellingPrice: req.SellingPrice,
			IsActive:     true,
			CreatedBy:    req.ActorID,
		}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		total := 0
		for _, st := range req.Stocks {
			var branch models.Branch
			if err := tx.Where("id = ?", st.BranchID).Take(&branch).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "branch", Key: fmt.Sprint(st.BranchID)}
				}
				return err
			}

			stock := models.BranchStock{
				ProductID:     product.ID,
				BranchID:      st.BranchID,
				Quantity:      st.Quantity,
				MinStockLevel: st.MinStockLevel,
				MaxStockLevel: st.MaxStockLevel,
			}
			if err := tx.Create(&stock).Error; err != nil {
				return err
			}
			total += st.Quantity

			if st.Quantity > 0 {
				movement := models.StockMovement{
					ProductID:  product.ID,
					ItemCode:   product.ItemCode,
					BranchID:   branch.ID,
					BranchName: branch.Name,
					Kind:       models.MovementAdd,
					QtyChange:  st.Quantity,
					QtyBefore:  0,
					QtyAfter:   st.Quantity,
					Reason:     "Initial stock",
					CreatedBy:  req.ActorID,
				}
				if err := tx.Create(&movement).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&product).Update("total_stock", total).Error; err != nil {
			return err
		}
		product.TotalStock = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// TrackBranch starts tracking an existing SKU at a branch with zero stock.
func (s *StockService) TrackBranch(itemCode string, branchID uint, minLevel, maxLevel, actorID int) (*models.BranchStock, error) {
	if actorID == 0 {
		return nil, ErrUnauthorized
	}
	if minLevel > maxLevel {
		return nil, &InvalidInputError{Msg: fmt.Sprintf("min stock level %d exceeds max %d", minLevel, maxLevel)}
	}

	var stock models.BranchStock
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("item_code = ?", itemCode).Take(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "product", Key: itemCode}
			}
			return err
		}
		var branch models.Branch
		if err := tx.Where("id = ?", branchID).Take(&branch).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "branch", Key: fmt.Sprint(branchID)}
			}
			return err
		}
		var existing models.BranchStock
		if err := tx.Where("product_id = ? AND branch_id = ?", product.ID, branchID).Take(&existing).Error; err == nil {
			return &InvalidInputError{Msg: fmt.Sprintf("%s is already tracked at branch %d", itemCode, branchID)}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		stock = models.BranchStock{
			ProductID:     product.ID,
			BranchID:      branchID,
			Quantity:      0,
			MinStockLevel: minLevel,
			MaxStockLevel: maxLevel,
		}
		return tx.Create(&stock).Error
	})
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// DeleteProduct deactivates a SKU. Refused while an open transfer still
// references it.
func (s *StockService) DeleteProduct(itemCode string, actorID int) error {
	if actorID == 0 {
		return ErrUnauthorized
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("item_code = ?", itemCode).Take(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "product", Key: itemCode}
			}
			return err
		}

		var open int64
		if err := tx.Model(&models.StockTransferItem{}).
			Joins("JOIN stock_transfers ON stock_transfers.id = stock_transfer_items.transfer_id").
			Where("stock_transfer_items.product_id = ?", product.ID).
			Where("stock_transfers.status IN ?", []string{models.TransferPending, models.TransferApproved, models.TransferInTransit}).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return &InvalidInputError{Msg: fmt.Sprintf("%s is referenced by %d open transfer item(s)", itemCode, open)}
		}

		return tx.Model(&product).Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": actorID,
		}).Error
	})
}
