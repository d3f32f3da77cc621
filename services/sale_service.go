package services

import (
	"errors"
	"fmt"
	"ledger-app/models"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type SaleService struct {
	db *gorm.DB
}

func NewSaleService(db *gorm.DB) *SaleService {
	return &SaleService{db: db}
}

type SaleLine struct {
	ItemCode  string  `json:"item_code" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

type CreateSaleRequest struct {
	BranchID   uint       `json:"branch_id" validate:"required"`
	CustomerID uint       `json:"customer_id"`
	Items      []SaleLine `json:"items" validate:"required,min=1"`
	ActorID    int        `json:"-"`
}

// GenerateSaleNo builds the next SO<yymmdd><seq> number from the last
// persisted sale; the sequence resets daily.
func (s *SaleService) GenerateSaleNo(tx *gorm.DB) (string, error) {
	var lastSale models.Sale

	if err := tx.Order("sale_no DESC").Where("sale_no LIKE ?", "SO"+time.Now().Format("060102")+"%").
		Take(&lastSale).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	currentDate := time.Now().Format("060102")

	var saleNo string
	if lastSale.SaleNo != "" && len(lastSale.SaleNo) >= 12 {
		lastSequenceStr := lastSale.SaleNo[len(lastSale.SaleNo)-4:]
		lastSequenceInt, _ := strconv.Atoi(lastSequenceStr)
		saleNo = fmt.Sprintf("SO%s%04d", currentDate, lastSequenceInt+1)
	} else {
		saleNo = fmt.Sprintf("SO%s%04d", currentDate, 1)
	}

	return saleNo, nil
}

// CreateSale deducts every line item and records the sale as one unit.
// The whole set commits in a single transaction, so a losing race on any
// line rolls back the lines already deducted instead of leaving a
// partially fulfilled sale.
func (s *SaleService) CreateSale(req CreateSaleRequest) (*models.Sale, error) {
	if req.ActorID == 0 {
		return nil, ErrUnauthorized
	}
	if len(req.Items) == 0 {
		return nil, &InvalidInputError{Msg: "sale has no line items"}
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidInputError{Msg: fmt.Sprintf("%s: quantity must be positive, got %d", item.ItemCode, item.Quantity)}
		}
	}

	var sale models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var branch models.Branch
		if err := tx.Where("id = ?", req.BranchID).Take(&branch).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "branch", Key: fmt.Sprint(req.BranchID)}
			}
			return err
		}

		saleNo, err := s.GenerateSaleNo(tx)
		if err != nil {
			return err
		}

		// Pre-validation pass: re-read every line's stock right before
		// the deductions so a shortfall is reported against fresh data.
		for _, item := range req.Items {
			var product models.Product
			if err := tx.Where("item_code = ?", item.ItemCode).Take(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "product", Key: item.ItemCode}
				}
				return err
			}
			var stock models.BranchStock
			if err := tx.Where("product_id = ? AND branch_id = ?", product.ID, req.BranchID).Take(&stock).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{
						Resource: "branch stock",
						Key:      fmt.Sprintf("%s @ branch %d", item.ItemCode, req.BranchID),
					}
				}
				return err
			}
			if stock.Quantity < item.Quantity {
				return &InsufficientStockError{
					ItemCode:  item.ItemCode,
					BranchID:  req.BranchID,
					Requested: item.Quantity,
					Available: stock.Quantity,
				}
			}
		}

		sale = models.Sale{
			SaleNo:     saleNo,
			BranchID:   req.BranchID,
			CustomerID: req.CustomerID,
			CreatedBy:  req.ActorID,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		total := 0.0
		for _, item := range req.Items {
			product, err := applyAdjustment(tx, AdjustmentRequest{
				ItemCode: item.ItemCode,
				BranchID: req.BranchID,
				Kind:     models.MovementDeduct,
				Quantity: item.Quantity,
				Reason:   "Sale",
				RefNo:    saleNo,
				ActorID:  req.ActorID,
			})
			if err != nil {
				return err
			}

			unitPrice := item.UnitPrice
			if unitPrice == 0 {
				unitPrice = product.SellingPrice
			}
			subtotal := unitPrice * float64(item.Quantity)
			total += subtotal

			saleItem := models.SaleItem{
				SaleID:    sale.ID,
				ProductID: product.ID,
				ItemCode:  product.ItemCode,
				Quantity:  item.Quantity,
				UnitPrice: unitPrice,
				Subtotal:  subtotal,
			}
			if err := tx.Create(&saleItem).Error; err != nil {
				return err
			}
			sale.Items = append(sale.Items, saleItem)
		}

		if err := tx.Model(&sale).Update("total_amount", total).Error; err != nil {
			return err
		}
		sale.TotalAmount = total

		// Purchase-history aggregate, updated after the stock commit.
		if req.CustomerID != 0 {
			now := time.Now()
			result := tx.Model(&models.Customer{}).
				Where("id = ?", req.CustomerID).
				Updates(map[string]interface{}{
					"total_spent":    gorm.Expr("total_spent + ?", total),
					"purchase_count": gorm.Expr("purchase_count + 1"),
					"last_purchase":  &now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &NotFoundError{Resource: "customer", Key: fmt.Sprint(req.CustomerID)}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetSale loads one sale with its items by sale number.
func (s *SaleService) GetSale(saleNo string) (*models.Sale, error) {
	var sale models.Sale
	if err := s.db.Preload("Items").Where("sale_no = ?", saleNo).Take(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "sale", Key: saleNo}
		}
		return nil, err
	}
	return &sale, nil
}

// ListSales returns sales for a branch, newest first.
func (s *SaleService) ListSales(branchID uint, limit int) ([]models.Sale, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var sales []models.Sale
	query := s.db.Preload("Items").Order("created_at DESC").Limit(limit)
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}
	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
