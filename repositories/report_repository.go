package repositories

import (
	"ledger-app/models"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// ReportRepository holds the read-only projections over stock and the
// movement ledger. It has no write authority and tolerates an empty
// product table.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db}
}

type lowStockRow struct {
	ItemCode      string `json:"item_code"`
	ItemName      string `json:"item_name"`
	BranchID      uint   `json:"branch_id"`
	BranchName    string `json:"branch_name"`
	Quantity      int    `json:"quantity"`
	MinStockLevel int    `json:"min_stock_level"`
	MaxStockLevel int    `json:"max_stock_level"`
}

// LowStock lists branch stocks at or below their minimum level,
// optionally for a single branch.
func (r *ReportRepository) LowStock(branchID uint) ([]lowStockRow, error) {
	query := r.db.Model(&models.BranchStock{}).
		Select(`products.item_code, products.item_name, branch_stocks.branch_id,
			branches.name AS branch_name, branch_stocks.quantity,
			branch_stocks.min_stock_level, branch_stocks.max_stock_level`).
		Joins("JOIN products ON products.id = branch_stocks.product_id").
		Joins("JOIN branches ON branches.id = branch_stocks.branch_id").
		Where("branch_stocks.quantity <= branch_stocks.min_stock_level").
		Where("products.is_active = ?", true)

	if branchID != 0 {
		query = query.Where("branch_stocks.branch_id = ?", branchID)
	}

	var rows []lowStockRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	slices.SortFunc(rows, func(a, b lowStockRow) int {
		if a.BranchID != b.BranchID {
			return int(a.BranchID) - int(b.BranchID)
		}
		if a.ItemCode < b.ItemCode {
			return -1
		}
		if a.ItemCode > b.ItemCode {
			return 1
		}
		return 0
	})

	return rows, nil
}

type ValuationReport struct {
	TotalUnits   int     `json:"total_units"`
	CostValue    float64 `json:"cost_value"`
	SellingValue float64 `json:"selling_value"`
	Margin       float64 `json:"margin"`
}

// Valuation sums quantity x cost and quantity x selling price over the
// live branch stocks, optionally for a single branch.
func (r *ReportRepository) Valuation(branchID uint) (*ValuationReport, error) {
	query := r.db.Model(&models.BranchStock{}).
		Select(`COALESCE(SUM(branch_stocks.quantity), 0) AS total_units,
			COALESCE(SUM(branch_stocks.quantity * products.cost_price), 0) AS cost_value,
			COALESCE(SUM(branch_stocks.quantity * products.selling_price), 0) AS selling_value`).
		Joins("JOIN products ON products.id = branch_stocks.product_id").
		Where("products.is_active = ?", true)

	if branchID != 0 {
		query = query.Where("branch_stocks.branch_id = ?", branchID)
	}

	var report ValuationReport
	if err := query.Scan(&report).Error; err != nil {
		return nil, err
	}
	report.Margin = report.SellingValue - report.CostValue

	return &report, nil
}

type stockOnHandRow struct {
	ItemCode   string `json:"item_code"`
	ItemName   string `json:"item_name"`
	BranchID   uint   `json:"branch_id"`
	BranchName string `json:"branch_name"`
	Quantity   int    `json:"quantity"`
	TotalStock int    `json:"total_stock"`
}

// StockOnHand returns the per-branch breakdown with the product
// aggregate alongside, optionally filtered by branch.
func (r *ReportRepository) StockOnHand(branchID uint) ([]stockOnHandRow, error) {
	query := r.db.Model(&models.BranchStock{}).
		Select(`products.item_code, products.item_name, branch_stocks.branch_id,
			branches.name AS branch_name, branch_stocks.quantity, products.total_stock`).
		Joins("JOIN products ON products.id = branch_stocks.product_id").
		Joins("JOIN branches ON branches.id = branch_stocks.branch_id").
		Where("products.is_active = ?", true).
		Order("products.item_code, branch_stocks.branch_id")

	if branchID != 0 {
		query = query.Where("branch_stocks.branch_id = ?", branchID)
	}

	var rows []stockOnHandRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
