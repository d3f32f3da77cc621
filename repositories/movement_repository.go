package repositories

import (
	"ledger-app/models"
	"time"

	"gorm.io/gorm"
)

// MovementRepository reads the append-only stock movement ledger. Writes
// happen only inside the stock service transactions; nothing here
// mutates rows.
type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db}
}

type MovementFilter struct {
	BranchID uint
	ItemCode string
	RefNo    string
	Kind     string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// Find returns ledger entries newest first plus the unpaginated total.
func (r *MovementRepository) Find(f MovementFilter) ([]models.StockMovement, int64, error) {
	query := r.db.Model(&models.StockMovement{})

	if f.BranchID != 0 {
		query = query.Where("branch_id = ?", f.BranchID)
	}
	if f.ItemCode != "" {
		query = query.Where("item_code = ?", f.ItemCode)
	}
	if f.RefNo != "" {
		query = query.Where("ref_no = ?", f.RefNo)
	}
	if f.Kind != "" {
		query = query.Where("kind = ?", f.Kind)
	}
	if f.DateFrom != nil {
		query = query.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("created_at <= ?", *f.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 50
	}

	var movements []models.StockMovement
	if err := query.Order("id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&movements).Error; err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

// Replay walks the ledger for a product+branch in insertion order and
// returns the resulting quantity. Used by audit checks: the result must
// equal the live branch stock.
func (r *MovementRepository) Replay(itemCode string, branchID uint) (int, error) {
	var movements []models.StockMovement
	if err := r.db.Where("item_code = ? AND branch_id = ?", itemCode, branchID).
		Order("id ASC").
		Find(&movements).Error; err != nil {
		return 0, err
	}

	qty := 0
	for _, m := range movements {
		qty += m.QtyChange
	}
	return qty, nil
}
