package services

import (
	"errors"
	"fmt"
	"ledger-app/models"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// TransferService drives the branch-to-branch transfer workflow:
//
//	pending -> approved -> in_transit -> completed
//	pending|approved -> cancelled
//
// Stock moves only on ship (deduct at source) and receive (add at
// destination). Between the two, the goods are counted in neither branch
// and the product aggregate dips by the in-flight quantity; that window
// is the in_transit state itself.
type TransferService struct {
	db *gorm.DB
}

func NewTransferService(db *gorm.DB) *TransferService {
	return &TransferService{db: db}
}

type TransferLine struct {
	ItemCode  string  `json:"item_code" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

type CreateTransferRequest struct {
	FromBranchID uint           `json:"from_branch_id" validate:"required"`
	ToBranchID   uint           `json:"to_branch_id" validate:"required"`
	Notes        string         `json:"notes"`
	Items        []TransferLine `json:"items" validate:"required,min=1"`
	ActorID      int            `json:"-"`
}

// GenerateTransferNo builds the next TRF<yymmdd><seq> number from the
// last persisted transfer; the sequence resets daily.
func (s *TransferService) GenerateTransferNo(tx *gorm.DB) (string, error) {
	var lastTransfer models.StockTransfer

	currentDate := time.Now().Format("060102")

	if err := tx.Order("transfer_no DESC").Where("transfer_no LIKE ?", "TRF"+currentDate+"%").
		Take(&lastTransfer).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var transferNo string
	if lastTransfer.TransferNo != "" && len(lastTransfer.TransferNo) >= 13 {
		lastSequenceStr := lastTransfer.TransferNo[len(lastTransfer.TransferNo)-4:]
		lastSequenceInt, _ := strconv.Atoi(lastSequenceStr)
		transferNo = fmt.Sprintf("TRF%s%04d", currentDate, lastSequenceInt+1)
	} else {
		transferNo = fmt.Sprintf("TRF%s%04d", currentDate, 1)
	}

	return transferNo, nil
}

// CreateTransfer raises a pending transfer request. Source stock is
// checked but not reserved; it can still be short at ship time.
func (s *TransferService) CreateTransfer(req CreateTransferRequest) (*models.StockTransfer, error) {
	if req.ActorID == 0 {
		return nil, ErrUnauthorized
	}
	if req.FromBranchID == req.ToBranchID {
		return nil, &InvalidInputError{Msg: "source and destination branch must differ"}
	}
	if len(req.Items) == 0 {
		return nil, &InvalidInputError{Msg: "transfer has no line items"}
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidInputError{Msg: fmt.Sprintf("%s: quantity must be positive, got %d", item.ItemCode, item.Quantity)}
		}
	}

	var transfer models.StockTransfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, branchID := range []uint{req.FromBranchID, req.ToBranchID} {
			var branch models.Branch
			if err := tx.Where("id = ?", branchID).Take(&branch).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "branch", Key: fmt.Sprint(branchID)}
				}
				return err
			}
		}

		transferNo, err := s.GenerateTransferNo(tx)
		if err != nil {
			return err
		}

		transfer = models.StockTransfer{
			TransferNo:   transferNo,
			FromBranchID: req.FromBranchID,
			ToBranchID:   req.ToBranchID,
			Status:       models.TransferPending,
			Notes:        req.Notes,
			RequestedBy:  req.ActorID,
		}
		if err := tx.Create(&transfer).Error; err != nil {
			return err
		}

		for _, item := range req.Items {
			var product models.Product
			if err := tx.Where("item_code = ?", item.ItemCode).Take(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Resource: "product", Key: item.ItemCode}
				}
				return err
			}

			var stock models.BranchStock
			if err := tx.Where("product_id = ? AND branch_id = ?", product.ID, req.FromBranchID).Take(&stock).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{
						Resource: "branch stock",
						Key:      fmt.Sprintf("%s @ branch %d", item.ItemCode, req.FromBranchID),
					}
				}
				return err
			}

			// Advisory only; nothing is reserved until ship.
			if stock.Quantity < item.Quantity {
				return &InsufficientStockError{
					ItemCode:  item.ItemCode,
					BranchID:  req.FromBranchID,
					Requested: item.Quantity,
					Available: stock.Quantity,
				}
			}

			unitPrice := item.UnitPrice
			if unitPrice == 0 {
				unitPrice = product.CostPrice
			}

			transferItem := models.StockTransferItem{
				TransferID:     transfer.ID,
				ProductID:      product.ID,
				ItemCode:       product.ItemCode,
				Quantity:       item.Quantity,
				UnitPrice:      unitPrice,
				StockAtRequest: stock.Quantity,
			}
			if err := tx.Create(&transferItem).Error; err != nil {
				return err
			}
			transfer.Items = append(transfer.Items, transferItem)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// lockTransfer loads the transfer row FOR UPDATE so two terminals cannot
// drive the same transition twice.
func lockTransfer(tx *gorm.DB, transferNo string) (*models.StockTransfer, error) {
	var transfer models.StockTransfer
	if err := lockForUpdate(tx).
		Where("transfer_no = ?", transferNo).
		Take(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "transfer", Key: transferNo}
		}
		return nil, err
	}
	return &transfer, nil
}

// Approve moves pending -> approved. No stock movement.
func (s *TransferService) Approve(transferNo string, actorID int) (*models.StockTransfer, error) {
	if actorID == 0 {
		return nil, ErrUnauthorized
	}

	var transfer *models.StockTransfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, err := lockTransfer(tx, transferNo)
		if err != nil {
			return err
		}
		if t.Status != models.TransferPending {
			return &InvalidTransitionError{TransferNo: transferNo, Current: t.Status, Attempted: "approve"}
		}

		now := time.Now()
		if err := tx.Model(t).Updates(map[string]interface{}{
			"status":      models.TransferApproved,
			"approved_by": actorID,
			"approved_at": &now,
		}).Error; err != nil {
			return err
		}
		t.Status = models.TransferApproved
		t.ApprovedBy = actorID
		t.ApprovedAt = &now
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Ship moves approved -> in_transit, deducting every line from the
// source branch. The transfer fails whole if any line is short.
func (s *TransferService) Ship(transferNo string, actorID int) (*models.StockTransfer, error) {
	if actorID == 0 {
		return nil, ErrUnauthorized
	}

	var transfer *models.StockTransfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, err := lockTransfer(tx, transferNo)
		if err != nil {
			return err
		}
		if t.Status != models.TransferApproved {
			return &InvalidTransitionError{TransferNo: transferNo, Current: t.Status, Attempted: "ship"}
		}

		var items []models.StockTransferItem
		if err := tx.Where("transfer_id = ?", t.ID).Order("id").Find(&items).Error; err != nil {
			return err
		}

		for _, item := range items {
			if _, err := applyAdjustment(tx, AdjustmentRequest{
				ItemCode: item.ItemCode,
				BranchID: t.FromBranchID,
				Kind:     models.MovementTransferOut,
				Quantity: item.Quantity,
				Reason:   "Transfer to branch",
				RefNo:    t.TransferNo,
				ActorID:  actorID,
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.Model(t).Updates(map[string]interface{}{
			"status":     models.TransferInTransit,
			"shipped_by": actorID,
			"shipped_at": &now,
		}).Error; err != nil {
			return err
		}
		t.Status = models.TransferInTransit
		t.ShippedBy = actorID
		t.ShippedAt = &now
		t.Items = items
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Receive moves in_transit -> completed, adding every line at the
// destination branch. The aggregate is recomputed from branch rows, so
// it is restored here without being incremented independently.
func (s *TransferService) Receive(transferNo string, actorID int) (*models.StockTransfer, error) {
	if actorID == 0 {
		return nil, ErrUnauthorized
	}

	var transfer *models.StockTransfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, err := lockTransfer(tx, transferNo)
		if err != nil {
			return err
		}
		if t.Status != models.TransferInTransit {
			return &InvalidTransitionError{TransferNo: transferNo, Current: t.Status, Attempted: "receive"}
		}

		var items []models.StockTransferItem
		if err := tx.Where("transfer_id = ?", t.ID).Order("id").Find(&items).Error; err != nil {
			return err
		}

		for _, item := range items {
			if _, err := applyAdjustment(tx, AdjustmentRequest{
				ItemCode: item.ItemCode,
				BranchID: t.ToBranchID,
				Kind:     models.MovementTransferIn,
				Quantity: item.Quantity,
				Reason:   "Transfer from branch",
				RefNo:    t.TransferNo,
				ActorID:  actorID,
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.Model(t).Updates(map[string]interface{}{
			"status":      models.TransferCompleted,
			"received_by": actorID,
			"received_at": &now,
		}).Error; err != nil {
			return err
		}
		t.Status = models.TransferCompleted
		t.ReceivedBy = actorID
		t.ReceivedAt = &now
		t.Items = items
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Cancel is allowed from pending or approved only; once shipped the
// goods have already left the source.
func (s *TransferService) Cancel(transferNo, reason string, actorID int) (*models.StockTransfer, error) {
	if actorID == 0 {
		return nil, ErrUnauthorized
	}

	var transfer *models.StockTransfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, err := lockTransfer(tx, transferNo)
		if err != nil {
			return err
		}
		if t.Status != models.TransferPending && t.Status != models.TransferApproved {
			return &InvalidTransitionError{TransferNo: transferNo, Current: t.Status, Attempted: "cancel"}
		}

		now := time.Now()
		if err := tx.Model(t).Updates(map[string]interface{}{
			"status":        models.TransferCancelled,
			"cancel_reason": reason,
			"cancelled_by":  actorID,
			"cancelled_at":  &now,
		}).Error; err != nil {
			return err
		}
		t.Status = models.TransferCancelled
		t.CancelReason = reason
		t.CancelledBy = actorID
		t.CancelledAt = &now
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// GetTransfer loads one transfer with its items.
func (s *TransferService) GetTransfer(transferNo string) (*models.StockTransfer, error) {
	var transfer models.StockTransfer
	if err := s.db.Preload("Items").Where("transfer_no = ?", transferNo).Take(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "transfer", Key: transferNo}
		}
		return nil, err
	}
	return &transfer, nil
}

// ListTransfers filters by status and either endpoint branch.
func (s *TransferService) ListTransfers(status string, branchID uint, limit int) ([]models.StockTransfer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var transfers []models.StockTransfer
	query := s.db.Preload("Items").Order("created_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if branchID != 0 {
		query = query.Where("from_branch_id = ? OR to_branch_id = ?", branchID, branchID)
	}
	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}
