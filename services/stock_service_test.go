package services

import (
	"errors"
	"ledger-app/models"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductWritesOpeningMovements(t *testing.T) {
	db := setupTestDB(t)
	product := createTestProduct(t, db, "SKU-001", 10, 5)

	assert.Equal(t, 15, product.TotalStock)
	assertAggregate(t, db, "SKU-001")

	var movements []models.StockMovement
	require.NoError(t, db.Where("item_code = ?", "SKU-001").Order("id").Find(&movements).Error)
	require.Len(t, movements, 2)
	assert.Equal(t, models.MovementAdd, movements[0].Kind)
	assert.Equal(t, "Initial stock", movements[0].Reason)
	assert.Equal(t, 0, movements[0].QtyBefore)
	assert.Equal(t, 10, movements[0].QtyAfter)
}

func TestCreateProductRejectsMinAboveMax(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)

	_, err := svc.CreateProduct(CreateProductRequest{
		ItemCode: "SKU-BAD",
		ItemName: "Bad",
		Stocks: []InitialStock{
			{BranchID: 1, Quantity: 5, MinStockLevel: 10, MaxStockLevel: 3},
		},
		ActorID: testActor,
	})

	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestAdjustDeduct(t *testing.T) {
	db := setupTestDB(t)
	createTestProduct(t, db, "SKU-001", 10, 5)
	svc := NewStockService(db)

	product, err := svc.Adjust(AdjustmentRequest{
		ItemCode: "SKU-001",
		BranchID: 1,
		Kind:     models.MovementDeduct,
		Quantity: 3,
		Reason:   "Damaged goods",
		ActorID:  testActor,
	})
	require.NoError(t, err)

	assert.Equal(t, 12, product.TotalStock)
	assert.Equal(t, 7, branchQty(t, db, "SKU-001", 1))
	assert.Equal(t, 5, branchQty(t, db, "SKU-001", 2))
	assertAggregate(t, db, "SKU-001")

	var movement models.StockMovement
	require.NoError(t, db.Where("item_code = ? AND kind = ?", "SKU-001", models.MovementDeduct).
		Take(&movement).Error)
	assert.Equal(t, 10, movement.QtyBefore)
	assert.Equal(t, 7, movement.QtyAfter)
	assert.Equal(t, -3, movement.QtyChange)
	assert.Equal(t, "Head Office Store", movement.BranchName)
}

func TestAdjustSetAbsolute(t *testing.T) {
	db := setupTestDB(t)
	createTestProduct(t, db, "SKU-001", 10, 5)
	svc := NewStockService(db)

	_, err := svc.Adjust(AdjustmentRequest{
		ItemCode: "SKU-001",
		BranchID: 2,
		Kind:     models.MovementAdjustment,
		Quantity: 8,
		Reason:   "Stock count correction",
		ActorID:  testActor,
	})
	require.NoError(t, err)

	assert.Equal(t, 8, branchQty(t, db, "SKU-001", 2))
	assert.Equal(t, 18, totalStock(t, db, "SKU-001"))
	assertAggregate(t, db, "SKU-001")

	var movement models.StockMovement
	require.NoError(t, db.Where("kind = ?", models.MovementAdjustment).Take(&movement).Error)
	assert.Equal(t, 3, movement.QtyChange)
	assert.Equal(t, 5, movement.QtyBefore)
	assert.Equal(t, 8, movement.QtyAfter)
}

func TestAdjustInsufficientStockLeavesStateUntouched(t *testing.T) {
	db := setupTestDB(t)
	createTestProduct(t, db, "SKU-001", 7, 0)
	svc := NewStockService(db)

	_, err := svc.Adjust(AdjustmentRequest{
		ItemCode: "SKU-001",
		BranchID: 1,
		Kind:     models.MovementDeduct,
		Quantity: 100,
		Reason:   "Oversell attempt",
		ActorID:  testActor,
	})

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "SKU-001", insufficient.ItemCode)
	assert.Equal(t, 100, insufficient.Requested)
	assert.Equal(t, 7, insufficient.Available)

	assert.Equal(t, 7, branchQty(t, db, "SKU-001", 1))
	assertAggregate(t, db, "SKU-001")

	var count int64
	require.NoError(t, db.Model(&models.StockMovement{}).
		Where("reason = ?", "Oversell attempt").Count(&count).Error)
	assert.Zero(t, count, "failed deduction must not write a ledger entry")
}

func TestAdjustUnknownSKU(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)

	_, err := svc.Adjust(AdjustmentRequest{
		ItemCode: "NOPE",
		BranchID: 1,
		Kind:     models.MovementAdd,
		Quantity: 1,
		Reason:   "Restock",
		ActorID:  testActor,
	})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Resource)
}

func TestAdjustUntrackedBranch(t *testing.T) {
	db := setupTestDB(t)
	createTestProduct(t, db, "SKU-001", 10, 5)
	require.NoError(t, db.Create(&models.Branch{Code: "BR02", Name: "Eastside Branch", IsActive: true}).Error)
	svc := NewStockService(db)

	_, err := svc.Adjust(AdjustmentRequest{
		ItemCode: "SKU-001",
		BranchID: 3,
		Kind:     models.MovementAdd,
		Quantity: 1,
		Reason:   "Restock",
		ActorID:  testActor,
	})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "branch stock", notFound.Resource)
}

func TestAdjustRequiresIdentity(t *testing.T) {
	db := setupTestDB(t)
	createTestProduct(t, db, "SKU-001", 10, 5)
	svc := NewStockService(db)

	_, err := svc.Adjust(AdjustmentRequest{
		ItemCode: "SKU-001",
		BranchID: 1,
		Kind:     models.MovementAdd,
		Quantity: 1,
		Reason:   "Restock",
	})

	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAdjustRejectsNegativeQuantity(t *testing.T) {
	db := setupTestDB(t)
	createTestProduct(t, db, "SKU-001", 10, 5)
	svc := NewStockService(db)

	_, err := svc.Adjust(AdjustmentRequest{
		ItemCode: "SKU-001",
		BranchID: 1,
		Kind:     models.MovementAdd,
		Quantity: -4,
		Reason:   "Restock",
		ActorID:  testActor,
	})

	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestConcurrentDeductNeverGoesNegative(t *testing.T) {
	db := setupTestDB(t)
	createTestProduct(t, db, "SKU-001", 1, 0)
	svc := NewStockService(db)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Adjust(AdjustmentRequest{
				ItemCode: "SKU-001",
				BranchID: 1,
				Kind:     models.MovementDeduct,
				Quantity: 1,
				Reason:   "Sale race",
				ActorID:  testActor,
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			var insufficient *InsufficientStockError
			if !errors.As(err, &insufficient) {
				require.ErrorIs(t, err, ErrConflict)
			}
		}
	}

	assert.Equal(t, 1, failures, "exactly one of the two deductions must fail")
	assert.Equal(t, 0, branchQty(t, db, "SKU-001", 1))
	assertAggregate(t, db, "SKU-001")
}

func TestDeleteProductBlockedByOpenTransfer(t *testing.T) {
	db := setupTestDB(t)
	createTestProduct(t, db, "SKU-001", 10, 5)

	transferSvc := NewTransferService(db)
	_, err := transferSvc.CreateTransfer(CreateTransferRequest{
		FromBranchID: 1,
		ToBranchID:   2,
		Items:        []TransferLine{{ItemCode: "SKU-001", Quantity: 2}},
		ActorID:      testActor,
	})
	require.NoError(t, err)

	svc := NewStockService(db)
	err = svc.DeleteProduct("SKU-001", testActor)

	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
}
