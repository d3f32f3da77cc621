package repositories

import (
	"ledger-app/database"
	"ledger-app/models"
	"ledger-app/services"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	branches := []models.Branch{
		{Code: "HQ", Name: "Head Office Store", IsActive: true},
		{Code: "BR01", Name: "Downtown Branch", IsActive: true},
	}
	for i := range branches {
		require.NoError(t, db.Create(&branches[i]).Error)
	}

	return db
}

const testActor = 1

func seedProduct(t *testing.T, db *gorm.DB, itemCode string, cost, selling float64, qtyA, qtyB, minLevel int) {
	t.Helper()

	svc := services.NewStockService(db)
	_, err := svc.CreateProduct(services.CreateProductRequest{
		ItemCode:     itemCode,
		ItemName:     "Test " + itemCode,
		CostPrice:    cost,
		SellingPrice: selling,
		Stocks: []services.InitialStock{
			{BranchID: 1, Quantity: qtyA, MinStockLevel: minLevel, MaxStockLevel: 100},
			{BranchID: 2, Quantity: qtyB, MinStockLevel: minLevel, MaxStockLevel: 100},
		},
		ActorID: testActor,
	})
	require.NoError(t, err)
}

func TestReplayReproducesCurrentStock(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "SKU-001", 10, 15, 10, 5, 2)

	stockSvc := services.NewStockService(db)
	transferSvc := services.NewTransferService(db)
	saleSvc := services.NewSaleService(db)

	_, err := saleSvc.CreateSale(services.CreateSaleRequest{
		BranchID: 1,
		Items:    []services.SaleLine{{ItemCode: "SKU-001", Quantity: 3}},
		ActorID:  testActor,
	})
	require.NoError(t, err)

	_, err = stockSvc.Adjust(services.AdjustmentRequest{
		ItemCode: "SKU-001",
		BranchID: 2,
		Kind:     models.MovementAdjustment,
		Quantity: 8,
		Reason:   "Stock count",
		ActorID:  testActor,
	})
	require.NoError(t, err)

	transfer, err := transferSvc.CreateTransfer(services.CreateTransferRequest{
		FromBranchID: 1,
		ToBranchID:   2,
		Items:        []services.TransferLine{{ItemCode: "SKU-001", Quantity: 4}},
		ActorID:      testActor,
	})
	require.NoError(t, err)
	_, err = transferSvc.Approve(transfer.TransferNo, testActor)
	require.NoError(t, err)
	_, err = transferSvc.Ship(transfer.TransferNo, testActor)
	require.NoError(t, err)
	_, err = transferSvc.Receive(transfer.TransferNo, testActor)
	require.NoError(t, err)

	repo := NewMovementRepository(db)
	for branchID := uint(1); branchID <= 2; branchID++ {
		replayed, err := repo.Replay("SKU-001", branchID)
		require.NoError(t, err)

		var product models.Product
		require.NoError(t, db.Where("item_code = ?", "SKU-001").Take(&product).Error)
		var stock models.BranchStock
		require.NoError(t, db.Where("product_id = ? AND branch_id = ?", product.ID, branchID).Take(&stock).Error)

		assert.Equal(t, stock.Quantity, replayed, "ledger replay diverged for branch %d", branchID)
	}
}

func TestMovementFilters(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "SKU-001", 10, 15, 10, 5, 2)
	seedProduct(t, db, "SKU-002", 10, 15, 10, 5, 2)

	saleSvc := services.NewSaleService(db)
	sale, err := saleSvc.CreateSale(services.CreateSaleRequest{
		BranchID: 1,
		Items: []services.SaleLine{
			{ItemCode: "SKU-001", Quantity: 2},
			{ItemCode: "SKU-002", Quantity: 1},
		},
		ActorID: testActor,
	})
	require.NoError(t, err)

	repo := NewMovementRepository(db)

	byRef, total, err := repo.Find(MovementFilter{RefNo: sale.SaleNo})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byRef, 2)

	byItem, _, err := repo.Find(MovementFilter{ItemCode: "SKU-001", Kind: models.MovementDeduct})
	require.NoError(t, err)
	require.Len(t, byItem, 1)
	assert.Equal(t, sale.SaleNo, byItem[0].RefNo)

	// Newest first.
	all, _, err := repo.Find(MovementFilter{})
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, int64(all[i-1].ID), int64(all[i].ID))
	}

	paged, total, err := repo.Find(MovementFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 6, total) // 4 opening + 2 sale entries
	assert.Len(t, paged, 3)
}

func TestLowStockReport(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "SKU-001", 10, 15, 10, 1, 2) // branch 2 below min
	seedProduct(t, db, "SKU-002", 10, 15, 2, 50, 2) // branch 1 at min

	repo := NewReportRepository(db)

	rows, err := repo.LowStock(0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SKU-002", rows[0].ItemCode)
	assert.Equal(t, uint(1), rows[0].BranchID)
	assert.Equal(t, "SKU-001", rows[1].ItemCode)
	assert.Equal(t, uint(2), rows[1].BranchID)

	branchOnly, err := repo.LowStock(2)
	require.NoError(t, err)
	require.Len(t, branchOnly, 1)
	assert.Equal(t, "SKU-001", branchOnly[0].ItemCode)
}

func TestValuationReport(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "SKU-001", 10, 15, 4, 6, 2)

	repo := NewReportRepository(db)

	report, err := repo.Valuation(0)
	require.NoError(t, err)
	assert.Equal(t, 10, report.TotalUnits)
	assert.Equal(t, 100.0, report.CostValue)
	assert.Equal(t, 150.0, report.SellingValue)
	assert.Equal(t, 50.0, report.Margin)

	branchReport, err := repo.Valuation(1)
	require.NoError(t, err)
	assert.Equal(t, 4, branchReport.TotalUnits)
	assert.Equal(t, 40.0, branchReport.CostValue)
}

func TestReportsTolerateEmptyStore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepository(db)

	rows, err := repo.LowStock(0)
	require.NoError(t, err)
	assert.Empty(t, rows)

	report, err := repo.Valuation(0)
	require.NoError(t, err)
	assert.Zero(t, report.TotalUnits)
	assert.Zero(t, report.CostValue)

	onHand, err := repo.StockOnHand(0)
	require.NoError(t, err)
	assert.Empty(t, onHand)

	movements, total, err := NewMovementRepository(db).Find(MovementFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, movements)
}

func TestStockOnHandBreakdown(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "SKU-001", 10, 15, 4, 6, 2)

	repo := NewReportRepository(db)
	rows, err := repo.StockOnHand(0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 4, rows[0].Quantity)
	assert.Equal(t, 10, rows[0].TotalStock)
	assert.Equal(t, "Head Office Store", rows[0].BranchName)
	assert.Equal(t, 6, rows[1].Quantity)
}
