package services

import (
	"ledger-app/database"
	"ledger-app/models"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database with a single connection so
// that transactions serialize the same way row locks do in production.
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

// createTestProduct introduces a SKU stocked at the two seeded branches.
func createTestProduct(t *testing.T, db *gorm.DB, itemCode string, qtyA, qtyB int) *models.Product {
	t.Helper()

	svc := NewStockService(db)
	product, err := svc.CreateProduct(CreateProductRequest{
		ItemCode:     itemCode,
		ItemName:     "Test " + itemCode,
		CostPrice:    10,
		SellingPrice: 15,
		Stocks: []InitialStock{
			{BranchID: 1, Quantity: qtyA, MinStockLevel: 2, MaxStockLevel: 100},
			{BranchID: 2, Quantity: qtyB, MinStockLevel: 2, MaxStockLevel: 100},
		},
		ActorID: testActor,
	})
	require.NoError(t, err)
	return product
}

func branchQty(t *testing.T, db *gorm.DB, itemCode string, branchID uint) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.Where("item_code = ?", itemCode).Take(&product).Error)

	var stock models.BranchStock
	require.NoError(t, db.Where("product_id = ? AND branch_id = ?", product.ID, branchID).Take(&stock).Error)
	return stock.Quantity
}

func totalStock(t *testing.T, db *gorm.DB, itemCode string) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.Where("item_code = ?", itemCode).Take(&product).Error)
	return product.TotalStock
}

// assertAggregate checks the standing invariant: the product aggregate
// equals the sum of its branch rows.
func assertAggregate(t *testing.T, db *gorm.DB, itemCode string) {
	t.Helper()

	var product models.Product
	require.NoError(t, db.Where("item_code = ?", itemCode).Take(&product).Error)

	var sum int64
	require.NoError(t, db.Model(&models.BranchStock{}).
		Where("product_id = ?", product.ID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error)

	require.Equal(t, int(sum), product.TotalStock, "aggregate stock diverged from branch rows for %s", itemCode)
}
