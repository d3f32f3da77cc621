// database/migrate.go
package database

import (
	"ledger-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Customer{},
		&models.Product{},
		&models.BranchStock{},
		&models.StockMovement{},
		&models.StockTransfer{},
		&models.StockTransferItem{},
		&models.Sale{},
		&models.SaleItem{},
	)
}
