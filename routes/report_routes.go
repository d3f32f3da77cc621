package routes

import (
	"ledger-app/config"
	"ledger-app/controllers"
	"ledger-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReportRoutes(app *fiber.App, db *gorm.DB) {
	reportController := controllers.NewReportController(db)

	api := app.Group(config.MAIN_ROUTES+"/reports", middleware.AuthMiddleware)
	api.Get("/movements", reportController.GetMovements)
	api.Get("/movements/export", reportController.ExportMovements)
	api.Get("/low-stock", reportController.GetLowStock)
	api.Get("/valuation", reportController.GetValuation)
	api.Get("/stock-on-hand", reportController.GetStockOnHand)
}
