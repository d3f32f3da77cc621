package routes

import (
	"ledger-app/config"
	"ledger-app/controllers"
	"ledger-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupSaleRoutes(app *fiber.App, db *gorm.DB) {
	saleController := controllers.NewSaleController(db)

	api := app.Group(config.MAIN_ROUTES+"/sales", middleware.AuthMiddleware)
	api.Get("/", saleController.GetSales)
	api.Post("/", saleController.CreateSale)
	api.Get("/:sale_no", saleController.GetSale)
}
