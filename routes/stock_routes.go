package routes

import (
	"ledger-app/config"
	"ledger-app/controllers"
	"ledger-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupStockRoutes(app *fiber.App, db *gorm.DB) {
	stockController := controllers.NewStockController(db)

	api := app.Group(config.MAIN_ROUTES+"/products", middleware.AuthMiddleware)
	api.Get("/", stockController.GetProducts)
	api.Post("/", stockController.CreateProduct)
	api.Get("/:item_code", stockController.GetProductBySKU)
	api.Delete("/:item_code", stockController.DeleteProduct)

	stockApi := app.Group(config.MAIN_ROUTES+"/stock", middleware.AuthMiddleware)
	stockApi.Post("/adjust", stockController.AdjustStock)
	stockApi.Post("/track-branch", stockController.TrackBranch)
}
