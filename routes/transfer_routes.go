package routes

import (
	"ledger-app/config"
	"ledger-app/controllers"
	"ledger-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupTransferRoutes(app *fiber.App, db *gorm.DB) {
	transferController := controllers.NewTransferController(db)

	api := app.Group(config.MAIN_ROUTES+"/transfers", middleware.AuthMiddleware)
	api.Get("/", transferController.GetTransfers)
	api.Post("/", transferController.CreateTransfer)
	api.Get("/:transfer_no", transferController.GetTransfer)
	api.Post("/:transfer_no/approve", transferController.ApproveTransfer)
	api.Post("/:transfer_no/ship", transferController.ShipTransfer)
	api.Post("/:transfer_no/receive", transferController.ReceiveTransfer)
	api.Post("/:transfer_no/cancel", transferController.CancelTransfer)
}
