package routes

import (
	"ledger-app/config"
	"ledger-app/controllers"
	"ledger-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupBranchRoutes(app *fiber.App, db *gorm.DB) {
	branchController := controllers.NewBranchController(db)

	api := app.Group(config.MAIN_ROUTES+"/branches", middleware.AuthMiddleware)
	api.Get("/", branchController.GetBranches)
	api.Post("/", branchController.CreateBranch)
}
