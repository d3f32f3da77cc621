package main

import (
	"fmt"
	"ledger-app/config"
	"ledger-app/controllers/idgen"
	"ledger-app/database"
	"ledger-app/routes"
	"log"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupBranchRoutes(app, db)
	routes.SetupStockRoutes(app, db)
	routes.SetupSaleRoutes(app, db)
	routes.SetupTransferRoutes(app, db)
	routes.SetupReportRoutes(app, db)

	port := config.APP_PORT
	fmt.Println("🚀 Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
