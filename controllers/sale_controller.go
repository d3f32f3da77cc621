package controllers

import (
	"ledger-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SaleController struct {
	DB      *gorm.DB
	service *services.SaleService
}

func NewSaleController(DB *gorm.DB) *SaleController {
	return &SaleController{DB: DB, service: services.NewSaleService(DB)}
}

func (c *SaleController) CreateSale(ctx *fiber.Ctx) error {
	var req services.CreateSaleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	req.ActorID = actorID(ctx)
	sale, err := c.service.CreateSale(req)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Sale recorded successfully",
		"data":    sale,
	})
}

func (c *SaleController) GetSale(ctx *fiber.Ctx) error {
	sale, err := c.service.GetSale(ctx.Params("sale_no"))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    sale,
	})
}

func (c *SaleController) GetSales(ctx *fiber.Ctx) error {
	branchID := uint(ctx.QueryInt("branch_id"))
	limit := ctx.QueryInt("limit")

	sales, err := c.service.ListSales(branchID, limit)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    sales,
	})
}
