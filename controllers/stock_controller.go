package controllers

import (
	"errors"
	"ledger-app/models"
	"ledger-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StockController struct {
	DB      *gorm.DB
	service *services.StockService
}

func NewStockController(DB *gorm.DB) *StockController {
	return &StockController{DB: DB, service: services.NewStockService(DB)}
}

func (c *StockController) CreateProduct(ctx *fiber.Ctx) error {
	var req services.CreateProductRequest
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
	product, err := c.service.CreateProduct(req)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created successfully",
		"data":    product,
	})
}

func (c *StockController) GetProducts(ctx *fiber.Ctx) error {
	var products []models.Product
	if err := c.DB.Preload("BranchStocks").Where("is_active = ?", true).
		Order("item_code").Find(&products).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get products",
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    products,
	})
}

func (c *StockController) GetProductBySKU(ctx *fiber.Ctx) error {
	itemCode := ctx.Params("item_code")

	var product models.Product
	if err := c.DB.Preload("BranchStocks").Where("item_code = ?", itemCode).
		Take(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Product not found: " + itemCode,
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get product",
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

func (c *StockController) AdjustStock(ctx *fiber.Ctx) error {
	var req struct {
		ItemCode string `json:"item_code" validate:"required"`
		BranchID uint   `json:"branch_id" validate:"required"`
		Kind     string `json:"kind" validate:"required,oneof=add deduct adjustment"`
		Quantity int    `json:"quantity" validate:"gte=0"`
		Reason   string `json:"reason" validate:"required"`
	}
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

	product, err := c.service.Adjust(services.AdjustmentRequest{
		ItemCode: req.ItemCode,
		BranchID: req.BranchID,
		Kind:     req.Kind,
		Quantity: req.Quantity,
		Reason:   req.Reason,
		ActorID:  actorID(ctx),
	})
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stock adjusted successfully",
		"data":    product,
	})
}

func (c *StockController) TrackBranch(ctx *fiber.Ctx) error {
	var req struct {
		ItemCode      string `json:"item_code" validate:"required"`
		BranchID      uint   `json:"branch_id" validate:"required"`
		MinStockLevel int    `json:"min_stock_level" validate:"gte=0"`
		MaxStockLevel int    `json:"max_stock_level" validate:"gte=0"`
	}
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

	stock, err := c.service.TrackBranch(req.ItemCode, req.BranchID, req.MinStockLevel, req.MaxStockLevel, actorID(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Branch stock tracking started",
		"data":    stock,
	})
}

func (c *StockController) DeleteProduct(ctx *fiber.Ctx) error {
	itemCode := ctx.Params("item_code")

	if err := c.service.DeleteProduct(itemCode, actorID(ctx)); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Product deactivated successfully",
	})
}
