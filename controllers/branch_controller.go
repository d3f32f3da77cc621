package controllers

import (
	"ledger-app/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BranchController struct {
	DB *gorm.DB
}

func NewBranchController(DB *gorm.DB) *BranchController {
	return &BranchController{DB: DB}
}

func (c *BranchController) CreateBranch(ctx *fiber.Ctx) error {
	var branch models.Branch
	if err := ctx.BodyParser(&branch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	validate := validator.New()
	if err := validate.Struct(branch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	branch.IsActive = true
	branch.CreatedBy = actorID(ctx)

	if err := c.DB.Create(&branch).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create branch",
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Branch created successfully",
		"data":    branch,
	})
}

func (c *BranchController) GetBranches(ctx *fiber.Ctx) error {
	var branches []models.Branch
	if err := c.DB.Where("is_active = ?", true).Order("id").Find(&branches).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get branches",
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    branches,
	})
}
