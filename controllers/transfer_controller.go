package controllers

import (
	"ledger-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TransferController struct {
	DB      *gorm.DB
	service *services.TransferService
}

func NewTransferController(DB *gorm.DB) *TransferController {
	return &TransferController{DB: DB, service: services.NewTransferService(DB)}
}

func (c *TransferController) CreateTransfer(ctx *fiber.Ctx) error {
	var req services.CreateTransferRequest
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
	transfer, err := c.service.CreateTransfer(req)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Transfer requested successfully",
		"data":    transfer,
	})
}

func (c *TransferController) ApproveTransfer(ctx *fiber.Ctx) error {
	transfer, err := c.service.Approve(ctx.Params("transfer_no"), actorID(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Transfer approved",
		"data":    transfer,
	})
}

func (c *TransferController) ShipTransfer(ctx *fiber.Ctx) error {
	transfer, err := c.service.Ship(ctx.Params("transfer_no"), actorID(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Transfer shipped",
		"data":    transfer,
	})
}

func (c *TransferController) ReceiveTransfer(ctx *fiber.Ctx) error {
	transfer, err := c.service.Receive(ctx.Params("transfer_no"), actorID(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Transfer received",
		"data":    transfer,
	})
}

func (c *TransferController) CancelTransfer(ctx *fiber.Ctx) error {
	var req struct {
		Reason string `json:"reason" validate:"required"`
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

	transfer, err := c.service.Cancel(ctx.Params("transfer_no"), req.Reason, actorID(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Transfer cancelled",
		"data":    transfer,
	})
}

func (c *TransferController) GetTransfer(ctx *fiber.Ctx) error {
	transfer, err := c.service.GetTransfer(ctx.Params("transfer_no"))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    transfer,
	})
}

func (c *TransferController) GetTransfers(ctx *fiber.Ctx) error {
	status := ctx.Query("status")
	branchID := uint(ctx.QueryInt("branch_id"))
	limit := ctx.QueryInt("limit")

	transfers, err := c.service.ListTransfers(status, branchID, limit)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    transfers,
	})
}
