package controllers

import (
	"errors"
	"ledger-app/services"

	"github.com/gofiber/fiber/v2"
)

// serviceError renders a service-layer error with the matching HTTP
// status so every controller reports failures the same way.
func serviceError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var notFound *services.NotFoundError
	var invalidInput *services.InvalidInputError
	var insufficient *services.InsufficientStockError
	var transition *services.InvalidTransitionError

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.As(err, &notFound):
		status = fiber.StatusNotFound
	case errors.As(err, &invalidInput):
		status = fiber.StatusBadRequest
	case errors.As(err, &insufficient):
		status = fiber.StatusConflict
	case errors.As(err, &transition):
		status = fiber.StatusConflict
	}

	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}

func actorID(ctx *fiber.Ctx) int {
	userID, ok := ctx.Locals("userID").(float64)
	if !ok {
		return 0
	}
	return int(userID)
}
