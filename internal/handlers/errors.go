package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/services"
	"github.com/gofiber/fiber/v2"
)

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Message: message, Code: code,
	})
}

func badBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, dto.CodeValidation, "Invalid request body")
}

func unauthorized(c *fiber.Ctx) error {
	return fail(c, fiber.StatusUnauthorized, dto.CodeUnauthorized, "Unauthorized")
}

// serviceError maps service sentinels to a status, a code and a message.
// Anything unknown is logged and reported as internal.
func serviceError(c *fiber.Ctx, err error) error {
	if ve, ok := apperr.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Code: dto.CodeValidation, Fields: ve.Fields,
		})
	}

	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return fail(c, fiber.StatusConflict, dto.CodeEmailTaken, err.Error())
	case errors.Is(err, apperr.ErrInvalidEmail):
		return fail(c, fiber.StatusBadRequest, dto.CodeInvalidEmail, err.Error())
	case errors.Is(err, apperr.ErrWeakPassword):
		return fail(c, fiber.StatusBadRequest, dto.CodeWeakPassword, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, dto.CodeInvalidCredentials, err.Error())
	case errors.Is(err, services.ErrInvalidToken):
		return fail(c, fiber.StatusUnauthorized, dto.CodeUnauthorized, err.Error())
	case errors.Is(err, services.ErrRecipeNotFound):
		return fail(c, fiber.StatusNotFound, dto.CodeNotFound, "Recipe not found")
	case errors.Is(err, services.ErrNotOwner):
		return fail(c, fiber.StatusForbidden, dto.CodeForbidden, "Only the author can change this recipe")
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", requestID(c),
		"error", err,
	)
	return fail(c, fiber.StatusInternalServerError, dto.CodeInternal, "Internal server error")
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
