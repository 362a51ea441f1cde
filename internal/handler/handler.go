package handler

import (
	"errors"

	"go-sales-desk/internal/events"
	"go-sales-desk/internal/middleware"
	"go-sales-desk/internal/repository"
	"go-sales-desk/internal/service"
	"go-sales-desk/pkg/jwt"
	"go-sales-desk/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actor converts the authenticated caller into the event/audit actor
func actor(c *fiber.Ctx) *events.Actor {
	id := middleware.Current(c)
	if id == nil {
		return nil
	}
	return &events.Actor{ID: id.UserID.String(), Name: id.Name, Email: id.Email}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func invalidID(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + what + " ID"})
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, validator.ErrValidation),
		errors.Is(err, service.ErrInvalidStockLevel),
		errors.Is(err, service.ErrWrongPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrSessionReplaced),
		errors.Is(err, service.ErrSessionTimeout),
		errors.Is(err, jwt.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrSaleNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoleNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrCustomerConflict),
		errors.Is(err, repository.ErrProductNameExists),
		errors.Is(err, service.ErrEmailExists):
		return fiber.StatusConflict
	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrProductHasSales),
		errors.Is(err, service.ErrEmptySale):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "Internal Server Error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
