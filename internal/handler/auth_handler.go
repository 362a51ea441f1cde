package handler

import (
	"errors"

	"go-sales-desk/internal/middleware"
	"go-sales-desk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var creds service.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return invalidJSON(c)
	}

	session, err := h.service.Login(c.UserContext(), creds)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req service.PasswordChange
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if err := h.service.ChangePassword(c.UserContext(), req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// POST /api/v1/auth/validate-token
//
// Any failure, including a token for a deleted account, answers 401.
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token is required"})
	}

	session, err := h.service.ValidateToken(c.UserContext(), req.Token)
	if errors.Is(err, service.ErrUserNotFound) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(session)
}

// POST /api/v1/auth/heartbeat
func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	id := middleware.Current(c)
	if id == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.service.Heartbeat(c.UserContext(), id.UserID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Heartbeat received", "status": "online"})
}
