package handler

import (
	"go-sales-desk/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// RoleHandler exposes the read-only access catalogue used by the user admin screen.
type RoleHandler struct {
	roles      repository.RoleRepository
	privileges repository.PrivilegeRepository
}

func NewRoleHandler(roles repository.RoleRepository, privileges repository.PrivilegeRepository) *RoleHandler {
	return &RoleHandler{roles: roles, privileges: privileges}
}

// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roles.FindAll(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(roles)
}

// GET /api/v1/privileges
func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.privileges.FindAll(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(privileges)
}
