package handler

import (
	"go-sales-desk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

// GET /api/v1/customers
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.ListCustomers(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customers)
}

// GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c, "customer")
	}
	customer, err := h.service.GetCustomer(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	customer, err := h.service.CreateCustomer(c.UserContext(), &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

// PUT /api/v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c, "customer")
	}
	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	customer, err := h.service.UpdateCustomer(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

// DELETE /api/v1/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c, "customer")
	}
	if err := h.service.DeleteCustomer(c.UserContext(), id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

// GET /api/v1/customers/:id/sales
func (h *CustomerHandler) GetCustomerSales(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c, "customer")
	}
	sales, err := h.service.CustomerSales(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sales)
}
