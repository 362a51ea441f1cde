package handler

import (
	"go-sales-desk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	sale, err := h.service.RecordSale(c.UserContext(), &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

// GET /api/v1/sales?limit=100
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.SalesHistory(c.UserContext(), c.QueryInt("limit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sales)
}

// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c, "sale")
	}
	detail, err := h.service.SaleDetail(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(detail)
}

// GET /api/v1/sales/:id/receipt
func (h *SaleHandler) GetReceipt(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c, "sale")
	}
	receipt, err := h.service.Receipt(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(receipt)
}
