package handler

import (
	"strconv"

	"go-sales-desk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// positiveQuery returns the query param as int, or def when missing or invalid
func positiveQuery(c *fiber.Ctx, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// GetDashboardStats returns the summary cards
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.Summary(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetSalesTrend returns monthly sales totals
// Query params: months (default 12)
func (h *DashboardHandler) GetSalesTrend(c *fiber.Ctx) error {
	months := positiveQuery(c, "months", 12)
	data, err := h.service.MonthlySalesTrend(c.UserContext(), months)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sales trend"})
	}
	return c.JSON(fiber.Map{"period": months, "data": data})
}

// GetTopProducts returns best sellers by units sold
// Query params: limit (default 5)
func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	data, err := h.service.TopSellingProducts(c.UserContext(), positiveQuery(c, "limit", 5))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch top products"})
	}
	return c.JSON(data)
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := positiveQuery(c, "days", 7)
	data, err := h.service.StockMovement(c.UserContext(), days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}
	return c.JSON(fiber.Map{"period": days, "data": data})
}
