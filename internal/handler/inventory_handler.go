package handler

import (
	"go-sales-desk/internal/model"
	"go-sales-desk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GetProducts lists the catalog. With any of q, category or stock set it
// runs a filtered search instead.
// GET /api/v1/products?q=&category=&stock=all|low|in_stock|out_of_stock
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	query, category, level := c.Query("q"), c.Query("category"), c.Query("stock")

	var (
		products []model.Product
		err      error
	)
	if query == "" && category == "" && level == "" {
		products, err = h.service.ListProducts(c.UserContext())
	} else {
		products, err = h.service.SearchProducts(c.UserContext(), query, category, model.StockLevel(level))
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c, "product")
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c, "product")
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// DELETE /api/v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c, "product")
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GET /api/v1/categories
func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

// POST /api/v1/purchases
func (h *InventoryHandler) CreatePurchase(c *fiber.Ctx) error {
	var req service.PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	purchase, err := h.service.RecordPurchase(c.UserContext(), &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Purchase recorded", "data": purchase})
}

// GET /api/v1/purchases?limit=100
func (h *InventoryHandler) GetPurchases(c *fiber.Ctx) error {
	records, err := h.service.PurchaseHistory(c.UserContext(), c.QueryInt("limit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(records)
}
