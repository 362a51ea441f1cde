package handler

import (
	"go-sales-desk/internal/middleware"
	"go-sales-desk/internal/model"

	"github.com/gofiber/fiber/v2"
)

type Routes struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Roles     *RoleHandler
	Customers *CustomerHandler
	Inventory *InventoryHandler
	Sales     *SaleHandler
	Dashboard *DashboardHandler
	UserRepo  middleware.UserFinder
}

// Register mounts the REST API under /api/v1
func (r Routes) Register(app *fiber.App) {
	api := app.Group("/api/v1")
	priv := middleware.RequirePrivilege

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", r.Auth.Login)
	auth.Post("/reset-password", r.Auth.ResetPassword)
	auth.Post("/validate-token", r.Auth.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(r.UserRepo), r.Auth.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(r.UserRepo))

	protected.Get("/dashboard/stats", priv(model.PrivDashboardView), r.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/sales-trend", priv(model.PrivDashboardView), r.Dashboard.GetSalesTrend)
	protected.Get("/dashboard/top-products", priv(model.PrivDashboardView), r.Dashboard.GetTopProducts)
	protected.Get("/dashboard/stock-movement", priv(model.PrivDashboardView), r.Dashboard.GetStockMovement)

	protected.Get("/customers", priv(model.PrivCustomerView), r.Customers.GetCustomers)
	protected.Get("/customers/:id", priv(model.PrivCustomerView), r.Customers.GetCustomer)
	protected.Get("/customers/:id/sales", middleware.RequireAnyPrivilege(model.PrivCustomerView, model.PrivSaleView), r.Customers.GetCustomerSales)
	protected.Post("/customers", priv(model.PrivCustomerCreate), r.Customers.CreateCustomer)
	protected.Put("/customers/:id", priv(model.PrivCustomerUpdate), r.Customers.UpdateCustomer)
	protected.Delete("/customers/:id", priv(model.PrivCustomerDelete), r.Customers.DeleteCustomer)

	protected.Get("/products", priv(model.PrivProductView), r.Inventory.GetProducts)
	protected.Get("/products/:id", priv(model.PrivProductView), r.Inventory.GetProduct)
	protected.Post("/products", priv(model.PrivProductCreate), r.Inventory.CreateProduct)
	protected.Put("/products/:id", priv(model.PrivProductUpdate), r.Inventory.UpdateProduct)
	protected.Delete("/products/:id", priv(model.PrivProductDelete), r.Inventory.DeleteProduct)
	protected.Get("/categories", priv(model.PrivProductView), r.Inventory.GetCategories)

	protected.Get("/purchases", priv(model.PrivPurchaseView), r.Inventory.GetPurchases)
	protected.Post("/purchases", priv(model.PrivPurchaseCreate), r.Inventory.CreatePurchase)

	protected.Get("/sales", priv(model.PrivSaleView), r.Sales.GetSales)
	protected.Get("/sales/:id", priv(model.PrivSaleView), r.Sales.GetSale)
	protected.Get("/sales/:id/receipt", priv(model.PrivSaleView), r.Sales.GetReceipt)
	protected.Post("/sales", priv(model.PrivSaleCreate), r.Sales.CreateSale)

	protected.Get("/users", priv(model.PrivUserView), r.Users.GetUsers)
	protected.Get("/users/:id", priv(model.PrivUserView), r.Users.GetUser)
	protected.Post("/users", priv(model.PrivUserCreate), r.Users.CreateUser)
	protected.Put("/users/:id", priv(model.PrivUserUpdate), r.Users.UpdateUser)
	protected.Delete("/users/:id", priv(model.PrivUserDelete), r.Users.DeleteUser)
	protected.Put("/users/:id/privileges", priv(model.PrivUserUpdatePrivilege), r.Users.UpdateUserPrivileges)

	protected.Get("/roles", r.Roles.GetRoles)
	protected.Get("/privileges", r.Roles.GetPrivileges)
}
