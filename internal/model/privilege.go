package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "sale:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Privilege codes checked by the route middleware
const (
	PrivUserView            = "user:view"
	PrivUserCreate          = "user:create"
	PrivUserUpdate          = "user:update"
	PrivUserDelete          = "user:delete"
	PrivUserUpdatePrivilege = "user:update_privilege"

	PrivCustomerView   = "customer:view"
	PrivCustomerCreate = "customer:create"
	PrivCustomerUpdate = "customer:update"
	PrivCustomerDelete = "customer:delete"

	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivProductDelete = "product:delete"

	PrivPurchaseView   = "purchase:view"
	PrivPurchaseCreate = "purchase:create"

	PrivSaleView   = "sale:view"
	PrivSaleCreate = "sale:create"

	PrivDashboardView = "dashboard:view"
)

// DefaultPrivileges are seeded on startup
var DefaultPrivileges = []Privilege{
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	{Code: PrivUserUpdatePrivilege, Name: "Update User Privileges"},

	{Code: PrivCustomerView, Name: "View Customer"},
	{Code: PrivCustomerCreate, Name: "Create Customer"},
	{Code: PrivCustomerUpdate, Name: "Update Customer"},
	{Code: PrivCustomerDelete, Name: "Delete Customer"},

	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},

	{Code: PrivPurchaseView, Name: "View Purchase"},
	{Code: PrivPurchaseCreate, Name: "Record Purchase"},

	{Code: PrivSaleView, Name: "View Sale"},
	{Code: PrivSaleCreate, Name: "Record Sale"},

	{Code: PrivDashboardView, Name: "View Dashboard"},
}
