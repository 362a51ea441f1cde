package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleAdmin       = "ADMIN"
	RoleCashier     = "CASHIER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Manages catalog, customers, purchases and sales",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Records sales and looks up customers and stock",
	},
}

// RolePrivilegeCodes returns the privilege codes granted to a role at seed
// time. MASTER_ADMIN receives everything and is handled by the caller.
func RolePrivilegeCodes(roleCode string) []string {
	switch roleCode {
	case RoleAdmin:
		return []string{
			PrivCustomerView, PrivCustomerCreate, PrivCustomerUpdate, PrivCustomerDelete,
			PrivProductView, PrivProductCreate, PrivProductUpdate, PrivProductDelete,
			PrivPurchaseView, PrivPurchaseCreate,
			PrivSaleView, PrivSaleCreate,
			PrivDashboardView, PrivUserView,
		}
	case RoleCashier:
		return []string{
			PrivCustomerView, PrivCustomerCreate,
			PrivProductView,
			PrivSaleView, PrivSaleCreate,
		}
	}
	return nil
}
