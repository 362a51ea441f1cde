package model

import (
	"time"

	"github.com/google/uuid"
)

// Sale is the header of a recorded sale. CustomerID is nil for anonymous
// sales and is reset to NULL when the customer is deleted.
type Sale struct {
	BaseModel
	CustomerID  *uuid.UUID `gorm:"type:uuid;index:idx_sales_customer_id" json:"customer_id"`
	Customer    *Customer  `gorm:"constraint:OnDelete:SET NULL;" json:"customer,omitempty"`
	SaleDate    time.Time  `gorm:"not null;index" json:"sale_date"`
	TotalAmount int64      `gorm:"not null;check:total_amount >= 0" json:"total_amount"`
	Items       []SaleItem `gorm:"constraint:OnDelete:CASCADE;" json:"items,omitempty"`
}

// SaleItem is one line of a sale. Inserting one lowers the product's stock
// through the decrease_stock_on_sale trigger.
type SaleItem struct {
	BaseModel
	SaleID      uuid.UUID `gorm:"type:uuid;not null;index:idx_saleitems_sale_id" json:"sale_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index:idx_saleitems_product_id" json:"product_id"`
	Product     *Product  `gorm:"constraint:OnDelete:RESTRICT;" json:"product,omitempty"`
	Quantity    int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceAtSale int64     `gorm:"not null;check:price_at_sale >= 0" json:"price_at_sale"`
}

// Subtotal is quantity × price at sale, in cents
func (i SaleItem) Subtotal() int64 {
	return int64(i.Quantity) * i.PriceAtSale
}
