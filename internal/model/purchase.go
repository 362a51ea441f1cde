package model

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is a stock intake from a supplier. Inserting one raises the
// product's stock through the increase_stock_on_purchase trigger.
type Purchase struct {
	BaseModel
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index:idx_purchases_product_id" json:"product_id"`
	Product      *Product  `gorm:"constraint:OnDelete:CASCADE;" json:"product,omitempty"`
	Quantity     int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	PurchaseDate time.Time `gorm:"not null;index" json:"purchase_date"`
	CostPerUnit  int64     `gorm:"not null;check:cost_per_unit >= 0" json:"cost_per_unit"`
	Supplier     string    `gorm:"type:varchar(255)" json:"supplier"`
}
