package model

// Product prices are int64 cents. QuantityInStock is only moved by the
// purchase and sale triggers after creation.
type Product struct {
	BaseModel
	Name            string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description     string `gorm:"type:text" json:"description"`
	Category        string `gorm:"type:varchar(100);index:idx_product_category" json:"category"`
	PurchasePrice   int64  `gorm:"not null;default:0;check:purchase_price >= 0" json:"purchase_price"`
	SellingPrice    int64  `gorm:"not null;default:0;check:selling_price >= 0" json:"selling_price"`
	QuantityInStock int    `gorm:"not null;default:0;check:quantity_in_stock >= 0" json:"quantity_in_stock"`
}

// StockLevel filters products by how much is left on the shelf
type StockLevel string

const (
	StockAll        StockLevel = "all"
	StockLow        StockLevel = "low"
	StockInStock    StockLevel = "in_stock"
	StockOutOfStock StockLevel = "out_of_stock"
)

// Valid reports whether l is a known stock level filter
func (l StockLevel) Valid() bool {
	switch l {
	case StockAll, StockLow, StockInStock, StockOutOfStock, "":
		return true
	}
	return false
}
