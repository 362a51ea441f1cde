package model

// Customer is a buyer. Phone and email are optional but unique when set,
// so they are stored as NULL rather than empty strings.
type Customer struct {
	BaseModel
	Name    string  `gorm:"type:varchar(255);not null;index:idx_customer_name" json:"name"`
	Address string  `gorm:"type:text" json:"address"`
	Phone   *string `gorm:"type:varchar(30);uniqueIndex" json:"phone"`
	Email   *string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
}
