package repository

import (
	"context"
	"time"

	"go-sales-desk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseRecord is a purchase joined with its product name
type PurchaseRecord struct {
	ID           uuid.UUID `json:"id"`
	PurchaseDate time.Time `json:"purchase_date"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	CostPerUnit  int64     `json:"cost_per_unit"`
	Supplier     string    `json:"supplier"`
}

type PurchaseRepository interface {
	// Create inserts the purchase; the stock trigger raises the product stock
	Create(ctx context.Context, purchase *model.Purchase) error
	History(ctx context.Context, limit int) ([]PurchaseRecord, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) Create(ctx context.Context, purchase *model.Purchase) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(purchase).Error
	if err != nil && isForeignKeyViolation(err) {
		return ErrProductNotFound
	}
	return err
}

func (r *purchaseRepo) History(ctx context.Context, limit int) ([]PurchaseRecord, error) {
	var records []PurchaseRecord
	err := r.db.WithContext(ctx).
		Table("purchases AS p").
		Select("p.id, p.purchase_date, p.product_id, pr.name AS product_name, p.quantity, p.cost_per_unit, p.supplier").
		Joins("JOIN products pr ON pr.id = p.product_id").
		Order("p.purchase_date DESC").
		Limit(limit).
		Scan(&records).Error
	return records, err
}
