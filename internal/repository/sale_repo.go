package repository

import (
	"context"
	"errors"
	"time"

	"go-sales-desk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleSummary is a sale header joined with the customer name.
// CustomerName is empty for anonymous sales.
type SaleSummary struct {
	ID           uuid.UUID  `json:"id"`
	SaleDate     time.Time  `json:"sale_date"`
	CustomerID   *uuid.UUID `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	TotalAmount  int64      `json:"total_amount"`
}

// SaleItemDetail is a sale line joined with the product name
type SaleItemDetail struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	PriceAtSale int64     `json:"price_at_sale"`
}

// Subtotal is quantity × price at sale
func (d SaleItemDetail) Subtotal() int64 {
	return int64(d.Quantity) * d.PriceAtSale
}

type SaleRepository interface {
	// CreateWithItems must run inside tx; each item insert fires the stock trigger
	CreateWithItems(tx *gorm.DB, sale *model.Sale, items []model.SaleItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	History(ctx context.Context, limit int) ([]SaleSummary, error)
	Items(ctx context.Context, saleID uuid.UUID) ([]SaleItemDetail, error)
	ByCustomer(ctx context.Context, customerID uuid.UUID) ([]SaleSummary, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) CreateWithItems(tx *gorm.DB, sale *model.Sale, items []model.SaleItem) error {
	if err := tx.Omit(clause.Associations).Create(sale).Error; err != nil {
		if isForeignKeyViolation(err) {
			return ErrCustomerNotFound
		}
		return err
	}

	for i := range items {
		items[i].SaleID = sale.ID
		items[i].CreatedBy = sale.CreatedBy
		items[i].UpdatedBy = sale.UpdatedBy
		if err := tx.Omit(clause.Associations).Create(&items[i]).Error; err != nil {
			switch {
			case isCheckViolation(err):
				return ErrInsufficientStock
			case isForeignKeyViolation(err):
				return ErrProductNotFound
			}
			return err
		}
	}
	sale.Items = items
	return nil
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.WithContext(ctx).Preload("Customer").First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("sales AS s").
		Select("s.id, s.sale_date, s.customer_id, COALESCE(c.name, '') AS customer_name, s.total_amount").
		Joins("LEFT JOIN customers c ON c.id = s.customer_id")
}

func (r *saleRepo) History(ctx context.Context, limit int) ([]SaleSummary, error) {
	var sales []SaleSummary
	err := r.summaries(ctx).Order("s.sale_date DESC").Limit(limit).Scan(&sales).Error
	return sales, err
}

func (r *saleRepo) Items(ctx context.Context, saleID uuid.UUID) ([]SaleItemDetail, error) {
	var items []SaleItemDetail
	err := r.db.WithContext(ctx).
		Table("sale_items AS si").
		Select("si.id, si.product_id, p.name AS product_name, si.quantity, si.price_at_sale").
		Joins("JOIN products p ON p.id = si.product_id").
		Where("si.sale_id = ?", saleID).
		Order("p.name ASC").
		Scan(&items).Error
	return items, err
}

func (r *saleRepo) ByCustomer(ctx context.Context, customerID uuid.UUID) ([]SaleSummary, error) {
	var sales []SaleSummary
	err := r.summaries(ctx).Where("s.customer_id = ?", customerID).Order("s.sale_date DESC").Scan(&sales).Error
	return sales, err
}
