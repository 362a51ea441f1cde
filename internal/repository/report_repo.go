package repository

import (
	"context"
	"time"

	"go-sales-desk/internal/model"

	"gorm.io/gorm"
)

// ProductSales is a product ranked by units sold
type ProductSales struct {
	ProductName       string `json:"product_name"`
	TotalQuantitySold int    `json:"total_quantity_sold"`
}

// DatedAmount is a raw (date, total) row used for monthly bucketing
type DatedAmount struct {
	Date   time.Time
	Amount int64
}

// DatedQuantity is a raw (date, quantity) row used for daily stock movement
type DatedQuantity struct {
	Date     time.Time
	Quantity int
}

// ReportRepository serves the dashboard. Date bucketing happens in Go so the
// same queries run unchanged on sqlite and postgres.
type ReportRepository interface {
	CountCustomers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountProductsBelow(ctx context.Context, threshold int) (int64, error)
	StockValuation(ctx context.Context) (int64, error)
	SalesTotalBetween(ctx context.Context, from, to time.Time) (int64, error)
	SalesSince(ctx context.Context, since time.Time) ([]DatedAmount, error)
	TopSellingProducts(ctx context.Context, limit int) ([]ProductSales, error)
	InboundSince(ctx context.Context, since time.Time) ([]DatedQuantity, error)
	OutboundSince(ctx context.Context, since time.Time) ([]DatedQuantity, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Count(&n).Error
	return n, err
}

func (r *reportRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *reportRepo) CountProductsBelow(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("quantity_in_stock < ?", threshold).
		Count(&n).Error
	return n, err
}

// StockValuation is Σ stock × purchase price, in cents
func (r *reportRepo) StockValuation(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("COALESCE(SUM(quantity_in_stock * purchase_price), 0)").
		Scan(&total).Error
	return total, err
}

// SalesTotalBetween sums sales with from <= sale_date < to
func (r *reportRepo) SalesTotalBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("sale_date >= ? AND sale_date < ?", from, to).
		Scan(&total).Error
	return total, err
}

func (r *reportRepo) SalesSince(ctx context.Context, since time.Time) ([]DatedAmount, error) {
	var rows []DatedAmount
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("sale_date AS date, total_amount AS amount").
		Where("sale_date >= ?", since).
		Order("sale_date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) TopSellingProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	var rows []ProductSales
	err := r.db.WithContext(ctx).
		Table("sale_items AS si").
		Select("p.name AS product_name, SUM(si.quantity) AS total_quantity_sold").
		Joins("JOIN products p ON p.id = si.product_id").
		Group("si.product_id, p.name").
		Order("total_quantity_sold DESC, p.name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) InboundSince(ctx context.Context, since time.Time) ([]DatedQuantity, error) {
	var rows []DatedQuantity
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("purchase_date AS date, quantity").
		Where("purchase_date >= ?", since).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) OutboundSince(ctx context.Context, since time.Time) ([]DatedQuantity, error) {
	var rows []DatedQuantity
	err := r.db.WithContext(ctx).
		Table("sale_items AS si").
		Select("s.sale_date AS date, si.quantity").
		Joins("JOIN sales s ON s.id = si.sale_id").
		Where("s.sale_date >= ?", since).
		Scan(&rows).Error
	return rows, err
}
