package repository

import (
	"context"
	"errors"
	"strings"

	"go-sales-desk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows a product search. Threshold is used by StockLow.
type ProductFilter struct {
	Query     string
	Category  string
	Level     model.StockLevel
	Threshold int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	// LockByIDs loads products inside tx, row-locked where the engine supports it
	LockByIDs(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrProductNameExists
		}
		return err
	}
	return nil
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Update never touches quantity_in_stock; only purchases and sales move stock
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":           product.Name,
			"description":    product.Description,
			"category":       product.Category,
			"purchase_price": product.PurchasePrice,
			"selling_price":  product.SellingPrice,
			"updated_by":     product.UpdatedBy,
		})
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return ErrProductNameExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return ErrProductHasSales
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepo) Search(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	switch filter.Level {
	case model.StockLow:
		query = query.Where("quantity_in_stock <= ?", filter.Threshold)
	case model.StockInStock:
		query = query.Where("quantity_in_stock > 0")
	case model.StockOutOfStock:
		query = query.Where("quantity_in_stock = 0")
	}

	var products []model.Product
	err := query.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Distinct("category").
		Where("category IS NOT NULL AND category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *productRepo) LockByIDs(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	query := tx.Model(&model.Product{})
	if tx.Dialector.Name() != "sqlite" {
		// sqlite locks the whole database for the write transaction instead
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var products []model.Product
	// fixed lock order keeps concurrent multi-product sales from deadlocking
	if err := query.Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}
