package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-sales-desk/internal/events"
	"go-sales-desk/internal/model"
	"go-sales-desk/internal/repository"
	"go-sales-desk/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductRequest struct {
	Name          string `json:"name" validate:"notblank,max=255"`
	Description   string `json:"description"`
	Category      string `json:"category" validate:"max=100"`
	PurchasePrice int64  `json:"purchase_price" validate:"gte=0,max=100000000000"`
	SellingPrice  int64  `json:"selling_price" validate:"gte=0,max=100000000000"`
	// InitialStock is only read on creation
	InitialStock int `json:"initial_stock" validate:"gte=0,max=1000000"`
}

type PurchaseRequest struct {
	ProductID    uuid.UUID  `json:"product_id" validate:"uuid_required"`
	Quantity     int        `json:"quantity" validate:"gt=0,max=1000000"`
	CostPerUnit  int64      `json:"cost_per_unit" validate:"gte=0,max=100000000000"`
	Supplier     string     `json:"supplier" validate:"max=255"`
	PurchaseDate *time.Time `json:"purchase_date"`
}

// StockUpdate is the payload broadcast whenever a product's stock moves
type StockUpdate struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	NewStock  int       `json:"new_stock"`
}

type InventoryService interface {
	CreateProduct(ctx context.Context, req *ProductRequest, actor *events.Actor) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor *events.Actor) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor *events.Actor) error
	SearchProducts(ctx context.Context, query, category string, level model.StockLevel) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	RecordPurchase(ctx context.Context, req *PurchaseRequest, actor *events.Actor) (*model.Purchase, error)
	PurchaseHistory(ctx context.Context, limit int) ([]repository.PurchaseRecord, error)
}

type inventoryService struct {
	products          repository.ProductRepository
	purchases         repository.PurchaseRepository
	lowStockThreshold int
	deps              Deps
}

func NewInventoryService(products repository.ProductRepository, purchases repository.PurchaseRepository, lowStockThreshold int, deps Deps) InventoryService {
	return &inventoryService{
		products:          products,
		purchases:         purchases,
		lowStockThreshold: lowStockThreshold,
		deps:              deps.withDefaults(),
	}
}

func (r *ProductRequest) apply(p *model.Product) {
	p.Name = strings.TrimSpace(r.Name)
	p.Description = strings.TrimSpace(r.Description)
	p.Category = strings.TrimSpace(r.Category)
	p.PurchasePrice = r.PurchasePrice
	p.SellingPrice = r.SellingPrice
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *ProductRequest, actor *events.Actor) (*model.Product, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	product := &model.Product{QuantityInStock: req.InitialStock}
	req.apply(product)
	product.CreatedBy = actorID(actor)
	product.UpdatedBy = actorID(actor)

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.deps.invalidateDashboard(ctx)
	s.deps.notify(ctx, events.New(events.ProductCreated, product, actor,
		fmt.Sprintf("%s created product '%s'", actorName(actor), product.Name)))
	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.products.FindAll(ctx)
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor *events.Actor) (*model.Product, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	product := &model.Product{}
	product.ID = id
	req.apply(product)
	product.UpdatedBy = actorID(actor)

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	updated, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.deps.invalidateDashboard(ctx)
	s.deps.notify(ctx, events.New(events.ProductUpdated, updated, actor,
		fmt.Sprintf("%s updated product '%s'", actorName(actor), updated.Name)))
	return updated, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, actor *events.Actor) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.deps.invalidateDashboard(ctx)
	s.deps.notify(ctx, events.New(events.ProductDeleted, map[string]string{"id": id.String()}, actor,
		fmt.Sprintf("%s deleted product '%s'", actorName(actor), product.Name)))
	return nil
}

func (s *inventoryService) SearchProducts(ctx context.Context, query, category string, level model.StockLevel) ([]model.Product, error) {
	if !level.Valid() {
		return nil, ErrInvalidStockLevel
	}
	return s.products.Search(ctx, repository.ProductFilter{
		Query:     query,
		Category:  strings.TrimSpace(category),
		Level:     level,
		Threshold: s.lowStockThreshold,
	})
}

func (s *inventoryService) ListCategories(ctx context.Context) ([]string, error) {
	return s.products.Categories(ctx)
}

// RecordPurchase inserts the purchase; the database trigger raises the stock
func (s *inventoryService) RecordPurchase(ctx context.Context, req *PurchaseRequest, actor *events.Actor) (*model.Purchase, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	purchase := &model.Purchase{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		CostPerUnit:  req.CostPerUnit,
		Supplier:     strings.TrimSpace(req.Supplier),
		PurchaseDate: time.Now().UTC(),
	}
	if req.PurchaseDate != nil && !req.PurchaseDate.IsZero() {
		purchase.PurchaseDate = req.PurchaseDate.UTC()
	}
	purchase.CreatedBy = actorID(actor)
	purchase.UpdatedBy = actorID(actor)

	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}

	s.deps.Metrics.ObservePurchase()
	s.deps.invalidateDashboard(ctx)

	product, err := s.products.FindByID(ctx, purchase.ProductID)
	if err != nil {
		// the purchase is committed, only the notification is lost
		s.deps.Log.Warn("purchase recorded but product reload failed", zap.Error(err))
		return purchase, nil
	}
	s.deps.notify(ctx, events.New(events.PurchaseRecorded, StockUpdate{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  purchase.Quantity,
		NewStock:  product.QuantityInStock,
	}, actor, fmt.Sprintf("%s received %d units of '%s'", actorName(actor), purchase.Quantity, product.Name)))
	return purchase, nil
}

func (s *inventoryService) PurchaseHistory(ctx context.Context, limit int) ([]repository.PurchaseRecord, error) {
	return s.purchases.History(ctx, historyLimit(limit))
}
