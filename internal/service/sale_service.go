package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go-sales-desk/internal/events"
	"go-sales-desk/internal/model"
	"go-sales-desk/internal/repository"
	"go-sales-desk/pkg/money"
	"go-sales-desk/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleLine is one cart line. PriceAtSale overrides the product's current
// selling price when set.
type SaleLine struct {
	ProductID   uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity    int       `json:"quantity" validate:"gt=0,max=1000000"`
	PriceAtSale *int64    `json:"price_at_sale,omitempty" validate:"omitempty,gte=0,max=100000000000"`
}

type SaleRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
	SaleDate   *time.Time `json:"sale_date"`
	Items      []SaleLine `json:"items" validate:"dive"`
}

// SaleDetail is a sale header with its lines
type SaleDetail struct {
	Sale  *model.Sale                 `json:"sale"`
	Items []repository.SaleItemDetail `json:"items"`
}

type SaleRecorded struct {
	SaleID      uuid.UUID     `json:"sale_id"`
	CustomerID  *uuid.UUID    `json:"customer_id,omitempty"`
	TotalAmount int64         `json:"total_amount"`
	Items       []StockUpdate `json:"items"`
}

type LowStock struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
}

type SaleService interface {
	RecordSale(ctx context.Context, req *SaleRequest, actor *events.Actor) (*model.Sale, error)
	SalesHistory(ctx context.Context, limit int) ([]repository.SaleSummary, error)
	SaleDetail(ctx context.Context, id uuid.UUID) (*SaleDetail, error)
	Receipt(ctx context.Context, id uuid.UUID) (string, error)
}

type saleService struct {
	db                *gorm.DB
	products          repository.ProductRepository
	customers         repository.CustomerRepository
	sales             repository.SaleRepository
	lowStockThreshold int
	currencySymbol    string
	deps              Deps
}

type SaleOptions struct {
	LowStockThreshold int
	CurrencySymbol    string
}

func NewSaleService(
	db *gorm.DB,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	sales repository.SaleRepository,
	opts SaleOptions,
	deps Deps,
) SaleService {
	return &saleService{
		db:                db,
		products:          products,
		customers:         customers,
		sales:             sales,
		lowStockThreshold: opts.LowStockThreshold,
		currencySymbol:    opts.CurrencySymbol,
		deps:              deps.withDefaults(),
	}
}

// mergeLines sums quantities of lines for the same product, keeping the
// first line's position and price override. Lines must already be validated.
func mergeLines(lines []SaleLine) ([]SaleLine, error) {
	merged := make([]SaleLine, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			if merged[i].Quantity > MaxQuantity-l.Quantity {
				return nil, fmt.Errorf("%w: quantity for product %s exceeds %d", validator.ErrValidation, l.ProductID, MaxQuantity)
			}
			merged[i].Quantity += l.Quantity
			if merged[i].PriceAtSale == nil {
				merged[i].PriceAtSale = l.PriceAtSale
			}
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged, nil
}

// RecordSale writes the header and every line in one transaction. Stock is
// decremented by the sale_items trigger; any failure rolls back all of it.
func (s *saleService) RecordSale(ctx context.Context, req *SaleRequest, actor *events.Actor) (*model.Sale, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, ErrEmptySale
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}

	sale := &model.Sale{
		CustomerID: req.CustomerID,
		SaleDate:   time.Now().UTC(),
	}
	if req.SaleDate != nil && !req.SaleDate.IsZero() {
		sale.SaleDate = req.SaleDate.UTC()
	}
	sale.CreatedBy = actorID(actor)
	sale.UpdatedBy = actorID(actor)

	var stocked map[uuid.UUID]model.Product
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if sale.CustomerID != nil {
			if err := tx.Select("id").First(&model.Customer{}, "id = ?", *sale.CustomerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return repository.ErrCustomerNotFound
				}
				return err
			}
		}

		var err error
		stocked, err = s.products.LockByIDs(tx, ids)
		if err != nil {
			return err
		}

		items := make([]model.SaleItem, 0, len(lines))
		var total int64
		for _, l := range lines {
			product, ok := stocked[l.ProductID]
			if !ok {
				return fmt.Errorf("%w: %s", repository.ErrProductNotFound, l.ProductID)
			}
			if l.Quantity > product.QuantityInStock {
				return fmt.Errorf("%w for '%s': requested %d, available %d",
					repository.ErrInsufficientStock, product.Name, l.Quantity, product.QuantityInStock)
			}

			price := product.SellingPrice
			if l.PriceAtSale != nil {
				price = *l.PriceAtSale
			}
			items = append(items, model.SaleItem{
				ProductID:   l.ProductID,
				Quantity:    l.Quantity,
				PriceAtSale: price,
			})
			line, err := money.LineTotal(l.Quantity, price)
			if err == nil {
				total, err = money.Add(total, line)
			}
			if err != nil {
				return fmt.Errorf("%w: sale total out of range", validator.ErrValidation)
			}
		}

		sale.TotalAmount = total
		return s.sales.CreateWithItems(tx, sale, items)
	})
	if err != nil {
		return nil, err
	}

	s.afterSale(ctx, sale, stocked, actor)
	return sale, nil
}

func (s *saleService) afterSale(ctx context.Context, sale *model.Sale, before map[uuid.UUID]model.Product, actor *events.Actor) {
	units := 0
	updates := make([]StockUpdate, 0, len(sale.Items))
	var low []LowStock
	for _, item := range sale.Items {
		p := before[item.ProductID]
		remaining := p.QuantityInStock - item.Quantity
		units += item.Quantity
		updates = append(updates, StockUpdate{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			NewStock:  remaining,
		})
		if p.QuantityInStock >= s.lowStockThreshold && remaining < s.lowStockThreshold {
			low = append(low, LowStock{ProductID: p.ID, Name: p.Name, Stock: remaining, Threshold: s.lowStockThreshold})
		}
	}

	s.deps.Metrics.ObserveSale(sale.TotalAmount, units)
	s.deps.Metrics.ObserveLowStock(len(low))
	s.deps.invalidateDashboard(ctx)

	s.deps.notify(ctx, events.New(events.SaleRecorded, SaleRecorded{
		SaleID:      sale.ID,
		CustomerID:  sale.CustomerID,
		TotalAmount: sale.TotalAmount,
		Items:       updates,
	}, actor, fmt.Sprintf("%s recorded a sale of %s", actorName(actor), money.Format(sale.TotalAmount, s.currencySymbol))))

	for _, l := range low {
		s.deps.notify(ctx, events.New(events.StockLow, l, actor,
			fmt.Sprintf("'%s' is running low (%d left)", l.Name, l.Stock)))
	}
}

func (s *saleService) SalesHistory(ctx context.Context, limit int) ([]repository.SaleSummary, error) {
	return s.sales.History(ctx, historyLimit(limit))
}

func (s *saleService) SaleDetail(ctx context.Context, id uuid.UUID) (*SaleDetail, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.sales.Items(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleDetail{Sale: sale, Items: items}, nil
}

const receiptWidth = 40

// Receipt renders a fixed-width text ticket for printing
func (s *saleService) Receipt(ctx context.Context, id uuid.UUID) (string, error) {
	detail, err := s.SaleDetail(ctx, id)
	if err != nil {
		return "", err
	}
	sale := detail.Sale
	rule := strings.Repeat("-", receiptWidth)

	var b strings.Builder
	b.WriteString("--- SALE RECEIPT ---\n\n")
	fmt.Fprintf(&b, "Sale ID: %s\n", sale.ID)
	fmt.Fprintf(&b, "Date: %s\n", sale.SaleDate.Format("2006-01-02 15:04:05"))

	if c := sale.Customer; c != nil {
		fmt.Fprintf(&b, "Customer: %s\n", c.Name)
		if c.Address != "" {
			fmt.Fprintf(&b, "Address: %s\n", c.Address)
		}
		if c.Phone != nil {
			fmt.Fprintf(&b, "Phone: %s\n", *c.Phone)
		}
	} else {
		b.WriteString("Customer: Anonymous\n")
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-20s %3s %8s %8s\n", "Product", "Qty", "Price", "Total")
	b.WriteString(rule + "\n")
	for _, item := range detail.Items {
		fmt.Fprintf(&b, "%-20s %3d %8s %8s\n",
			truncate(item.ProductName, 20), item.Quantity,
			money.Amount(item.PriceAtSale), money.Amount(item.Subtotal()))
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%32s %s\n", "TOTAL:", money.Format(sale.TotalAmount, s.currencySymbol))
	b.WriteString("\n--- Thank you for your visit! ---\n")
	return b.String(), nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
