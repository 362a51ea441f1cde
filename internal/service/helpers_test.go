package service

import (
	"context"
	"sync"
	"testing"

	"go-sales-desk/internal/events"
	"go-sales-desk/internal/repository"
	"go-sales-desk/internal/testutil"

	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) ofType(t string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	pub       *recordingPublisher
	customers CustomerService
	inventory InventoryService
	sales     SaleService
	dashboard DashboardService
}

var cashier = &events.Actor{ID: "cashier-1", Name: "Cashier"}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	pub := &recordingPublisher{}
	deps := Deps{Publisher: pub}

	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	return &fixture{
		db:        db,
		pub:       pub,
		customers: NewCustomerService(customerRepo, saleRepo, deps),
		inventory: NewInventoryService(productRepo, repository.NewPurchaseRepo(db), 5, deps),
		sales: NewSaleService(db, productRepo, customerRepo, saleRepo,
			SaleOptions{LowStockThreshold: 5, CurrencySymbol: "€"}, deps),
		dashboard: NewDashboardService(repository.NewReportRepo(db), 5, deps),
	}
}

func int64Ptr(v int64) *int64 { return &v }
