package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-sales-desk/internal/cache"
	"go-sales-desk/internal/model"
	"go-sales-desk/internal/repository"
	"go-sales-desk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	raw  []byte
	sets int
}

func (c *memoryCache) Get(_ context.Context, dest interface{}) error {
	if c.raw == nil {
		return cache.ErrMiss
	}
	return json.Unmarshal(c.raw, dest)
}

func (c *memoryCache) Set(_ context.Context, v interface{}) error {
	c.sets++
	var err error
	c.raw, err = json.Marshal(v)
	return err
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.raw = nil
	return nil
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDashboardSummaryUsesCache(t *testing.T) {
	db := testutil.NewDB(t)
	mem := &memoryCache{}
	deps := Deps{Cache: mem}

	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	sales := NewSaleService(db, productRepo, customerRepo, saleRepo, SaleOptions{LowStockThreshold: 5}, deps)
	dash := NewDashboardService(repository.NewReportRepo(db), 5, deps)

	testutil.CreateCustomer(t, db, "Alice")
	// purchase prices are half the selling price: 100 and 200
	pen := testutil.CreateProduct(t, db, "Pen", 200, 10)
	testutil.CreateProduct(t, db, "Ink", 400, 3)

	ctx := context.Background()
	summary, err := dash.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.CustomerCount)
	assert.Equal(t, int64(2), summary.ProductCount)
	assert.Equal(t, int64(1), summary.LowStockCount)
	assert.Equal(t, int64(10*100+3*200), summary.StockValue)
	assert.Zero(t, summary.MonthSalesTotal)
	assert.Equal(t, 1, mem.sets)

	_, err = dash.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, mem.sets, "second read is served from cache")

	_, err = sales.RecordSale(ctx, &SaleRequest{Items: []SaleLine{{ProductID: pen.ID, Quantity: 6}}}, nil)
	require.NoError(t, err)

	summary, err = dash.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, mem.sets, "a sale invalidates the cached summary")
	assert.Equal(t, int64(1200), summary.MonthSalesTotal)
	assert.Equal(t, int64(2), summary.LowStockCount)
}

func TestMonthlySalesTrendAndTopProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dash := f.dashboard.(*dashboardService)
	dash.now = fixedNow(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	pen := testutil.CreateProduct(t, f.db, "Pen", 100, 100)
	book := testutil.CreateProduct(t, f.db, "Book", 1000, 100)

	record := func(when time.Time, lines ...SaleLine) {
		_, err := f.sales.RecordSale(ctx, &SaleRequest{SaleDate: &when, Items: lines}, nil)
		require.NoError(t, err)
	}
	record(time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC), SaleLine{ProductID: book.ID, Quantity: 9})
	record(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), SaleLine{ProductID: pen.ID, Quantity: 2})
	record(time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC), SaleLine{ProductID: book.ID, Quantity: 1})
	record(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), SaleLine{ProductID: pen.ID, Quantity: 5})

	trend, err := f.dashboard.MonthlySalesTrend(ctx, 6)
	require.NoError(t, err)
	require.Len(t, trend, 6)
	assert.Equal(t, MonthlySales{Month: "2024-01", Total: 1200}, trend[0])
	assert.Equal(t, MonthlySales{Month: "2024-03", Total: 0}, trend[2])
	assert.Equal(t, MonthlySales{Month: "2024-06", Total: 500}, trend[5])

	top, err := f.dashboard.TopSellingProducts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, repository.ProductSales{ProductName: "Book", TotalQuantitySold: 10}, top[0])
	assert.Equal(t, repository.ProductSales{ProductName: "Pen", TotalQuantitySold: 7}, top[1])
}

func TestStockMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dash := f.dashboard.(*dashboardService)
	dash.now = fixedNow(time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC))

	p := testutil.CreateProduct(t, f.db, "Pen", 100, 0)

	in := time.Date(2024, 6, 13, 8, 0, 0, 0, time.UTC)
	_, err := f.inventory.RecordPurchase(ctx, &PurchaseRequest{ProductID: p.ID, Quantity: 20, PurchaseDate: &in}, nil)
	require.NoError(t, err)

	old := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Create(&model.Purchase{ProductID: p.ID, Quantity: 1, PurchaseDate: old}).Error)

	out := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	_, err = f.sales.RecordSale(ctx, &SaleRequest{SaleDate: &out, Items: []SaleLine{{ProductID: p.ID, Quantity: 4}}}, nil)
	require.NoError(t, err)

	movement, err := f.dashboard.StockMovement(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []StockMovement{
		{Date: "2024-06-13", Inbound: 20},
		{Date: "2024-06-14"},
		{Date: "2024-06-15", Outbound: 4},
	}, movement)
}
