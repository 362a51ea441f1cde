package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"go-sales-desk/internal/events"
	"go-sales-desk/internal/model"
	"go-sales-desk/internal/repository"
	"go-sales-desk/internal/testutil"
	"go-sales-desk/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countSales(t *testing.T, f *fixture) (sales, items int64) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.Sale{}).Count(&sales).Error)
	require.NoError(t, f.db.Model(&model.SaleItem{}).Count(&items).Error)
	return sales, items
}

func TestRecordSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := testutil.CreateCustomer(t, f.db, "Alice")
	pen := testutil.CreateProduct(t, f.db, "Pen", 150, 10)
	book := testutil.CreateProduct(t, f.db, "Book", 1200, 6)

	sale, err := f.sales.RecordSale(ctx, &SaleRequest{
		CustomerID: &customer.ID,
		Items: []SaleLine{
			{ProductID: pen.ID, Quantity: 3},
			{ProductID: book.ID, Quantity: 2, PriceAtSale: int64Ptr(1000)},
		},
	}, cashier)
	require.NoError(t, err)

	assert.Equal(t, int64(3*150+2*1000), sale.TotalAmount)
	assert.Len(t, sale.Items, 2)
	assert.Equal(t, 7, testutil.Stock(t, f.db, pen.ID))
	assert.Equal(t, 4, testutil.Stock(t, f.db, book.ID))

	recorded := f.pub.ofType(events.SaleRecorded)
	require.Len(t, recorded, 1)
	assert.Equal(t, sale.TotalAmount, recorded[0].Payload.(SaleRecorded).TotalAmount)

	// book went from 6 to 4, under the threshold of 5
	low := f.pub.ofType(events.StockLow)
	require.Len(t, low, 1)
	assert.Equal(t, "Book", low[0].Payload.(LowStock).Name)
}

func TestRecordSaleMergesDuplicateLines(t *testing.T) {
	f := newFixture(t)
	pen := testutil.CreateProduct(t, f.db, "Pen", 150, 10)

	sale, err := f.sales.RecordSale(context.Background(), &SaleRequest{
		Items: []SaleLine{
			{ProductID: pen.ID, Quantity: 2},
			{ProductID: pen.ID, Quantity: 3},
		},
	}, nil)
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, 5, sale.Items[0].Quantity)
	assert.Equal(t, int64(750), sale.TotalAmount)
	assert.Nil(t, sale.CustomerID)
	assert.Equal(t, "system", sale.CreatedBy)
	assert.Equal(t, 5, testutil.Stock(t, f.db, pen.ID))
}

func TestRecordSaleRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pen := testutil.CreateProduct(t, f.db, "Pen", 150, 4)
	book := testutil.CreateProduct(t, f.db, "Book", 1200, 10)

	_, err := f.sales.RecordSale(ctx, &SaleRequest{}, cashier)
	assert.ErrorIs(t, err, ErrEmptySale)

	// one bad line rolls back the whole sale
	_, err = f.sales.RecordSale(ctx, &SaleRequest{Items: []SaleLine{
		{ProductID: book.ID, Quantity: 1},
		{ProductID: pen.ID, Quantity: 5},
	}}, cashier)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	// merged quantity exceeds stock even though each line fits
	_, err = f.sales.RecordSale(ctx, &SaleRequest{Items: []SaleLine{
		{ProductID: pen.ID, Quantity: 3},
		{ProductID: pen.ID, Quantity: 2},
	}}, cashier)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	_, err = f.sales.RecordSale(ctx, &SaleRequest{Items: []SaleLine{{ProductID: uuid.New(), Quantity: 1}}}, cashier)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	ghost := uuid.New()
	_, err = f.sales.RecordSale(ctx, &SaleRequest{
		CustomerID: &ghost,
		Items:      []SaleLine{{ProductID: pen.ID, Quantity: 1}},
	}, cashier)
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound)

	sales, items := countSales(t, f)
	assert.Zero(t, sales)
	assert.Zero(t, items)
	assert.Equal(t, 4, testutil.Stock(t, f.db, pen.ID))
	assert.Equal(t, 10, testutil.Stock(t, f.db, book.ID))
	assert.Empty(t, f.pub.ofType(events.SaleRecorded))
}

func TestSalesHistoryAndReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	phone := "0600000000"
	customer := &model.Customer{Name: "Alice", Address: "1 Main St", Phone: &phone}
	require.NoError(t, f.db.Create(customer).Error)
	product := testutil.CreateProduct(t, f.db, "Extra long product name here", 1250, 10)

	when := time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC)
	sale, err := f.sales.RecordSale(ctx, &SaleRequest{
		CustomerID: &customer.ID,
		SaleDate:   &when,
		Items:      []SaleLine{{ProductID: product.ID, Quantity: 2}},
	}, cashier)
	require.NoError(t, err)

	_, err = f.sales.RecordSale(ctx, &SaleRequest{Items: []SaleLine{{ProductID: product.ID, Quantity: 1}}}, cashier)
	require.NoError(t, err)

	history, err := f.sales.SalesHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "", history[0].CustomerName, "newest first, anonymous")
	assert.Equal(t, "Alice", history[1].CustomerName)

	receipt, err := f.sales.Receipt(ctx, sale.ID)
	require.NoError(t, err)
	assert.Contains(t, receipt, "Sale ID: "+sale.ID.String())
	assert.Contains(t, receipt, "Date: 2024-05-02 14:30:00")
	assert.Contains(t, receipt, "Customer: Alice")
	assert.Contains(t, receipt, "Address: 1 Main St")
	assert.Contains(t, receipt, "Phone: 0600000000")
	assert.Contains(t, receipt, "Extra long product n   2    12.50    25.00")
	assert.Contains(t, receipt, "TOTAL: 25.00 €")

	assert.True(t, strings.HasPrefix(receipt, "--- SALE RECEIPT ---"))

	anon, err := f.sales.Receipt(ctx, history[0].ID)
	require.NoError(t, err)
	assert.Contains(t, anon, "Customer: Anonymous")

	_, err = f.sales.Receipt(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrSaleNotFound)
}

func TestRecordSaleRejectsOutOfRangeAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pen := testutil.CreateProduct(t, f.db, "Pen", 100, 10)

	_, err := f.sales.RecordSale(ctx, &SaleRequest{Items: []SaleLine{
		{ProductID: pen.ID, Quantity: 4, PriceAtSale: int64Ptr(1 << 62)},
	}}, cashier)
	assert.ErrorIs(t, err, validator.ErrValidation)

	_, err = f.sales.RecordSale(ctx, &SaleRequest{Items: []SaleLine{
		{ProductID: pen.ID, Quantity: math.MaxInt},
		{ProductID: pen.ID, Quantity: math.MaxInt},
		{ProductID: pen.ID, Quantity: 4},
	}}, cashier)
	assert.ErrorIs(t, err, validator.ErrValidation)

	// each line is within bounds, the merged quantity is not
	_, err = f.sales.RecordSale(ctx, &SaleRequest{Items: []SaleLine{
		{ProductID: pen.ID, Quantity: MaxQuantity},
		{ProductID: pen.ID, Quantity: 1},
	}}, cashier)
	assert.ErrorIs(t, err, validator.ErrValidation)

	// every line is within bounds, the grand total overflows int64
	var lines []SaleLine
	for i := 0; i < 93; i++ {
		p := testutil.CreateProduct(t, f.db, fmt.Sprintf("Bulk %d", i), 100, MaxQuantity)
		lines = append(lines, SaleLine{ProductID: p.ID, Quantity: MaxQuantity, PriceAtSale: int64Ptr(MaxAmount)})
	}
	_, err = f.sales.RecordSale(ctx, &SaleRequest{Items: lines}, cashier)
	assert.ErrorIs(t, err, validator.ErrValidation)

	sales, items := countSales(t, f)
	assert.Zero(t, sales)
	assert.Zero(t, items)
	assert.Equal(t, 10, testutil.Stock(t, f.db, pen.ID))
	assert.Equal(t, MaxQuantity, testutil.Stock(t, f.db, lines[0].ProductID))
}
