package repository

import (
	"context"
	"testing"
	"time"

	"go-sales-desk/internal/model"
	"go-sales-desk/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSaleCreateWithItemsAndQueries(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSaleRepo(db)
	ctx := context.Background()

	pen := testutil.CreateProduct(t, db, "Pen", 150, 10)
	book := testutil.CreateProduct(t, db, "Book", 900, 4)
	customer := testutil.CreateCustomer(t, db, "Yacine")

	earlier := &model.Sale{SaleDate: time.Now().UTC().Add(-time.Hour), TotalAmount: 150}
	require.NoError(t, repo.CreateWithItems(db, earlier, []model.SaleItem{{ProductID: pen.ID, Quantity: 1, PriceAtSale: 150}}))

	later := &model.Sale{CustomerID: &customer.ID, SaleDate: time.Now().UTC(), TotalAmount: 2100}
	require.NoError(t, repo.CreateWithItems(db, later, []model.SaleItem{
		{ProductID: pen.ID, Quantity: 2, PriceAtSale: 150},
		{ProductID: book.ID, Quantity: 2, PriceAtSale: 900},
	}))

	assert.Equal(t, 7, testutil.Stock(t, db, pen.ID))
	assert.Equal(t, 2, testutil.Stock(t, db, book.ID))

	history, err := repo.History(ctx, 100)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, later.ID, history[0].ID)
	assert.Equal(t, "Yacine", history[0].CustomerName)
	assert.Equal(t, "", history[1].CustomerName)
	assert.Nil(t, history[1].CustomerID)

	items, err := repo.Items(ctx, later.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Book", items[0].ProductName)
	assert.Equal(t, int64(1800), items[0].Subtotal())

	byCustomer, err := repo.ByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, int64(2100), byCustomer[0].TotalAmount)

	got, err := repo.FindByID(ctx, later.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Yacine", got.Customer.Name)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestSaleCreateWithItemsRollsBackOnOversell(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSaleRepo(db)

	p := testutil.CreateProduct(t, db, "Scarce", 500, 1)
	ok := testutil.CreateProduct(t, db, "Plenty", 100, 50)

	err := db.Transaction(func(tx *gorm.DB) error {
		sale := &model.Sale{SaleDate: time.Now().UTC(), TotalAmount: 1100}
		return repo.CreateWithItems(tx, sale, []model.SaleItem{
			{ProductID: ok.ID, Quantity: 1, PriceAtSale: 100},
			{ProductID: p.ID, Quantity: 2, PriceAtSale: 500},
		})
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var sales int64
	db.Model(&model.Sale{}).Count(&sales)
	assert.Zero(t, sales)
	assert.Equal(t, 50, testutil.Stock(t, db, ok.ID))
	assert.Equal(t, 1, testutil.Stock(t, db, p.ID))
}

func TestPurchaseRepo(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPurchaseRepo(db)
	ctx := context.Background()

	p := testutil.CreateProduct(t, db, "Farine", 200, 0)
	require.NoError(t, repo.Create(ctx, &model.Purchase{ProductID: p.ID, Quantity: 12, PurchaseDate: time.Now().UTC(), CostPerUnit: 90, Supplier: "Moulins"}))
	assert.Equal(t, 12, testutil.Stock(t, db, p.ID))

	err := repo.Create(ctx, &model.Purchase{ProductID: uuid.New(), Quantity: 1, PurchaseDate: time.Now().UTC()})
	assert.ErrorIs(t, err, ErrProductNotFound)

	history, err := repo.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Farine", history[0].ProductName)
	assert.Equal(t, "Moulins", history[0].Supplier)
}
