// Package testutil opens throwaway in-memory databases for package tests.
package testutil

import (
	"testing"

	"go-sales-desk/internal/model"
	"go-sales-desk/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to the test
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Connect(database.Options{Driver: database.DriverSQLite, Path: path})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateProduct inserts a product with the given selling price and stock
func CreateProduct(t testing.TB, db *gorm.DB, name string, sellingPrice int64, stock int) *model.Product {
	t.Helper()

	p := &model.Product{
		Name:            name,
		Category:        "General",
		PurchasePrice:   sellingPrice / 2,
		SellingPrice:    sellingPrice,
		QuantityInStock: stock,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateCustomer inserts a customer with only a name
func CreateCustomer(t testing.TB, db *gorm.DB, name string) *model.Customer {
	t.Helper()

	c := &model.Customer{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

// Stock reloads the current stock of a product
func Stock(t testing.TB, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()

	var p model.Product
	require.NoError(t, db.First(&p, "id = ?", productID).Error)
	return p.QuantityInStock
}
