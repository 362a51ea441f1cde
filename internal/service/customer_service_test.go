package service

import (
	"context"
	"testing"

	"go-sales-desk/internal/events"
	"go-sales-desk/internal/repository"
	"go-sales-desk/internal/testutil"
	"go-sales-desk/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.customers.CreateCustomer(ctx, &CustomerRequest{Name: "  Alice  ", Phone: " ", Email: "alice@example.com"}, cashier)
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Name)
	assert.Nil(t, c.Phone, "blank phone is stored as NULL")
	require.NotNil(t, c.Email)
	assert.Equal(t, "cashier-1", c.CreatedBy)
	assert.Len(t, f.pub.ofType(events.CustomerCreated), 1)

	// a second customer without phone must not collide on the unique index
	_, err = f.customers.CreateCustomer(ctx, &CustomerRequest{Name: "Bob"}, cashier)
	require.NoError(t, err)
}

func TestCreateCustomerValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.customers.CreateCustomer(ctx, &CustomerRequest{Name: "   "}, cashier)
	assert.ErrorIs(t, err, validator.ErrValidation)

	_, err = f.customers.CreateCustomer(ctx, &CustomerRequest{Name: "Carol", Email: "not-an-email"}, cashier)
	assert.ErrorIs(t, err, validator.ErrValidation)
}

func TestCustomerUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.customers.CreateCustomer(ctx, &CustomerRequest{Name: "Alice", Email: "a@example.com"}, cashier)
	require.NoError(t, err)
	bob, err := f.customers.CreateCustomer(ctx, &CustomerRequest{Name: "Bob", Phone: "0600"}, cashier)
	require.NoError(t, err)

	_, err = f.customers.CreateCustomer(ctx, &CustomerRequest{Name: "Alicia", Email: "a@example.com"}, cashier)
	assert.ErrorIs(t, err, repository.ErrCustomerConflict)

	_, err = f.customers.UpdateCustomer(ctx, bob.ID, &CustomerRequest{Name: "Bob", Email: "a@example.com"}, cashier)
	assert.ErrorIs(t, err, repository.ErrCustomerConflict)

	updated, err := f.customers.UpdateCustomer(ctx, bob.ID, &CustomerRequest{Name: "Robert", Address: "1 Main St"}, cashier)
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name)
	assert.Nil(t, updated.Phone, "cleared phone is written back as NULL")
}

func TestDeleteCustomerKeepsSales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := testutil.CreateCustomer(t, f.db, "Alice")
	product := testutil.CreateProduct(t, f.db, "Pen", 150, 10)

	sale, err := f.sales.RecordSale(ctx, &SaleRequest{
		CustomerID: &customer.ID,
		Items:      []SaleLine{{ProductID: product.ID, Quantity: 2}},
	}, cashier)
	require.NoError(t, err)

	history, err := f.customers.CustomerSales(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	require.NoError(t, f.customers.DeleteCustomer(ctx, customer.ID, cashier))

	detail, err := f.sales.SaleDetail(ctx, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Sale.CustomerID)

	_, err = f.customers.CustomerSales(ctx, customer.ID)
	assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
	assert.ErrorIs(t, f.customers.DeleteCustomer(ctx, uuid.New(), cashier), repository.ErrCustomerNotFound)
}
