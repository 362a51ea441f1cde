package main

import (
	"context"
	"testing"

	"go-sales-desk/internal/model"
	"go-sales-desk/internal/repository"
	"go-sales-desk/internal/service"
	"go-sales-desk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoOnlyOnEmptyCatalog(t *testing.T) {
	db := testutil.NewDB(t)
	inventory := service.NewInventoryService(repository.NewProductRepo(db), repository.NewPurchaseRepo(db), 5, service.Deps{})
	ctx := context.Background()

	n, err := seedDemo(ctx, inventory)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = seedDemo(ctx, inventory)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, level := range []model.StockLevel{model.StockLow, model.StockInStock, model.StockOutOfStock} {
		hits, err := inventory.SearchProducts(ctx, "", "", level)
		require.NoError(t, err)
		assert.NotEmpty(t, hits, string(level))
	}
}
