// Command initdb creates the schema and stock triggers, seeds roles and the
// admin account, and optionally loads a few demo products.
package main

import (
	"context"
	"flag"
	"log"

	"go-sales-desk/internal/config"
	"go-sales-desk/internal/repository"
	"go-sales-desk/internal/service"
	"go-sales-desk/pkg/database"
	"go-sales-desk/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	demo := flag.Bool("demo", false, "insert demo products when the catalog is empty")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()
	ctx := context.Background()
	zlog := logger.NewLogger(cfg.ServiceName+"-initdb", cfg.LogLevel)
	defer zlog.Sync()
	cfg.WarnInsecureDefaults(zlog)

	db, err := database.Connect(cfg.Database(zlog))
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	zlog.Info("Initializing database", zap.String("driver", db.Dialector.Name()), zap.String("path", cfg.DBPath))
	if err := database.RunMigrations(db); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := service.SeedAccess(ctx, db, cfg.AdminEmail, cfg.AdminPassword, zlog); err != nil {
		zlog.Fatal("Failed to seed access control", zap.Error(err))
	}

	if *demo {
		n, err := seedDemo(ctx, service.NewInventoryService(
			repository.NewProductRepo(db), repository.NewPurchaseRepo(db), cfg.LowStockThreshold, service.Deps{Log: zlog}))
		if err != nil {
			zlog.Fatal("Failed to seed demo products", zap.Error(err))
		}
		zlog.Info("Demo products inserted", zap.Int("count", n))
	}

	zlog.Info("Database ready")
}

// one low, one healthy and one sold-out product, so every stock filter has a hit
var demoProducts = []service.ProductRequest{
	{Name: "Low Stock Product", Description: "Demo", Category: "Cat A", PurchasePrice: 100, SellingPrice: 200, InitialStock: 3},
	{Name: "In Stock Product", Description: "Demo", Category: "Cat B", PurchasePrice: 1000, SellingPrice: 2000, InitialStock: 15},
	{Name: "Out Of Stock Product", Description: "Demo", Category: "Cat A", PurchasePrice: 500, SellingPrice: 1000, InitialStock: 0},
}

func seedDemo(ctx context.Context, inventory service.InventoryService) (int, error) {
	existing, err := inventory.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i := range demoProducts {
		if _, err := inventory.CreateProduct(ctx, &demoProducts[i], nil); err != nil {
			return i, err
		}
	}
	return len(demoProducts), nil
}
