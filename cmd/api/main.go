package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go-sales-desk/internal/cache"
	"go-sales-desk/internal/config"
	"go-sales-desk/internal/events"
	"go-sales-desk/internal/handler"
	"go-sales-desk/internal/health"
	"go-sales-desk/internal/metrics"
	"go-sales-desk/internal/repository"
	"go-sales-desk/internal/service"
	"go-sales-desk/internal/ws"
	"go-sales-desk/pkg/database"
	"go-sales-desk/pkg/jwt"
	"go-sales-desk/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	zlog := logger.NewLogger(cfg.ServiceName, cfg.LogLevel)
	defer zlog.Sync()
	cfg.WarnInsecureDefaults(zlog)

	jwt.Configure(cfg.JWTSecret, cfg.TokenTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.Connect(cfg.Database(zlog))
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := service.SeedAccess(ctx, db, cfg.AdminEmail, cfg.AdminPassword, zlog); err != nil {
		zlog.Warn("Failed to seed roles and admin user", zap.Error(err))
	}

	// Realtime feed and optional broker
	wsHub := ws.NewHub(zlog.Named("ws"))
	go wsHub.Run(ctx)

	checker := health.NewChecker(db, zlog)
	publishers := []events.Publisher{events.NewHubPublisher(wsHub)}
	if cfg.RabbitMQURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.ServiceName, zlog)
		if err != nil {
			zlog.Warn("RabbitMQ unavailable, events stay local", zap.Error(err))
		} else {
			defer amqpPub.Close()
			publishers = append(publishers, amqpPub)
			checker.AddDependency("rabbitmq", amqpPub.IsHealthy)
		}
	}

	dashCache := cache.NewNoop()
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			zlog.Warn("Redis unavailable, dashboard cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			dashCache = cache.NewRedisCache(client, cfg.CacheTTL)
			checker.AddDependency("redis", func() bool {
				pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				return client.Ping(pingCtx).Err() == nil
			})
		}
	}

	m := metrics.New("sales_desk")
	deps := service.Deps{
		Publisher: events.NewMulti(zlog, publishers...),
		Cache:     dashCache,
		Metrics:   m,
		Log:       zlog,
	}

	// Repositories and services
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	saleService := service.NewSaleService(db, productRepo, customerRepo, saleRepo, service.SaleOptions{
		LowStockThreshold: cfg.LowStockThreshold,
		CurrencySymbol:    cfg.CurrencySymbol,
	}, deps)

	routes := handler.Routes{
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, deps)),
		Users:     handler.NewUserHandler(service.NewUserService(userRepo, privilegeRepo, roleRepo, deps)),
		Roles:     handler.NewRoleHandler(roleRepo, privilegeRepo),
		Customers: handler.NewCustomerHandler(service.NewCustomerService(customerRepo, saleRepo, deps)),
		Inventory: handler.NewInventoryHandler(service.NewInventoryService(productRepo, repository.NewPurchaseRepo(db), cfg.LowStockThreshold, deps)),
		Sales:     handler.NewSaleHandler(saleService),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(repository.NewReportRepo(db), cfg.LowStockThreshold, deps)),
		UserRepo:  userRepo,
	}

	// HTTP
	app := fiber.New(fiber.Config{
		AppName: "Sales Desk v1.0",
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(m.Middleware())

	app.Get("/healthz", checker.Handler)
	app.Get("/metrics", m.Handler())
	routes.Register(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Join(c)
		defer wsHub.Leave(c)

		for {
			// clients only listen; reading detects disconnects
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	if cfg.GRPCHealthPort != "" {
		go func() {
			if err := health.Serve(ctx, ":"+cfg.GRPCHealthPort, checker, zlog); err != nil {
				zlog.Error("gRPC health server stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		zlog.Info("HTTP server listening", zap.String("port", cfg.Port), zap.String("db", db.Dialector.Name()))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server exited")
}
