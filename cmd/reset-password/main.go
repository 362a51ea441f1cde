// Command reset-password sets a new password for an operator account and
// signs out its active session.
package main

import (
	"context"
	"flag"
	"log"

	"go-sales-desk/internal/config"
	"go-sales-desk/internal/repository"
	"go-sales-desk/pkg/database"
	"go-sales-desk/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	email := flag.String("email", cfg.AdminEmail, "account to reset")
	password := flag.String("password", cfg.AdminPassword, "new password (min 6 characters)")
	flag.Parse()

	zlog := logger.NewLogger(cfg.ServiceName+"-reset-password", cfg.LogLevel)
	defer zlog.Sync()

	if len(*password) < 6 {
		zlog.Fatal("Password must be at least 6 characters")
	}

	db, err := database.Connect(cfg.Database(zlog))
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	ctx := context.Background()
	users := repository.NewUserRepo(db)
	user, err := users.FindByEmail(ctx, *email)
	if err != nil {
		zlog.Fatal("User not found", zap.String("email", *email), zap.Error(err))
	}

	if err := user.SetPassword(*password); err != nil {
		zlog.Fatal("Failed to hash password", zap.Error(err))
	}
	user.RotateSession()
	if err := users.Update(ctx, user); err != nil {
		zlog.Fatal("Failed to update password", zap.Error(err))
	}

	zlog.Info("Password reset", zap.String("email", *email))
}
