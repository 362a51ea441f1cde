package config

import (
	"os"
	"strconv"
	"time"

	"go-sales-desk/pkg/database"
	"go-sales-desk/pkg/logger"

	"go.uber.org/zap"
)

// Public fallbacks, fine for a local till and wrong anywhere else.
const (
	DefaultJWTSecret     = "your-super-secret-key-change-in-production"
	DefaultAdminPassword = "admin123"
)

// Config holds all runtime configuration for the sales desk API
type Config struct {
	ServiceName string
	Port        string
	LogLevel    string

	// Database
	DBDriver    string // sqlite | postgres
	DBPath      string // sqlite file
	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string

	JWTSecret string
	TokenTTL  time.Duration

	// Business settings
	LowStockThreshold int
	CurrencySymbol    string

	// Optional infrastructure, disabled when empty
	RedisAddr      string
	RedisPassword  string
	CacheTTL       time.Duration
	RabbitMQURL    string
	GRPCHealthPort string

	// Seeded master account
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables.
// Call godotenv.Load() beforehand to pick up a local .env file.
func Load() *Config {
	return &Config{
		ServiceName: getEnv("SERVICE_NAME", "sales-desk"),
		Port:        getEnv("PORT", "3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DBPath:      getEnv("DB_PATH", "gestion_commerciale.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		DBPort:      getEnv("DB_PORT", "5432"),

		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 12*time.Hour),

		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),
		CurrencySymbol:    getEnv("CURRENCY_SYMBOL", "€"),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CacheTTL:       getEnvDuration("CACHE_TTL", 30*time.Second),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		GRPCHealthPort: os.Getenv("GRPC_HEALTH_PORT"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", DefaultAdminPassword),
	}
}

// InsecureDefaults lists the env variables still set to their public fallback.
func (c *Config) InsecureDefaults() []string {
	var keys []string
	if c.JWTSecret == DefaultJWTSecret {
		keys = append(keys, "JWT_SECRET")
	}
	if c.AdminPassword == DefaultAdminPassword {
		keys = append(keys, "ADMIN_PASSWORD")
	}
	return keys
}

// WarnInsecureDefaults logs one warning per public fallback in effect.
func (c *Config) WarnInsecureDefaults(log *zap.Logger) {
	for _, key := range c.InsecureDefaults() {
		log.Warn("Using built-in default, set it in the environment", zap.String("env", key))
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// Database returns connection options for the configured driver. DATABASE_URL
// wins over the discrete DB_* settings.
func (c *Config) Database(log *zap.Logger) database.Options {
	dsn := c.DatabaseURL
	if dsn == "" && c.DBDriver == database.DriverPostgres {
		dsn = database.PostgresDSN(c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	}

	return database.Options{
		Driver: c.DBDriver,
		Path:   c.DBPath,
		DSN:    dsn,
		Level:  logger.ParseLevel(c.LogLevel),
		Log:    log,
	}
}
