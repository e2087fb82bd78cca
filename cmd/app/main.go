package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"tracking/cmd"
	"tracking/internal/adapters/out/postgres/auditrepo"
	"tracking/internal/adapters/out/postgres/shipmentrepo"
	"tracking/internal/adapters/out/postgres/tenantrepo"
	"tracking/internal/core/domain/model/courier"

	goredis "github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()

	logger, err := newLogger(configs.Production())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, err := gorm.Open(postgres.Open(configs.PostgresDSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&tenantrepo.TenantDTO{},
		&shipmentrepo.ShipmentDTO{},
		&auditrepo.AuditEventDTO{},
	); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := newRedisClient(configs, logger)

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		logger.Fatal("failed to start background jobs", zap.Error(err))
	}
	defer jobManager.StopAll()

	startWebServer(app, configs, logger)
}

func getConfigs() cmd.Config {
	// Absence of a .env file is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		CacheTTL:         envDuration("TENANT_CACHE_TTL", 5*time.Minute),
		CacheTagsEnabled: envBool("TENANT_CACHE_TAGS_ENABLED", true),

		Environment: envOr("ENVIRONMENT", "development"),

		CourierPriority: envList("COURIER_PRIORITY"),
		CourierBaseURLs: courierBaseURLs(),

		PollSchedule:    envOr("TRACKING_POLL_SCHEDULE", "0 * * * * *"),
		PollBatchSize:   envInt("TRACKING_POLL_BATCH_SIZE", 100),
		PollConcurrency: envInt("TRACKING_POLL_CONCURRENCY", 8),
		PollCallTimeout: envDuration("TRACKING_POLL_CALL_TIMEOUT", 15*time.Second),

		RateLimitPerSecond: envFloat("RATE_LIMIT_PER_SECOND", 20),
	}
}

func courierBaseURLs() map[string]string {
	urls := make(map[string]string)
	for id, key := range map[string]string{
		courier.ACSProviderID:     "ACS_API_URL",
		courier.GenikiProviderID:  "GENIKI_API_URL",
		courier.ELTAProviderID:    "ELTA_API_URL",
		courier.SpeedexProviderID: "SPEEDEX_API_URL",
		courier.GenericProviderID: "GENERIC_COURIER_API_URL",
	} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			urls[id] = v
		}
	}
	return urls
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newRedisClient(configs cmd.Config, logger *zap.Logger) *goredis.Client {
	if configs.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, tenant resolution cache disabled")
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// Cache failures are soft everywhere else too; start without it.
		logger.Warn("redis unreachable, tenant resolution cache disabled", zap.Error(err))
		return nil
	}

	return client
}

func startWebServer(app cmd.CompositionRoot, configs cmd.Config, logger *zap.Logger) {
	e := echo.New()
	e.HideBanner = true

	server := app.CreateServer()
	server.RegisterRoutes(e, app.CreateTenantMiddleware(), configs.RateLimitPerSecond)

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		if err := e.Start(addr); err != nil {
			logger.Info("http server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
}
