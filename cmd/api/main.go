package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ikanisa/dinein-malta-sub006/internal/app"
	"github.com/ikanisa/dinein-malta-sub006/internal/clock"
	"github.com/ikanisa/dinein-malta-sub006/internal/config"
	"github.com/ikanisa/dinein-malta-sub006/internal/ratelimit"
	"github.com/ikanisa/dinein-malta-sub006/internal/storage/postgres"
	transporthttp "github.com/ikanisa/dinein-malta-sub006/internal/transport/http"
	"github.com/ikanisa/dinein-malta-sub006/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	if err := godotenv.Load(); err != nil {
		logger.Printf("WARN: no .env file loaded: %v", err)
	}
	cfg := config.FromEnv(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer func() { _ = redisClient.Close() }()

	if err := redisClient.Ping(startupCtx).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	store, err := ratelimit.NewRedisStore(redisClient)
	if err != nil {
		log.Fatalf("rate limit store: %v", err)
	}
	limiter := ratelimit.New(store, cfg.Limits)

	clk := clock.NewSystem()
	auditLogger := app.NewAuditLogger(postgres.NewAuditRepository(pool), clk, logger)
	pricing := app.NewPriceAuthority(postgres.NewMenuRepository(pool), cfg.Limits.MaxLineQuantity, cfg.Limits.MaxDistinctLines)
	orderSvc := app.NewOrderService(postgres.NewOrderRepository(pool), pricing, limiter, auditLogger, clk, logger)
	bellSvc := app.NewBellService(postgres.NewBellRepository(pool), limiter, auditLogger, clk)
	vendorSvc := app.NewVendorService(postgres.NewVendorRepository(pool))

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/orders", transporthttp.HandleOrders(orderSvc, vendorSvc))
	mux.Handle("/orders/", transporthttp.HandleOrderStatus(vendorSvc))
	mux.Handle("/service-requests", transporthttp.HandleBells(bellSvc, vendorSvc))
	mux.Handle("/service-requests/", transporthttp.HandleBellStatus(vendorSvc))
	mux.Handle("/admin/audit", transporthttp.HandleAudit(auditLogger))
	mux.Handle("/", transporthttp.NotFoundHandler())

	corsOrigins := parseCSV(cfg.CORSOrigins)
	handler := transporthttp.RequestLogger(transporthttp.CORS(corsOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
