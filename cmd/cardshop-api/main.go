package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/api"
	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/application"
	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/config"
	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/domain"
	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/infrastructure/catalog"
	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/infrastructure/db"
	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/infrastructure/idempotency"
	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/infrastructure/messaging"
	outboxinfra "github.com/RodolfoDevApp/cardshop-inventory-go/internal/infrastructure/outbox"
	"github.com/RodolfoDevApp/cardshop-inventory-go/internal/logging"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	logger.Info("starting cardshop api", zap.String("port", cfg.HttpPort), zap.String("env", cfg.AppEnv))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store
	gateway, err := db.Open(ctx, cfg.PgDsn, db.PoolConfig{
		MaxOpenConns:    cfg.PgMaxOpenConns,
		MaxIdleConns:    cfg.PgMaxIdleConns,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer gateway.Close()

	if err := db.Migrate(ctx, gateway); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	inventoryRepo := db.NewPgInventoryRepository(gateway)
	orderRepo := db.NewPgOrderRepository(gateway)
	outboxRepo := db.NewPgOutboxRepository(gateway)

	// Idempotency guard
	var guard domain.IdempotencyGuard
	if cfg.RedisEnabled() {
		client, err := idempotency.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer client.Close()
		guard = idempotency.NewRedisGuard(client, cfg.IdempotencyTTL)
	} else {
		logger.Info("REDIS_ADDR not set, Idempotency-Key is ignored")
	}

	// Outbox dispatcher + scheduler
	var scheduler *outboxinfra.Scheduler
	if cfg.OutboxEnabled() {
		publisher := messaging.NewPublisher(cfg.RabbitUri)
		dispatcher := outboxinfra.NewDispatcher(
			outboxRepo,
			publisher,
			logger,
			cfg.OutboxMaxRetry,
			cfg.OutboxBatchSize,
		)
		scheduler = outboxinfra.NewScheduler(dispatcher, time.Duration(cfg.OutboxIntervalSec)*time.Second, logger)
		scheduler.Start(ctx)
	} else {
		logger.Info("RABBITMQ_URI not set, outbox messages stay pending")
	}

	// Application services
	scryfall := catalog.NewScryfallClient(cfg.ScryfallBaseURL, cfg.ScryfallTimeout, logger)
	catalogSvc := application.NewCatalogService(scryfall, logger)
	inventorySvc := application.NewInventoryService(inventoryRepo, logger)
	orderSvc := application.NewOrderService(orderRepo, guard, logger)

	// HTTP API
	apiServer := api.NewServer(cfg.AdminPassword, inventorySvc, orderSvc, catalogSvc, logger)
	httpSrv := &http.Server{
		Addr:              ":" + cfg.HttpPort,
		Handler:           apiServer.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}
	cancel()
	if scheduler != nil {
		scheduler.Wait()
	}
}
