package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/example/craftora/gateway"
	"github.com/example/craftora/pkg/audit"
	"github.com/example/craftora/pkg/catalog"
	"github.com/example/craftora/pkg/config"
	"github.com/example/craftora/pkg/feedback"
	"github.com/example/craftora/pkg/identity"
	"github.com/example/craftora/pkg/orders"
	"github.com/example/craftora/pkg/store"
	"github.com/example/craftora/pkg/translate"
)

func main() {
	// Load config
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting Craftora",
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("port", cfg.Server.Port))

	// Slot store backend
	slots, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open slot store", zap.Error(err))
	}

	// Audit trail is optional: without Mongo the recorder stays nil and
	// every Record call is a no-op.
	var recorder *audit.Recorder
	if cfg.MongoDB.URI != "" {
		recorder, err = audit.NewRecorder(&cfg.MongoDB, logger)
		if err != nil {
			logger.Warn("Failed to connect to MongoDB, continuing without audit trail", zap.Error(err))
			recorder = nil
		}
	}

	ident := identity.NewService(slots, recorder, logger)
	cat := catalog.NewService(slots, recorder, logger)
	ord := orders.NewService(slots, logger)
	fb := feedback.NewService(slots, logger)
	tr := translate.NewChain(&cfg.Translate, logger)

	gw := gateway.NewGateway(cfg, logger, ident, cat, ord, fb, tr)
	gw.SetupRoutes()

	// Start gateway in goroutine
	gwErr := make(chan error, 1)
	go func() {
		if err := gw.Start(); err != nil {
			gwErr <- err
		}
	}()

	logger.Info("Craftora started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-gwErr:
		logger.Fatal("Gateway error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := recorder.Close(ctx); err != nil {
		logger.Warn("Audit trail close failed", zap.Error(err))
	}
	if closeStore != nil {
		closeStore()
	}

	logger.Info("Craftora stopped")
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return store.NewMemory(), nil, nil
	case "redis":
		r := store.NewRedis(&cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return r, func() { _ = r.Close() }, nil
	case "mysql":
		m, err := store.NewMySQL(&cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		return m, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
