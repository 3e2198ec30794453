package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/NicolasArtemio/frontend-basv1/internal/authflow"
	"github.com/NicolasArtemio/frontend-basv1/internal/cart"
	"github.com/NicolasArtemio/frontend-basv1/internal/catalog"
	"github.com/NicolasArtemio/frontend-basv1/internal/config"
	"github.com/NicolasArtemio/frontend-basv1/internal/handler"
	"github.com/NicolasArtemio/frontend-basv1/internal/logger"
	"github.com/NicolasArtemio/frontend-basv1/internal/session"
	"github.com/NicolasArtemio/frontend-basv1/internal/storage"
	"github.com/NicolasArtemio/frontend-basv1/internal/transport"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// 2. Setup durable storage
	ctx := context.Background()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		zlog.Fatal("failed to open storage", zap.Error(err))
	}

	// 3. Setup stores (rehydrate before first read)
	sessions := session.New(store, zlog)
	sessions.Rehydrate(ctx)
	sessions.OnEnd(func() {
		zlog.Info("session ended, continue at /login")
	})

	orders := cart.New(store, cfg.ShopName, zlog)
	orders.Rehydrate(ctx)

	// 4. Setup catalog client over the intercepting transport
	pipeline := transport.NewPipeline(nil).
		Pre(transport.AcceptJSON()).
		Pre(transport.BearerAuth(sessions)).
		Post(transport.ForceLogoutOnUnauthorized(sessions))

	catalogClient := catalog.NewClient(catalog.Config{BaseURL: cfg.APIBaseURL}, pipeline)
	catalogService := catalog.NewService(catalogClient, zlog)

	// 5. Setup HTTP shell
	auth := authflow.NewHandler(sessions, authflow.Config{
		OAuthURL:   cfg.OAuthURL,
		AdminEmail: cfg.AdminEmail,
	}, zlog)
	cartHandler := handler.NewCartHandler(orders, cfg.ShopPhone)
	catalogHandler := handler.NewCatalogHandler(catalogService, catalogClient)

	h := handler.NewHandler(auth, cartHandler, catalogHandler)

	// 6. Setup server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: h,
	}

	// 7. Run server with graceful shutdown
	go func() {
		fmt.Printf("Starting storefront shell on port %s\n", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down...")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	fmt.Println("Storefront exiting")
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "file":
		return storage.NewFile(cfg.Storage.Dir)
	case "redis":
		return storage.NewRedis(ctx, cfg.Storage.RedisURL, "storefront")
	case "memory":
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
