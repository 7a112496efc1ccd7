package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/restaurant-ordering-api/internal/app/api"
	cartpostgres "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/restaurant-ordering-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge carts")
	}

	purged, err := cartpostgres.NewRepository(db).PurgeStale(ctx, time.Now().UTC().Add(-cfg.CartTTL))
	if err != nil {
		log.Fatalf("failed to purge carts: %v", err)
	}
	logger.Info("cart purge completed", slog.Int("purged", purged), slog.Duration("ttl", cfg.CartTTL))
}
