package main

import (
	"context"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vlasovm/shop_backend/internal/config"
	"github.com/vlasovm/shop_backend/internal/db"
	"github.com/vlasovm/shop_backend/internal/httpserver"
	"github.com/vlasovm/shop_backend/internal/logging"
	"github.com/vlasovm/shop_backend/internal/mykafka"
	"github.com/vlasovm/shop_backend/internal/repo"
	"github.com/vlasovm/shop_backend/internal/search"
	"github.com/vlasovm/shop_backend/internal/service"
)

const refreshCleanupInterval = time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	ctx := context.Background()
	gdb, err := db.Open(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer(strings.Split(cfg.KAFKA_ADDRESS, ","))
		defer producer.Close()
	}

	indexer := &search.Indexer{Index: cfg.ES_INDEX}
	if cfg.ES_URL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			logger.Error("elasticsearch unavailable, search disabled", "error", err)
		} else {
			indexer.ES = esClient
		}
	}

	r := repo.New(gdb)
	deps := &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo:          r,
			JWTSecret:     []byte(cfg.JWT_SECRET),
			RefreshSecret: []byte(cfg.REFRESH_SECRET),
			Producer:      producer,
		}},
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Repo:     r,
			Producer: producer,
			Indexer:  indexer,
		}},
		Order: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:     r,
			Producer: producer,
		}},
		JWTSecret: []byte(cfg.JWT_SECRET),
	}

	go cleanupExpiredRefresh(ctx, r, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(httpserver.RequestLogger(logger))
	httpserver.Register(e, deps)

	e.Logger.Fatal(e.Start(":" + cfg.PORT))
}

func cleanupExpiredRefresh(ctx context.Context, r *repo.GormRepo, logger *slog.Logger) {
	ticker := time.NewTicker(refreshCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		n, err := r.DeleteExpiredRefresh(ctx, time.Now())
		if err != nil {
			logger.Error("refresh token cleanup failed", "error", err)
			continue
		}
		if n > 0 {
			logger.Info("expired refresh tokens removed", "count", n)
		}
	}
}
