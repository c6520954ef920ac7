package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grantsync/internal/config"
	"grantsync/internal/db"
	"grantsync/internal/fetcher"
	"grantsync/internal/logger"
	"grantsync/internal/metrics"
	"grantsync/internal/normalize"
	"grantsync/internal/pipeline"
	"grantsync/internal/store"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load(config.EnvFile(), os.Args[1:])
	if err != nil {
		logger.Init(false)
		logger.Log.Fatalf("Config load error: %v", err)
	}
	if cfg == nil {
		return
	}

	logger.Init(cfg.Debug)
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Хранилище записей
	var records store.Store
	switch cfg.Store {
	case config.StorePostgres:
		database, err := db.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Log.Fatalf("DB connection error: %v", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			logger.Log.Fatalf("DB schema error: %v", err)
		}
		records = database
	default:
		records = store.NewNotion(cfg.NotionToken, cfg.NotionDB, cfg.Timeout)
	}

	loc := cfg.Location()
	m := metrics.New()
	client := fetcher.NewClient(cfg.BaseURL, cfg.APIKey, cfg.PageSize, cfg.Timeout)
	p := pipeline.New(client, records, normalize.New(cfg.BaseURL), m, cfg.CollectDays)
	p.Now = func() time.Time { return time.Now().In(loc) }

	p.Run(ctx)

	if cfg.Pushgateway != "" {
		pushCtx, cancelPush := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancelPush()
		if err := m.Push(pushCtx, cfg.Pushgateway, "grantsync"); err != nil {
			logger.Log.WithError(err).Warn("Failed to push metrics")
		}
	}
}
