// Package main implements a one-shot rebuild of the product search index.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tvmanh/goshop/internal/catalog"
	"github.com/tvmanh/goshop/internal/catalog/search"
	"github.com/tvmanh/goshop/internal/catalog/store"
	"github.com/tvmanh/goshop/internal/config"
	"github.com/tvmanh/goshop/pkg/bootstrap"
	"github.com/tvmanh/goshop/pkg/config/configloader"
)

const serviceName = "goshop"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("reindex failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := configloader.Load[*config.Config](serviceName)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := bootstrap.NewLogger(cfg.Log.Level)

	if !cfg.Search.Enabled {
		return fmt.Errorf("search index is disabled, nothing to rebuild")
	}

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create database connection pool: %w", err)
	}
	defer dbPool.Close()

	searchClient, err := bootstrap.NewSearchClient(cfg.Search)
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	service := catalog.NewService(store.NewPgStore(dbPool), search.NewES(searchClient, logger), logger)
	report, err := service.Reindex(ctx)
	if err != nil {
		return err
	}
	logger.Info("Reindex finished", "indexed", report.Indexed, "failed", len(report.FailedIDs))
	if len(report.FailedIDs) > 0 {
		return fmt.Errorf("%d products failed to index", len(report.FailedIDs))
	}
	return nil
}
