package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	corecfg "github.com/mailbradsimmscom/pi/internal/core/config"
	"github.com/mailbradsimmscom/pi/internal/core/storage/postgres"
	"github.com/mailbradsimmscom/pi/internal/migrations"
	"github.com/mailbradsimmscom/pi/internal/retention"
)

// cleanup runs one retention pass and exits. Meant for cron-less setups and
// for previewing a policy change with -dry-run before the daemon applies it.
func main() {
	configPath := flag.String("config", "pi.yaml", "Path to configuration file")
	dryRun := flag.Bool("dry-run", false, "Report what would be deleted without deleting")
	purgeOnly := flag.Bool("purge-only", false, "Skip downsampling tiers, run only the purge stage")
	olderThan := flag.String("older-than", "", "Purge cutoff age override (e.g. \"90d\"), implies -purge-only")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer dbAdapter.Close()

	if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	coordinator, err := retention.NewCoordinator(dbAdapter, cfg.Policy)
	if err != nil {
		slog.Error("Failed to initialize retention", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	asOf := time.Now().UTC()

	if *purgeOnly || *olderThan != "" {
		cutoffAge := cfg.Policy.PurgeAfter
		if *olderThan != "" {
			cutoffAge, err = retention.ParseSpan(*olderThan)
			if err != nil {
				slog.Error("Invalid -older-than value", "value", *olderThan, "error", err)
				os.Exit(1)
			}
		}

		deleted, err := coordinator.PurgeOlderThan(ctx, asOf, cfg.Boat.ID, cutoffAge, *dryRun)
		if err != nil {
			slog.Error("Purge failed", "error", err, "partial_deleted", deleted)
			os.Exit(1)
		}
		slog.Info("Purge complete", "deleted", deleted, "older_than", cutoffAge, "dry_run", *dryRun)
		return
	}

	summary, err := coordinator.RunFullCleanup(ctx, asOf, cfg.Boat.ID, *dryRun)
	if err != nil {
		slog.Error("Cleanup failed", "error", err, "partial_total", summary.TotalDeleted)
		os.Exit(1)
	}

	for _, outcome := range summary.Tiers {
		slog.Info("Tier complete",
			"tier", outcome.Name,
			"kept", outcome.Result.Kept,
			"deleted", outcome.Result.Deleted,
			"would_delete", outcome.Result.WouldDelete,
		)
	}
	slog.Info("Cleanup complete",
		"total_deleted", summary.TotalDeleted,
		"purge_deleted", summary.PurgeDeleted,
		"dry_run", *dryRun,
	)
}
