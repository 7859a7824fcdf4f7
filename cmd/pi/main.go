package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mailbradsimmscom/pi/internal/collector"
	corecfg "github.com/mailbradsimmscom/pi/internal/core/config"
	"github.com/mailbradsimmscom/pi/internal/core/storage/postgres"
	"github.com/mailbradsimmscom/pi/internal/metrics"
	"github.com/mailbradsimmscom/pi/internal/migrations"
	"github.com/mailbradsimmscom/pi/internal/retention"
	"github.com/mailbradsimmscom/pi/internal/server"
	"github.com/mailbradsimmscom/pi/internal/track"
)

func main() {
	configPath := flag.String("config", "pi.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("PI_LOG__LEVEL")),
	}))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	})))
	slog.Info("Loaded config", "boat_id", cfg.Boat.ID, "tiers", len(cfg.Policy.Tiers))

	// 2. Initialize Storage (PostgreSQL)
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

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Metrics
	m := metrics.Init("pi", nil)

	// 4. Initialize Collector (Signal K poller)
	var gpsCollector *collector.Collector
	if cfg.Collector.Enabled {
		signalk := collector.NewSignalKClient(cfg.SignalK.URL, cfg.SignalK.Token, cfg.SignalK.ParsedTimeout())
		gpsCollector = collector.NewCollector(signalk, dbAdapter, cfg.Boat.ID, cfg.Collector.ParsedPollInterval(), m)
	} else {
		slog.Info("Collector disabled by config")
	}

	// 5. Initialize Retention (cron-driven cleanup)
	var retentionScheduler *retention.Scheduler
	if cfg.Retention.Enabled {
		coordinator, err := retention.NewCoordinator(dbAdapter, cfg.Policy)
		if err != nil {
			slog.Error("Failed to initialize retention", "error", err)
			os.Exit(1)
		}
		retentionScheduler = retention.NewScheduler(coordinator, cfg.Boat.ID, cfg.Retention.Schedule, cfg.Retention.DryRun, m)
	} else {
		slog.Info("Retention disabled by config")
	}

	// 6. Initialize Track API + Server
	trackSvc := track.NewService(dbAdapter)
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), dbAdapter.DB(), cfg.Server.Mode, nil)
	trackSvc.RegisterRoutes(srv.Engine)

	// 7. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	if gpsCollector != nil {
		g.Go(func() error { return gpsCollector.Start(gctx) })
	}
	if retentionScheduler != nil {
		g.Go(func() error { return retentionScheduler.Start(gctx) })
	}
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil {
		slog.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Shutdown complete")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
