// Command talentdex-backfill resolves record zip codes and stores their
// coordinates so radius searches can use the store's spatial index.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/bootstrap"
	"github.com/kailas-cloud/talentdex/internal/config"
	logpkg "github.com/kailas-cloud/talentdex/internal/logger"
	"github.com/kailas-cloud/talentdex/internal/metrics"
	"github.com/kailas-cloud/talentdex/internal/usecase/backfill"
	"github.com/kailas-cloud/talentdex/internal/version"
)

func main() {
	var opts backfill.Options
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.BoolVar(&opts.AllowApproximate, "allow-approximate", false,
		"also write prefix-table (approximate) points")
	flag.IntVar(&opts.ProgressEvery, "progress-every", backfill.DefaultProgressEvery,
		"log progress every N zips")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, opts, logger); err != nil {
		logger.Error("Backfill failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, opts backfill.Options, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting talentdex backfill",
		zap.String("version", version.Version),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	store, err := bootstrap.OpenStore(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	cache, err := bootstrap.OpenCache(ctx, cfg.Cache, store, logger)
	if err != nil {
		return fmt.Errorf("open coordinate cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	metrics.RegisterGeoMetrics()
	resolver := bootstrap.NewResolver(cfg.Geocoding, cache, logger)

	// Nil interfaces when the store has no point column or the cache is unbuffered.
	var writer backfill.GeoWriter
	if store.Postgres != nil {
		writer = store.Postgres
	} else {
		logger.Warn("store has no point column; warming the coordinate cache only")
	}
	var flusher backfill.Flusher
	if cache.Flusher != nil {
		flusher = cache.Flusher
	}

	svc := backfill.New(resolver, writer, store, flusher, logger)
	sum, err := svc.Run(ctx, opts)
	if errors.Is(err, context.Canceled) {
		logger.Warn("Backfill interrupted", zap.Int64("rows_updated", sum.RowsUpdated))
		return nil
	}
	return err
}
