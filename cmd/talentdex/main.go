package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/bootstrap"
	"github.com/kailas-cloud/talentdex/internal/config"
	"github.com/kailas-cloud/talentdex/internal/domain/search/params"
	logpkg "github.com/kailas-cloud/talentdex/internal/logger"
	"github.com/kailas-cloud/talentdex/internal/metrics"
	directoryrepo "github.com/kailas-cloud/talentdex/internal/repository/directory"
	spatialrepo "github.com/kailas-cloud/talentdex/internal/repository/spatial"
	chiTransport "github.com/kailas-cloud/talentdex/internal/transport/chi"
	gen "github.com/kailas-cloud/talentdex/internal/transport/generated"
	directoryuc "github.com/kailas-cloud/talentdex/internal/usecase/directory"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
	"github.com/kailas-cloud/talentdex/internal/usecase/radius"
	searchuc "github.com/kailas-cloud/talentdex/internal/usecase/search"
	"github.com/kailas-cloud/talentdex/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Load configuration based on ENV
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

	logger.Info("Starting talentdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	ctx := context.Background()

	store, err := bootstrap.OpenStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()
	logger.Info("Connected to database")

	cache, err := bootstrap.OpenCache(ctx, cfg.Cache, store, logger)
	if err != nil {
		logger.Fatal("Failed to open coordinate cache", zap.Error(err))
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("Failed to close coordinate cache", zap.Error(err))
		}
	}()

	// Register metrics explicitly (no init())
	metrics.RegisterGeoMetrics()
	metrics.RegisterHTTPMetrics()

	caps, err := bootstrap.ProbeCapabilities(ctx, cfg.Spatial.Mode, store, logger)
	if err != nil {
		logger.Fatal("Capability probe failed", zap.Error(err))
	}
	logger.Info("Search capabilities", zap.Stringer("capabilities", caps))

	resolver := bootstrap.NewResolver(cfg.Geocoding, cache, logger)
	records := directoryrepo.New(store)

	deps := searchuc.Deps{
		Records:  records,
		Zips:     spatialrepo.NewZipIndex(store),
		Resolver: resolver,
		Radius:   radius.New(resolver, cfg.Search.CandidateConcurrency),
	}
	// Pass nil interface (not typed nil pointer!) when the store has no spatial index.
	if store.Postgres != nil && caps.Spatial() {
		deps.Spatial = spatialrepo.New(store.Postgres)
	}

	searchSvc := searchuc.New(deps, caps, searchuc.Config{
		RequestTimeout: time.Duration(cfg.Search.RequestTimeoutMs) * time.Millisecond,
		MaxCandidates:  cfg.Search.MaxCandidates,
	}, logger)
	directorySvc := directoryuc.New(records, cfg.Offices, cfg.DefaultContactEmail)

	// cache.Health stays a nil interface for local caches.
	healthSvc := healthuc.New(store, cache.Health)

	limits := params.Limits{
		DefaultPageSize:    cfg.Search.DefaultPageSize,
		MaxPageSize:        cfg.Search.MaxPageSize,
		DefaultRadiusMiles: cfg.Search.DefaultRadiusMiles,
		MaxRadiusMiles:     cfg.Search.MaxRadiusMiles,
	}
	server := chiTransport.NewServer(searchSvc, directorySvc, healthSvc, limits, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	gen.HandlerWithOptions(server, gen.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.BadRequestHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(gen.ErrorResponse{
						Code:    gen.ErrorResponseCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
