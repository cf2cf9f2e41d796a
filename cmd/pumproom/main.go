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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fuelgrid-cloud/pumproom/internal/config"
	logpkg "github.com/fuelgrid-cloud/pumproom/internal/logger"
	"github.com/fuelgrid-cloud/pumproom/internal/metrics"
	"github.com/fuelgrid-cloud/pumproom/internal/repository/records"
	"github.com/fuelgrid-cloud/pumproom/internal/store"
	storeMemory "github.com/fuelgrid-cloud/pumproom/internal/store/memory"
	storeMongo "github.com/fuelgrid-cloud/pumproom/internal/store/mongo"
	chiTransport "github.com/fuelgrid-cloud/pumproom/internal/transport/chi"
	bulkuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/bulk"
	healthuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/health"
	listinguc "github.com/fuelgrid-cloud/pumproom/internal/usecase/listing"
	requestsuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/requests"
	searchuc "github.com/fuelgrid-cloud/pumproom/internal/usecase/search"
	"github.com/fuelgrid-cloud/pumproom/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting pumproom API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := context.Background()

	var docStore store.Store
	switch cfg.Database.Driver {
	case "mongo":
		mongoStore, err := storeMongo.NewStore(ctx, storeMongo.Config{
			URI:      cfg.Database.URI,
			Database: cfg.Database.Name,
		})
		if err != nil {
			logger.Fatal("Failed to create document store", zap.Error(err))
		}
		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := mongoStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Document store not ready", zap.Error(err))
		}
		docStore = mongoStore
	case "memory":
		docStore = storeMemory.NewStore()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	defer func() { _ = docStore.Close(ctx) }()
	logger.Info("Connected to document store")

	// Repositories and use case services — composition root
	recordsRepo := records.New(docStore)

	searchSvc := searchuc.New(recordsRepo, logger).
		WithMaxCandidatesPerSource(cfg.Search.MaxCandidatesPerSource)
	listingSvc := listinguc.New(recordsRepo).
		WithSnapshotLimit(cfg.Listing.SnapshotLimit)
	bulkSvc := bulkuc.New(recordsRepo, logger).
		WithMaxBatchSize(cfg.Listing.MaxBatchSize)
	requestsSvc := requestsuc.New(recordsRepo, logger)
	healthSvc := healthuc.New(docStore)

	server := chiTransport.NewServer(
		searchSvc, listingSvc, bulkSvc, requestsSvc, healthSvc, recordsRepo, logger,
	).WithPagination(cfg.Listing.DefaultPageSize, cfg.Listing.MaxPageSize)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Handle("/metrics", promhttp.Handler())
	server.Mount(r)

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

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain
// text stacktrace.
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
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates
// X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
