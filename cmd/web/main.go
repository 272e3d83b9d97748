package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"sellers-dashboard/internal/config"
	"sellers-dashboard/internal/handlers"
	"sellers-dashboard/internal/middleware"
	"sellers-dashboard/internal/observability"
	"sellers-dashboard/internal/server"
	"sellers-dashboard/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", handlers.Version,
		"xlsx_file", cfg.Data.XLSXFile,
		"sheet", cfg.Data.Sheet,
		"addr", cfg.Address(),
	)

	dashboard := services.NewDashboard(
		services.WithCacheDir(cfg.Data.CacheDir),
		services.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	err = dashboard.LoadFromXLSX(ctx, cfg.Data.XLSXFile, services.LoadOptions{Sheet: cfg.Data.Sheet})
	cancel()
	if err != nil {
		var loadErr *services.DataLoadError
		if errors.As(err, &loadErr) {
			logger.Error("failed to load sales data", "path", loadErr.Path, "reason", loadErr.Reason, "error", loadErr.Err)
		} else {
			logger.Error("failed to load sales data", "error", err)
		}
		os.Exit(1)
	}

	handler := newHandler(cfg, dashboard, logger)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook("dashboard", func(ctx context.Context) error {
		logger.Info("shutting down dashboard service", "stats", dashboard.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

// newHandler wires the routes behind the middleware chain.
func newHandler(cfg *config.Config, dashboard *services.Dashboard, logger *slog.Logger) http.Handler {
	srv := server.NewServer(dashboard, logger, cfg.Metrics)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.Metrics(srv.Route),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}
