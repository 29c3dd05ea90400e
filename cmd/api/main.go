package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpAdapter "github.com/lorrc/cw-dashboard/internal/adapters/primary/http"
	mw "github.com/lorrc/cw-dashboard/internal/adapters/primary/http/middleware"
	"github.com/lorrc/cw-dashboard/internal/adapters/secondary/connectwise"
	"github.com/lorrc/cw-dashboard/internal/config"
	"github.com/lorrc/cw-dashboard/internal/core/domain"
	"github.com/lorrc/cw-dashboard/internal/core/services"
	"github.com/lorrc/cw-dashboard/internal/infrastructure/logging"
	"github.com/lorrc/cw-dashboard/internal/infrastructure/metrics"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"upstream_configured", cfg.Configured(),
	)
	if !cfg.Configured() {
		logger.Warn("upstream credentials incomplete; data endpoints will surface upstream auth failures")
	}

	// 3. Initialize Metrics
	recorder := metrics.NewNoop()
	if cfg.Metrics.Enabled {
		recorder = metrics.New(prometheus.DefaultRegisterer)
	}

	// 4. Upstream Client (Secondary Adapter)
	ticketSource, err := connectwise.New(connectwise.Config{
		Site:       cfg.Upstream.Site,
		Company:    cfg.Upstream.Company,
		PublicKey:  cfg.Upstream.PublicKey,
		PrivateKey: cfg.Upstream.PrivateKey,
		ClientID:   cfg.Upstream.ClientID,
		Proxy:      cfg.Upstream.Proxy,
		VerifySSL:  cfg.Upstream.VerifySSL,
		PageSize:   cfg.Upstream.PageSize,
		Timeout:    cfg.Upstream.Timeout,
	}, logger, recorder)
	if err != nil {
		logger.Error("failed to build upstream client", "error", err)
		os.Exit(1)
	}

	// 5. Services (Core)
	staleService := services.NewStaleTicketService(ticketSource, services.StaleViewConfig{
		CutoffHours:        cfg.Dashboard.StaleCutoffHours,
		ClosedStatuses:     domain.NewNameSet(cfg.Dashboard.ClosedStatuses...),
		ExcludedPriorities: domain.NewNameSet(cfg.Dashboard.ExcludedPriorities...),
		CriticalHours:      cfg.Dashboard.CriticalHours,
		WarningHours:       cfg.Dashboard.WarningHours,
		TopOldestCount:     cfg.Dashboard.TopOldestCount,
	}, logger)

	trendService := services.NewClosedTrendService(ticketSource, services.TrendConfig{
		WindowDays: cfg.Dashboard.TrendWindowDays,
	}, logger)

	// 6. Handlers (Primary Adapters)
	errorHandler := httpAdapter.NewErrorHandler(logger)
	dashboardHandler := httpAdapter.NewDashboardHandler(staleService, trendService, errorHandler, logger)
	configHandler := httpAdapter.NewConfigHandler(cfg)
	healthHandler := httpAdapter.NewHealthHandler(cfg, cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	if cfg.RateLimit.Enabled {
		limiter := mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
		r.Use(limiter.Middleware)
	}

	// Health check endpoints (outside /api for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.Metrics(recorder))
		r.Get("/config-check", configHandler.HandleConfigCheck)
		dashboardHandler.RegisterRoutes(r)
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
