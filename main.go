package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	appLogger "github.com/ChampLong29/Multi-Agents-trip-planner/app/logger"
	appMiddleware "github.com/ChampLong29/Multi-Agents-trip-planner/app/middleware"
	"github.com/ChampLong29/Multi-Agents-trip-planner/app/observability/metrics"
	"github.com/ChampLong29/Multi-Agents-trip-planner/app/tracer"
	"github.com/ChampLong29/Multi-Agents-trip-planner/config"
	_ "github.com/ChampLong29/Multi-Agents-trip-planner/docs"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/container"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/router"
)

// @title                      Multi-Agents Trip Planner API
// @version                    1.0
// @description                Plans multi-day trips by searching attractions, weather and hotels concurrently and asking an LLM to assemble the itinerary.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.SetupLogger(os.Stdout, cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	telemetry, err := tracer.InitTracingAndMetrics(cfg.Observability.ServiceName)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	// --- Dependency Injection ---
	c, err := container.NewContainer(ctx, &cfg, metrics.Get(), logger)
	if err != nil {
		logger.Error("Failed to build application container", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	// --- Router Setup ---
	apiRouter := router.SetupRouter(&router.Config{
		PlannerHandler:         c.PlannerHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate(logger, cfg.JWT),
		OptionalAuthMiddleware: appMiddleware.OptionalAuthenticate(logger, cfg.JWT),
		MetricsHandler:         telemetry.MetricsHandler,
		PlanTimeout:            cfg.Server.Timeout,
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	// --- HTTP Server Setup ---
	writeTimeout := cfg.Server.Timeout
	if writeTimeout <= 0 {
		writeTimeout = 3 * time.Minute
	}
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      otelhttp.NewHandler(mux, "trip-planner-http"),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: writeTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("Telemetry shutdown failed", slog.Any("error", err))
	}

	logger.Info("Application shut down complete.")
}
