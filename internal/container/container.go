package container

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/ChampLong29/Multi-Agents-trip-planner/app/db"
	"github.com/ChampLong29/Multi-Agents-trip-planner/app/observability/metrics"
	"github.com/ChampLong29/Multi-Agents-trip-planner/config"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/amap"
	generativeAI "github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/generative_ai"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/memory"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/planner"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Pool           *pgxpool.Pool
	PlannerService planner.Service
	PlannerHandler *planner.HandlerImpl
}

// NewContainer builds the planner stack. Postgres is optional: without it the planner
// runs with no user memory and the history endpoints report 503. A missing Gemini key
// is also tolerated; every run then ends with the fallback plan.
func NewContainer(ctx context.Context, cfg *config.Config, m *metrics.AppMetrics, logger *slog.Logger) (*Container, error) {
	amapClient, err := amap.NewClient(amap.Config{
		BaseURL:  cfg.Amap.BaseURL,
		APIKey:   cfg.Amap.APIKey,
		Timeout:  cfg.Amap.Timeout,
		PageSize: cfg.Amap.PageSize,
	}, logger.With(slog.String("component", "amap")))
	if err != nil {
		logger.Error("Failed to create AMap client", slog.Any("error", err))
		return nil, err
	}

	var llm planner.TextGenerator
	modelName := cfg.LLM.Model
	aiClient, err := generativeAI.NewAIClient(ctx, generativeAI.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	}, logger.With(slog.String("component", "gemini")))
	switch {
	case errors.Is(err, generativeAI.ErrMissingAPIKey):
		logger.Warn("No Gemini API key configured, every plan will be the fallback itinerary")
	case err != nil:
		logger.Error("Failed to create Gemini client", slog.Any("error", err))
		return nil, err
	default:
		llm = aiClient
		modelName = aiClient.Model()
	}

	var pool *pgxpool.Pool
	var memoryStore planner.MemoryStore
	var history planner.HistoryStore
	if cfg.Repositories.Postgres.Enabled {
		pool, err = initDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		memoryRepo := memory.NewRepository(pool, logger, m)
		memoryService := memory.NewServiceImpl(memoryRepo, logger)
		memoryStore = memoryService
		history = memoryService
	} else {
		logger.Info("Postgres disabled, running without trip history or user memory")
	}

	tripPlanner := planner.NewPlanner(amapClient, amapClient, llm, planner.Config{
		AttractionCap: cfg.Planner.AttractionCap,
		HotelCap:      cfg.Planner.HotelCap,
		StageTimeout:  cfg.Planner.StageTimeout,
		LLMTimeout:    cfg.LLM.Timeout,
	}, m, logger.With(slog.String("component", "planner")))

	plannerService := planner.NewServiceImpl(tripPlanner, memoryStore, planner.ServiceOptions{
		CacheTTL:  cfg.Planner.CacheTTL,
		CacheSize: cfg.Planner.CacheSize,
		ModelName: modelName,
	}, m, logger)
	plannerHandler := planner.NewHandler(plannerService, history, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Pool:           pool,
		PlannerService: plannerService,
		PlannerHandler: plannerHandler,
	}, nil
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg.Repositories.Postgres, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(ctx, dbConfig, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	if !database.WaitForDB(ctx, pool, logger) {
		pool.Close()
		return nil, errors.New("database not ready after waiting")
	}
	return pool, nil
}

// Close releases all resources
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	c.Logger.Info("Container resources released")
}
