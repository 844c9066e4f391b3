package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ChampLong29/Multi-Agents-trip-planner/app/observability/metrics"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

const (
	DefaultStageTimeout = 20 * time.Second
	DefaultLLMTimeout   = 120 * time.Second
)

type Config struct {
	AttractionCap int
	HotelCap      int
	StageTimeout  time.Duration
	LLMTimeout    time.Duration
}

// Planner coordinates the retrieval stages and the synthesis call. It keeps no
// per-run state, so one instance serves concurrent runs.
type Planner struct {
	poi     POISearcher
	weather WeatherForecaster
	llm     TextGenerator
	cfg     Config
	metrics *metrics.AppMetrics
	logger  *slog.Logger
}

// NewPlanner wires the collaborators. llm may be nil, in which case every run ends
// with the fallback plan. m may be nil.
func NewPlanner(poi POISearcher, weather WeatherForecaster, llm TextGenerator, cfg Config, m *metrics.AppMetrics, logger *slog.Logger) *Planner {
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = DefaultStageTimeout
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = DefaultLLMTimeout
	}
	return &Planner{
		poi:     poi,
		weather: weather,
		llm:     llm,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
	}
}

// PlanTrip runs the full pipeline and always returns a plan. Caller cancellation does
// not interrupt the run; each outbound call is bounded by its own timeout instead.
func (p *Planner) PlanTrip(ctx context.Context, req types.TripRequest, memoryContext string) *types.PlanResult {
	ctx, span := otel.Tracer("TripPlanner").Start(context.WithoutCancel(ctx), "PlanTrip", trace.WithAttributes(
		attribute.String("city", req.City),
		attribute.Int("travel_days", req.TravelDays),
	))
	defer span.End()

	p.metrics.RecordRun(ctx, false)
	p.logger.InfoContext(ctx, "Starting trip planning",
		slog.String("city", req.City),
		slog.String("start_date", req.StartDate),
		slog.String("end_date", req.EndDate),
		slog.Int("travel_days", req.TravelDays))

	state := newPlanningState(req, memoryContext)
	attractions, weather, hotels := p.runStages(ctx, req, noopObserver{})
	state.merge(attractions, weather, hotels)

	p.synthesize(ctx, state)

	result := state.result()
	span.SetAttributes(
		attribute.Int("errors.count", len(result.Errors)),
		attribute.Bool("fallback", result.Fallback),
	)
	span.SetStatus(codes.Ok, "Trip planned")
	p.logger.InfoContext(ctx, "Trip planning finished",
		slog.String("city", req.City),
		slog.Int("errors", len(result.Errors)),
		slog.Bool("fallback", result.Fallback))
	return result
}

// synthesize asks the model for the itinerary and parses it. Any failure is recorded
// and replaced by the fallback plan.
func (p *Planner) synthesize(ctx context.Context, state *PlanningState) {
	ctx, span := otel.Tracer("TripPlanner").Start(ctx, "synthesize")
	defer span.End()

	state.Progress[types.StagePlanning] = types.StageProgress{Status: types.StageRunning, Progress: 50}

	defer func() {
		if r := recover(); r != nil {
			p.useFallback(ctx, state, "panic", fmt.Errorf("synthesis panicked: %v", r))
		}
	}()

	if p.llm == nil {
		p.useFallback(ctx, state, "no_llm", fmt.Errorf("no language model configured"))
		return
	}

	state.prompt = BuildPlannerPrompt(PromptInput{
		Request:       state.Request,
		Attractions:   state.Attractions,
		Weather:       state.Weather,
		Hotels:        state.Hotels,
		MemoryContext: state.MemoryContext,
	})
	span.SetAttributes(attribute.Int("prompt.length", len(state.prompt)))

	llmCtx, cancel := context.WithTimeout(ctx, p.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	text, err := p.llm.Generate(llmCtx, plannerSystemPrompt, state.prompt)
	state.llmLatency = time.Since(start)
	p.metrics.RecordLLM(ctx, state.llmLatency.Seconds(), err != nil)
	if err != nil {
		span.RecordError(err)
		p.useFallback(ctx, state, "llm_error", fmt.Errorf("llm call failed: %w", err))
		return
	}
	state.rawResponse = text

	outcome, err := ParsePlan(text, state.Request, state.Weather, state.Hotels)
	if err != nil {
		span.RecordError(err)
		p.useFallback(ctx, state, "parse_error", err)
		return
	}
	if outcome.Repaired {
		p.logger.InfoContext(ctx, "Model response needed repair before parsing")
	}

	state.Plan = outcome.Plan
	state.Progress[types.StagePlanning] = types.StageProgress{Status: types.StageCompleted, Progress: 100}
	span.SetStatus(codes.Ok, "Plan synthesized")
}

func (p *Planner) useFallback(ctx context.Context, state *PlanningState, reason string, err error) {
	p.logger.WarnContext(ctx, "Using fallback plan", slog.String("reason", reason), slog.Any("error", err))
	p.metrics.RecordFallback(ctx, reason)
	state.Errors = append(state.Errors, fmt.Sprintf("planning failed: %v", err))
	state.Progress[types.StagePlanning] = types.StageProgress{Status: types.StageFailed, Progress: 100}
	state.Plan = FallbackPlan(state.Request)
	state.fallback = true
}
