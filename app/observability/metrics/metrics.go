package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// A nil *AppMetrics is valid and records nothing, which keeps tests free of a meter provider.
type AppMetrics struct {
	PlanningRunsTotal      metric.Int64Counter
	StageDurationSeconds   metric.Float64Histogram
	StageFailuresTotal     metric.Int64Counter
	FallbackPlansTotal     metric.Int64Counter
	LLMDurationSeconds     metric.Float64Histogram
	PlanCacheHitsTotal     metric.Int64Counter
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// New creates the instruments on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	if m.PlanningRunsTotal, err = meter.Int64Counter(
		"planning_runs_total",
		metric.WithDescription("Total number of trip planning runs"),
		metric.WithUnit("{run}"),
	); err != nil {
		return nil, err
	}

	if m.StageDurationSeconds, err = meter.Float64Histogram(
		"planning_stage_duration_seconds",
		metric.WithDescription("Duration of planning stages in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.StageFailuresTotal, err = meter.Int64Counter(
		"planning_stage_failures_total",
		metric.WithDescription("Total number of failed planning stages"),
		metric.WithUnit("{failure}"),
	); err != nil {
		return nil, err
	}

	if m.FallbackPlansTotal, err = meter.Int64Counter(
		"planning_fallback_plans_total",
		metric.WithDescription("Total number of runs that ended with the synthetic fallback plan"),
		metric.WithUnit("{plan}"),
	); err != nil {
		return nil, err
	}

	if m.LLMDurationSeconds, err = meter.Float64Histogram(
		"llm_request_duration_seconds",
		metric.WithDescription("Duration of LLM synthesis calls in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.PlanCacheHitsTotal, err = meter.Int64Counter(
		"plan_cache_hits_total",
		metric.WithDescription("Total number of plan requests served from the duplicate-request cache"),
		metric.WithUnit("{hit}"),
	); err != nil {
		return nil, err
	}

	if m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		m, err := New(otel.GetMeterProvider().Meter("TripPlanner"))
		if err != nil {
			log.Fatalf("Metrics: Failed to create instruments: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

func (m *AppMetrics) RecordRun(ctx context.Context, streaming bool) {
	if m == nil {
		return
	}
	m.PlanningRunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("streaming", streaming)))
}

func (m *AppMetrics) RecordStage(ctx context.Context, stage string, seconds float64, failed bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("stage", stage))
	m.StageDurationSeconds.Record(ctx, seconds, attrs)
	if failed {
		m.StageFailuresTotal.Add(ctx, 1, attrs)
	}
}

func (m *AppMetrics) RecordFallback(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.FallbackPlansTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *AppMetrics) RecordLLM(ctx context.Context, seconds float64, failed bool) {
	if m == nil {
		return
	}
	m.LLMDurationSeconds.Record(ctx, seconds, metric.WithAttributes(attribute.Bool("error", failed)))
}

func (m *AppMetrics) RecordCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.PlanCacheHitsTotal.Add(ctx, 1)
}

func (m *AppMetrics) RecordQuery(ctx context.Context, operation string, seconds float64, failed bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.DbQueryDurationSeconds.Record(ctx, seconds, attrs)
	if failed {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
