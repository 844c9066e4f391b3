package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/normalize"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

// AMap keyword search matches Chinese category terms far better than English ones.
const (
	defaultAttractionKeyword = "景点"
	defaultHotelKeyword      = "酒店"

	dataSampleSize = 5
)

// stageObserver is told when a stage starts and when it settles. Calls for one
// stage always come from the same goroutine, start before finish.
type stageObserver interface {
	stageStarted(stage string)
	stageFinished(stage string, err error, count int, sample interface{})
}

type noopObserver struct{}

func (noopObserver) stageStarted(string) {}

func (noopObserver) stageFinished(string, error, int, interface{}) {}

// runStages runs the three retrieval stages concurrently and waits for all of them.
// Stage functions never return an error to the group, so one failure cannot cancel
// the others.
func (p *Planner) runStages(ctx context.Context, req types.TripRequest, obs stageObserver) (
	attractions StageResult[types.NormalizedPOI],
	weather StageResult[types.DailyWeather],
	hotels StageResult[types.NormalizedPOI],
) {
	var g errgroup.Group
	g.Go(func() error {
		attractions = runStage(ctx, p, types.StageAttractions, req, obs, p.searchAttractions)
		return nil
	})
	g.Go(func() error {
		weather = runStage(ctx, p, types.StageWeather, req, obs, p.searchWeather)
		return nil
	})
	g.Go(func() error {
		hotels = runStage(ctx, p, types.StageHotels, req, obs, p.searchHotels)
		return nil
	})
	_ = g.Wait()
	return attractions, weather, hotels
}

func runStage[T any](
	ctx context.Context,
	p *Planner,
	stage string,
	req types.TripRequest,
	obs stageObserver,
	fn func(context.Context, types.TripRequest) ([]T, error),
) (res StageResult[T]) {
	ctx, span := otel.Tracer("TripPlanner").Start(ctx, "stage."+stage, trace.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("city", req.City),
	))
	defer span.End()

	l := p.logger.With(slog.String("stage", stage), slog.String("city", req.City))
	obs.stageStarted(stage)
	l.DebugContext(ctx, "Stage started")
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res = StageResult[T]{Stage: stage, Items: []T{}, Err: fmt.Errorf("stage panicked: %v", r)}
		}
		res.Duration = time.Since(start)
		p.metrics.RecordStage(ctx, stage, res.Duration.Seconds(), res.Failed())

		if res.Failed() {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, "Stage failed")
			l.WarnContext(ctx, "Stage failed", slog.Any("error", res.Err), slog.Duration("duration", res.Duration))
		} else {
			span.SetAttributes(attribute.Int("results.count", len(res.Items)))
			span.SetStatus(codes.Ok, "Stage completed")
			l.InfoContext(ctx, "Stage completed", slog.Int("results", len(res.Items)), slog.Duration("duration", res.Duration))
		}
		obs.stageFinished(stage, res.Err, len(res.Items), firstN(res.Items, dataSampleSize))
	}()

	stageCtx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	items, err := fn(stageCtx, req)
	if err != nil {
		return StageResult[T]{Stage: stage, Items: []T{}, Err: err}
	}
	return StageResult[T]{Stage: stage, Items: items}
}

func (p *Planner) searchAttractions(ctx context.Context, req types.TripRequest) ([]types.NormalizedPOI, error) {
	keywords := defaultAttractionKeyword
	if len(req.Preferences) > 0 && strings.TrimSpace(req.Preferences[0]) != "" {
		keywords = req.Preferences[0]
	}
	raws, err := p.poi.SearchPOI(ctx, keywords, req.City, true)
	if err != nil {
		return nil, err
	}
	return normalize.Attractions(raws, p.cfg.AttractionCap), nil
}

func (p *Planner) searchWeather(ctx context.Context, req types.TripRequest) ([]types.DailyWeather, error) {
	forecasts, err := p.weather.Forecast(ctx, req.City)
	if err != nil {
		return nil, err
	}
	return normalize.WeatherForDates(forecasts, req.Dates()), nil
}

func (p *Planner) searchHotels(ctx context.Context, req types.TripRequest) ([]types.NormalizedPOI, error) {
	keywords := defaultHotelKeyword
	if strings.TrimSpace(req.Accommodation) != "" {
		keywords = req.Accommodation
	}
	raws, err := p.poi.SearchPOI(ctx, keywords, req.City, true)
	if err != nil {
		return nil, err
	}
	return normalize.Hotels(raws, p.cfg.HotelCap), nil
}
