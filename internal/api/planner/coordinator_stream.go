package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

const (
	streamBufferSize = 32
	sendTimeout      = 2 * time.Second
)

// PlanTripStream runs the same pipeline as PlanTrip and reports it as events. The
// channel is closed after the terminal complete or error event. Events go out on the
// caller's context: once it is cancelled, the remaining events are dropped while the
// run itself still finishes. onDone, when not nil, receives the final result after the
// complete event has been sent.
func (p *Planner) PlanTripStream(ctx context.Context, req types.TripRequest, memoryContext string, onDone func(*types.PlanResult)) <-chan types.StreamEvent {
	eventCh := make(chan types.StreamEvent, streamBufferSize)

	go func() {
		defer close(eventCh)

		runCtx, span := otel.Tracer("TripPlanner").Start(context.WithoutCancel(ctx), "PlanTripStream", trace.WithAttributes(
			attribute.String("city", req.City),
			attribute.Int("travel_days", req.TravelDays),
		))
		defer span.End()

		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("planning panicked: %v", r)
				span.RecordError(err)
				span.SetStatus(codes.Error, "Streaming run panicked")
				p.logger.ErrorContext(runCtx, "Streaming run panicked", slog.Any("error", err))
				p.sendEvent(ctx, eventCh, types.StreamEvent{
					Type:    types.EventTypeError,
					Error:   err.Error(),
					Message: "Trip planning failed",
					IsFinal: true,
				})
			}
		}()

		p.metrics.RecordRun(runCtx, true)
		p.sendEvent(ctx, eventCh, types.StreamEvent{
			Type:    types.EventTypeStart,
			Message: fmt.Sprintf("Planning a %d-day trip to %s", req.TravelDays, req.City),
		})

		state := newPlanningState(req, memoryContext)
		obs := &streamObserver{p: p, ctx: ctx, ch: eventCh}
		attractions, weather, hotels := p.runStages(runCtx, req, obs)
		state.merge(attractions, weather, hotels)

		p.sendEvent(ctx, eventCh, types.StreamEvent{
			Type:     types.EventTypeProgress,
			Agent:    types.StagePlanning,
			Status:   types.StageRunning,
			Progress: 50,
			Message:  "Generating itinerary",
		})
		p.synthesize(runCtx, state)

		result := state.result()
		span.SetAttributes(attribute.Bool("fallback", result.Fallback))
		span.SetStatus(codes.Ok, "Trip planned")

		p.sendEvent(ctx, eventCh, types.StreamEvent{
			Type:     types.EventTypeComplete,
			Agent:    types.StagePlanning,
			Status:   result.Stages[types.StagePlanning].Status,
			Progress: 100,
			Message:  "Trip plan ready",
			Plan:     result.Plan,
			Data: map[string]interface{}{
				"errors":   result.Errors,
				"fallback": result.Fallback,
			},
			IsFinal: true,
		})

		if onDone != nil {
			onDone(result)
		}
	}()

	return eventCh
}

func (p *Planner) sendEvent(ctx context.Context, ch chan<- types.StreamEvent, event types.StreamEvent) (sent bool) {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Context cancelled, not sending stream event", slog.String("eventType", event.Type))
		return false
	default:
		select {
		case ch <- event:
			return true
		case <-ctx.Done():
			p.logger.WarnContext(ctx, "Context cancelled while trying to send stream event", slog.String("eventType", event.Type))
			return false
		case <-time.After(sendTimeout):
			p.logger.WarnContext(ctx, "Dropped stream event due to slow consumer or blocked channel (timeout)", slog.String("eventType", event.Type))
			return false
		}
	}
}

// streamObserver turns stage lifecycle callbacks into events.
type streamObserver struct {
	p   *Planner
	ctx context.Context
	ch  chan<- types.StreamEvent
}

func (o *streamObserver) stageStarted(stage string) {
	o.p.sendEvent(o.ctx, o.ch, types.StreamEvent{
		Type:     types.EventTypeProgress,
		Agent:    stage,
		Status:   types.StageRunning,
		Progress: 10,
		Message:  fmt.Sprintf("Searching %s", stage),
	})
}

func (o *streamObserver) stageFinished(stage string, err error, count int, sample interface{}) {
	if err != nil {
		o.p.sendEvent(o.ctx, o.ch, types.StreamEvent{
			Type:     types.EventTypeProgress,
			Agent:    stage,
			Status:   types.StageFailed,
			Progress: 100,
			Message:  fmt.Sprintf("%s search failed", stage),
			Error:    err.Error(),
		})
		return
	}
	o.p.sendEvent(o.ctx, o.ch, types.StreamEvent{
		Type:     types.EventTypeProgress,
		Agent:    stage,
		Status:   types.StageCompleted,
		Progress: 100,
		Message:  fmt.Sprintf("Found %d %s results", count, stage),
	})
	o.p.sendEvent(o.ctx, o.ch, types.StreamEvent{
		Type:  types.EventTypeData,
		Agent: stage,
		Data:  sample,
	})
}
