package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/amap"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

func drain(t *testing.T, ch <-chan types.StreamEvent) []types.StreamEvent {
	t.Helper()
	var events []types.StreamEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, event)
		case <-timeout:
			t.Fatal("stream did not close")
			return events
		}
	}
}

func eventsFor(events []types.StreamEvent, agent string) []types.StreamEvent {
	var out []types.StreamEvent
	for _, e := range events {
		if e.Agent == agent {
			out = append(out, e)
		}
	}
	return out
}

func TestPlanTripStream_EventSequence(t *testing.T) {
	poi, weather := beijingProviders(t)
	p := NewPlanner(poi, weather, replyWith(beijingModelReply), Config{}, nil, discardLogger())

	var done *types.PlanResult
	events := drain(t, p.PlanTripStream(context.Background(), beijingRequest(), "", func(r *types.PlanResult) {
		done = r
	}))

	require.NotEmpty(t, events)
	first, last := events[0], events[len(events)-1]
	assert.Equal(t, types.EventTypeStart, first.Type)
	assert.Equal(t, "Planning a 3-day trip to Beijing", first.Message)
	assert.Equal(t, types.EventTypeComplete, last.Type)
	assert.True(t, last.IsFinal)
	assert.Equal(t, 100, last.Progress)
	require.NotNil(t, last.Plan)
	assert.Len(t, last.Plan.Days, 3)

	ids := make(map[string]bool, len(events))
	for _, e := range events {
		assert.NotEmpty(t, e.EventID)
		assert.False(t, e.Timestamp.IsZero())
		assert.False(t, ids[e.EventID], "duplicate event id")
		ids[e.EventID] = true
	}

	for _, stage := range []string{types.StageAttractions, types.StageWeather, types.StageHotels} {
		staged := eventsFor(events, stage)
		require.Len(t, staged, 3, stage)
		assert.Equal(t, types.EventTypeProgress, staged[0].Type)
		assert.Equal(t, types.StageRunning, staged[0].Status)
		assert.Equal(t, types.EventTypeProgress, staged[1].Type)
		assert.Equal(t, types.StageCompleted, staged[1].Status)
		assert.Equal(t, types.EventTypeData, staged[2].Type)
		assert.NotNil(t, staged[2].Data)
	}

	planning := eventsFor(events, types.StagePlanning)
	require.Len(t, planning, 2)
	assert.Equal(t, types.StageRunning, planning[0].Status)
	assert.Equal(t, 50, planning[0].Progress)
	assert.Equal(t, types.StageCompleted, planning[1].Status)

	require.NotNil(t, done)
	assert.Equal(t, last.Plan, done.Plan)
}

func TestPlanTripStream_MatchesPlanTrip(t *testing.T) {
	poi, weather := beijingProviders(t)
	p := NewPlanner(poi, weather, replyWith(beijingModelReply), Config{}, nil, discardLogger())

	sync := p.PlanTrip(context.Background(), beijingRequest(), "")
	events := drain(t, p.PlanTripStream(context.Background(), beijingRequest(), "", nil))

	last := events[len(events)-1]
	require.Equal(t, types.EventTypeComplete, last.Type)
	assert.Equal(t, sync.Plan, last.Plan)
}

func TestPlanTripStream_FailedStage(t *testing.T) {
	poi, _ := beijingProviders(t)
	weather := forecastFunc(func(context.Context, string) ([]amap.RawForecast, error) {
		return nil, errors.New("amap: INVALID_USER_KEY")
	})
	p := NewPlanner(poi, weather, nil, Config{}, nil, discardLogger())

	events := drain(t, p.PlanTripStream(context.Background(), beijingRequest(), "", nil))

	staged := eventsFor(events, types.StageWeather)
	require.Len(t, staged, 2)
	assert.Equal(t, types.StageRunning, staged[0].Status)
	assert.Equal(t, types.StageFailed, staged[1].Status)
	assert.Equal(t, "amap: INVALID_USER_KEY", staged[1].Error)

	last := events[len(events)-1]
	assert.Equal(t, types.EventTypeComplete, last.Type)
	assert.Equal(t, types.StageFailed, last.Status)
	assert.Equal(t, FallbackPlan(beijingRequest()), last.Plan)
	data, ok := last.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["fallback"])
	assert.Len(t, data["errors"], 2)
}

func TestPlanTripStream_CancelledCallerStillFinishes(t *testing.T) {
	poi, weather := beijingProviders(t)
	p := NewPlanner(poi, weather, replyWith(beijingModelReply), Config{}, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var done *types.PlanResult
	events := drain(t, p.PlanTripStream(ctx, beijingRequest(), "", func(r *types.PlanResult) {
		done = r
	}))

	assert.Empty(t, events)
	require.NotNil(t, done)
	assert.False(t, done.Fallback)
	assert.Len(t, done.Plan.Days, 3)
}
