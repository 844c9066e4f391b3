package planner

import (
	"fmt"
	"time"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

// StageResult is what one retrieval stage hands back to the coordinator.
// A non-nil Err marks the stage as failed; Items is then empty.
type StageResult[T any] struct {
	Stage    string
	Items    []T
	Err      error
	Duration time.Duration
}

func (r StageResult[T]) Failed() bool { return r.Err != nil }

// PlanningState is the aggregate for one run. Stages never touch it directly:
// the coordinator merges their results after all of them have settled.
type PlanningState struct {
	Request       types.TripRequest
	Attractions   []types.NormalizedPOI
	Weather       []types.DailyWeather
	Hotels        []types.NormalizedPOI
	Errors        []string
	Progress      map[string]types.StageProgress
	MemoryContext string
	Plan          *types.TripPlan

	fallback    bool
	prompt      string
	rawResponse string
	llmLatency  time.Duration
}

func newPlanningState(req types.TripRequest, memoryContext string) *PlanningState {
	return &PlanningState{
		Request:       req,
		Attractions:   []types.NormalizedPOI{},
		Weather:       []types.DailyWeather{},
		Hotels:        []types.NormalizedPOI{},
		Errors:        []string{},
		MemoryContext: memoryContext,
		Progress: map[string]types.StageProgress{
			types.StageAttractions: {Status: types.StagePending},
			types.StageWeather:     {Status: types.StagePending},
			types.StageHotels:      {Status: types.StagePending},
			types.StagePlanning:    {Status: types.StagePending},
		},
	}
}

// mergeStage records a stage's outcome on the state and returns the items to keep.
func mergeStage[T any](s *PlanningState, r StageResult[T]) []T {
	if r.Failed() {
		s.Errors = append(s.Errors, fmt.Sprintf("%s search failed: %v", r.Stage, r.Err))
		s.Progress[r.Stage] = types.StageProgress{Status: types.StageFailed, Progress: 100}
		return []T{}
	}
	s.Progress[r.Stage] = types.StageProgress{Status: types.StageCompleted, Progress: 100}
	if r.Items == nil {
		return []T{}
	}
	return r.Items
}

func (s *PlanningState) merge(attractions StageResult[types.NormalizedPOI], weather StageResult[types.DailyWeather], hotels StageResult[types.NormalizedPOI]) {
	s.Attractions = mergeStage(s, attractions)
	s.Weather = mergeStage(s, weather)
	s.Hotels = mergeStage(s, hotels)
}

func (s *PlanningState) result() *types.PlanResult {
	stages := make(map[string]types.StageProgress, len(s.Progress))
	for k, v := range s.Progress {
		stages[k] = v
	}
	return &types.PlanResult{
		Plan:        s.Plan,
		Errors:      append([]string{}, s.Errors...),
		Stages:      stages,
		Fallback:    s.fallback,
		Prompt:      s.prompt,
		RawResponse: s.rawResponse,
		LLMLatency:  s.llmLatency,
	}
}

func firstN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
