package types

import "time"

type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageRunning   StageStatus = "running"
	StageCompleted StageStatus = "completed"
	StageFailed    StageStatus = "failed"
)

// Stage names double as the agent names reported in stream events.
const (
	StageAttractions = "attractions"
	StageWeather     = "weather"
	StageHotels      = "hotels"
	StagePlanning    = "planning"
)

type StageProgress struct {
	Status   StageStatus `json:"status"`
	Progress int         `json:"progress"`
}

// PlanResult is what a planning run hands back: always a plan, plus diagnostics
// describing which stages degraded.
type PlanResult struct {
	Plan     *TripPlan                `json:"plan"`
	Errors   []string                 `json:"errors"`
	Stages   map[string]StageProgress `json:"stages"`
	Fallback bool                     `json:"fallback"`

	Prompt      string        `json:"-"`
	RawResponse string        `json:"-"`
	LLMLatency  time.Duration `json:"-"`
}

// Stream event types
const (
	EventTypeStart    = "start"
	EventTypeProgress = "progress"
	EventTypeData     = "data"
	EventTypeError    = "error"
	EventTypeComplete = "complete"
)

// StreamEvent is one record of the streaming planner. Each event serializes to a single JSON object.
type StreamEvent struct {
	Type      string      `json:"type"`
	Agent     string      `json:"agent,omitempty"`
	Status    StageStatus `json:"status,omitempty"`
	Progress  int         `json:"progress"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Plan      *TripPlan   `json:"plan,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	EventID   string      `json:"event_id"`
	IsFinal   bool        `json:"is_final,omitempty"`
}
