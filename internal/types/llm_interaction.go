package types

import (
	"encoding/json"

	"github.com/google/uuid"
)

// LlmInteraction records one synthesis call for auditing.
type LlmInteraction struct {
	UserID         *uuid.UUID      `json:"user_id,omitempty"`
	City           string          `json:"city"`
	Prompt         string          `json:"prompt"`
	RequestPayload json.RawMessage `json:"request_payload"`
	ResponseText   string          `json:"response_text"`
	ModelUsed      string          `json:"model_used"`
	Fallback       bool            `json:"fallback"`
	LatencyMs      int             `json:"latency_ms"`
}
