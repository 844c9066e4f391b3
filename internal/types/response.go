package types

// Response is the envelope for error replies.
type Response struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// TripPlanResponse is the body of a successful planning call.
type TripPlanResponse struct {
	Success  bool                     `json:"success"`
	Message  string                   `json:"message"`
	Data     *TripPlan                `json:"data"`
	Errors   []string                 `json:"errors"`
	Stages   map[string]StageProgress `json:"stages"`
	Fallback bool                     `json:"fallback"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	CacheSize int    `json:"cache_size"`
}

type TripHistoryListResponse struct {
	Success bool                 `json:"success"`
	Data    []TripHistorySummary `json:"data"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}
