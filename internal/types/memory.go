package types

import (
	"time"

	"github.com/google/uuid"
)

// TripHistory is a saved planning run.
type TripHistory struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user_id"`
	City       string      `json:"city"`
	StartDate  string      `json:"start_date"`
	EndDate    string      `json:"end_date"`
	TravelDays int         `json:"travel_days"`
	Request    TripRequest `json:"request"`
	Plan       TripPlan    `json:"plan"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TripHistorySummary is the list view of a saved trip.
type TripHistorySummary struct {
	ID         uuid.UUID `json:"id"`
	City       string    `json:"city"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TravelDays int       `json:"travel_days"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserPreferences accumulates what a user tends to choose across trips.
type UserPreferences struct {
	UserID               uuid.UUID      `json:"user_id"`
	RecentCities         []string       `json:"recent_cities"`
	TransportationCounts map[string]int `json:"transportation_counts"`
	AccommodationCounts  map[string]int `json:"accommodation_counts"`
	PreferenceTags       map[string]int `json:"preference_tags"`
	ConversationSnippets []string       `json:"conversation_snippets"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func NewUserPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:               userID,
		RecentCities:         []string{},
		TransportationCounts: map[string]int{},
		AccommodationCounts:  map[string]int{},
		PreferenceTags:       map[string]int{},
		ConversationSnippets: []string{},
	}
}
