package memory

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
	assert.Equal(t, "", BuildContext(types.NewUserPreferences(uuid.New())))
}

func TestBuildContext(t *testing.T) {
	prefs := types.NewUserPreferences(uuid.New())
	prefs.RecentCities = []string{"Beijing", "Shanghai", "Xi'an", "Chengdu", "Hangzhou", "Suzhou"}
	prefs.TransportationCounts = map[string]int{"walking": 1, "public transit": 3}
	prefs.AccommodationCounts = map[string]int{"hotel": 2}
	prefs.PreferenceTags = map[string]int{"history": 5, "food": 4, "museums": 4, "nightlife": 1}
	prefs.ConversationSnippets = []string{"first", "second", "third", strings.Repeat("x", 150)}

	got := BuildContext(prefs)

	assert.Contains(t, got, "Recently visited cities: Beijing, Shanghai, Xi'an, Chengdu, Hangzhou")
	assert.NotContains(t, got, "Suzhou")
	assert.Contains(t, got, "Preferred transportation: public transit")
	assert.Contains(t, got, "Preferred accommodation: hotel")
	assert.Contains(t, got, "Frequently chosen interests: history, food, museums")
	assert.NotContains(t, got, "nightlife")
	assert.NotContains(t, got, "- first")
	assert.Contains(t, got, "- second")
	assert.Contains(t, got, "- "+strings.Repeat("x", 100)+"...")
}

func TestUpdatePreferences(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	prefs := types.NewUserPreferences(uuid.New())
	prefs.RecentCities = []string{"Shanghai", "Beijing"}

	req := types.TripRequest{
		City:           "Beijing",
		StartDate:      "2024-05-01",
		TravelDays:     3,
		Transportation: "walking",
		Accommodation:  "hotel",
		Preferences:    []string{"history", " ", "food"},
	}
	UpdatePreferences(prefs, req, now)

	assert.Equal(t, []string{"Beijing", "Shanghai"}, prefs.RecentCities)
	assert.Equal(t, 1, prefs.TransportationCounts["walking"])
	assert.Equal(t, 1, prefs.AccommodationCounts["hotel"])
	assert.Equal(t, map[string]int{"history": 1, "food": 1}, prefs.PreferenceTags)
	require.Len(t, prefs.ConversationSnippets, 1)
	assert.Equal(t, "3-day trip to Beijing from 2024-05-01 (history, food)", prefs.ConversationSnippets[0])
	assert.Equal(t, now, prefs.UpdatedAt)
}

func TestUpdatePreferences_Caps(t *testing.T) {
	prefs := &types.UserPreferences{}
	for i := 0; i < 25; i++ {
		UpdatePreferences(prefs, types.TripRequest{City: fmt.Sprintf("city-%d", i), TravelDays: 1}, time.Now())
	}

	assert.Len(t, prefs.RecentCities, 10)
	assert.Equal(t, "city-24", prefs.RecentCities[0])
	assert.Len(t, prefs.ConversationSnippets, 20)
	assert.Contains(t, prefs.ConversationSnippets[19], "city-24")
	assert.Empty(t, prefs.TransportationCounts)
}
