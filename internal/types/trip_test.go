package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() TripRequest {
	return TripRequest{
		City:           "Beijing",
		StartDate:      "2024-05-01",
		EndDate:        "2024-05-03",
		TravelDays:     3,
		Transportation: "driving",
		Accommodation:  "hotel",
		Preferences:    []string{"history"},
	}
}

func TestTripRequestValidate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		assert.NoError(t, validRequest().Validate())
	})

	t.Run("missing city", func(t *testing.T) {
		req := validRequest()
		req.City = "  "
		assert.ErrorIs(t, req.Validate(), ErrMissingCity)
	})

	t.Run("bad start date", func(t *testing.T) {
		req := validRequest()
		req.StartDate = "05/01/2024"
		assert.Error(t, req.Validate())
	})

	t.Run("end before start", func(t *testing.T) {
		req := validRequest()
		req.EndDate = "2024-04-30"
		assert.ErrorIs(t, req.Validate(), ErrInvalidDateRange)
	})

	t.Run("travel days inconsistent with range", func(t *testing.T) {
		req := validRequest()
		req.TravelDays = 5
		assert.ErrorIs(t, req.Validate(), ErrTravelDays)
	})

	t.Run("zero travel days", func(t *testing.T) {
		req := validRequest()
		req.TravelDays = 0
		assert.ErrorIs(t, req.Validate(), ErrTravelDays)
	})
}

func TestTripRequestDates(t *testing.T) {
	req := validRequest()
	req.StartDate = "2024-02-28"
	req.EndDate = "2024-03-01"
	assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, req.Dates())

	req.StartDate = "garbage"
	assert.Empty(t, req.Dates())
}

func TestRecomputeBudget(t *testing.T) {
	plan := TripPlan{
		Days: []DayPlan{
			{
				Hotel:       &Hotel{Name: "A", EstimatedCost: 400},
				Attractions: []Attraction{{Name: "x", TicketPrice: 60}, {Name: "y", TicketPrice: 40}},
				Meals:       []Meal{{Type: "breakfast", EstimatedCost: 30}, {Type: "lunch", EstimatedCost: 50}, {Type: "dinner", EstimatedCost: 100}},
			},
			{
				Attractions: []Attraction{{Name: "z", TicketPrice: 20}},
			},
		},
		Budget: &Budget{TotalTransportation: 80, Total: 1},
	}

	plan.RecomputeBudget()

	require.NotNil(t, plan.Budget)
	assert.Equal(t, Amount(120), plan.Budget.TotalAttractions)
	assert.Equal(t, Amount(400), plan.Budget.TotalHotels)
	assert.Equal(t, Amount(180), plan.Budget.TotalMeals)
	assert.Equal(t, Amount(80), plan.Budget.TotalTransportation)
	assert.Equal(t, Amount(780), plan.Budget.Total)
}

func TestLenientDecoding(t *testing.T) {
	raw := `{
		"name": "Forbidden City",
		"address": ["4 Jingshan Front St", "Dongcheng"],
		"location": {"longitude": 116.397, "latitude": 39.918},
		"visit_duration": "180 minutes",
		"description": null,
		"category": 3,
		"ticket_price": "¥60"
	}`

	var a Attraction
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	assert.Equal(t, "Forbidden City", a.Name)
	assert.Equal(t, Text("4 Jingshan Front St"), a.Address)
	assert.Equal(t, Amount(180), a.VisitDuration)
	assert.Equal(t, Text(""), a.Description)
	assert.Equal(t, Text("3"), a.Category)
	assert.Equal(t, Amount(60), a.TicketPrice)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{"150", 150},
		{"约150元", 150},
		{"12.5", 12.5},
		{"free", 0},
		{"", 0},
		{"-3", -3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAmount(tt.in), tt.in)
	}
}
