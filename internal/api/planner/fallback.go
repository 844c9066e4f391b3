package planner

import (
	"fmt"
	"strings"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

const (
	fallbackBaseLongitude = 116.4
	fallbackBaseLatitude  = 39.9
	fallbackDayOffset     = 0.01
	fallbackSlotOffset    = 0.005
	fallbackAttractions   = 2
	fallbackVisitMinutes  = 120
)

var mealOrder = []string{"breakfast", "lunch", "dinner"}

// FallbackPlan builds the synthetic itinerary used whenever synthesis fails.
// It depends only on req and always succeeds.
func FallbackPlan(req types.TripRequest) *types.TripPlan {
	dates := req.Dates()
	days := make([]types.DayPlan, 0, len(dates))
	for i := 0; i < req.TravelDays; i++ {
		days = append(days, fallbackDay(req, i, dateAt(dates, i)))
	}

	plan := &types.TripPlan{
		City:        req.City,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Days:        days,
		WeatherInfo: []types.DailyWeather{},
		OverallSuggestions: types.Text(fmt.Sprintf(
			"This is a %d-day itinerary for %s. Check opening hours and ticket availability before visiting each attraction.",
			req.TravelDays, req.City)),
	}
	plan.RecomputeBudget()
	return plan
}

func fallbackDay(req types.TripRequest, i int, date string) types.DayPlan {
	attractions := make([]types.Attraction, 0, fallbackAttractions)
	for j := 0; j < fallbackAttractions; j++ {
		attractions = append(attractions, types.Attraction{
			Name:    fmt.Sprintf("%s attraction %d", req.City, j+1),
			Address: types.Text(req.City),
			Location: types.Location{
				Longitude: fallbackBaseLongitude + float64(i)*fallbackDayOffset + float64(j)*fallbackSlotOffset,
				Latitude:  fallbackBaseLatitude + float64(i)*fallbackDayOffset + float64(j)*fallbackSlotOffset,
			},
			VisitDuration: fallbackVisitMinutes,
			Description:   types.Text(fmt.Sprintf("A well-known sight in %s", req.City)),
			Category:      "attraction",
		})
	}

	meals := make([]types.Meal, 0, len(mealOrder))
	for _, mealType := range mealOrder {
		meals = append(meals, templateMeal(mealType, i))
	}

	return types.DayPlan{
		Date:           date,
		DayIndex:       i,
		Description:    types.Text(fmt.Sprintf("Day %d itinerary", i+1)),
		Transportation: types.Text(req.Transportation),
		Accommodation:  types.Text(req.Accommodation),
		Hotel:          placeholderHotel(req, i),
		Attractions:    attractions,
		Meals:          meals,
	}
}

func dateAt(dates []string, i int) string {
	if i < len(dates) {
		return dates[i]
	}
	return ""
}

func templateMeal(mealType string, dayIndex int) types.Meal {
	descriptions := map[string]string{
		"breakfast": "Local breakfast specialties",
		"lunch":     "Lunch near the day's attractions",
		"dinner":    "Dinner recommendation",
	}
	return types.Meal{
		Type:        mealType,
		Name:        fmt.Sprintf("Day %d %s", dayIndex+1, mealType),
		Description: types.Text(descriptions[mealType]),
	}
}

func placeholderHotel(req types.TripRequest, dayIndex int) *types.Hotel {
	kind := strings.TrimSpace(req.Accommodation)
	if kind == "" {
		kind = "hotel"
	}
	return &types.Hotel{
		Name:    fmt.Sprintf("%s %s", req.City, kind),
		Address: types.Text(req.City),
		Location: types.Location{
			Longitude: fallbackBaseLongitude + float64(dayIndex)*fallbackDayOffset,
			Latitude:  fallbackBaseLatitude + float64(dayIndex)*fallbackDayOffset,
		},
		Type: types.Text(kind),
	}
}
