package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by requests, plans and forecasts.
const DateLayout = "2006-01-02"

var (
	ErrMissingCity      = errors.New("city is required")
	ErrInvalidDateRange = errors.New("end_date must not be before start_date")
	ErrTravelDays       = errors.New("travel_days must be positive and match the date range")
)

// TripRequest is the caller's planning input. It is not modified once a run starts.
type TripRequest struct {
	City           string   `json:"city" example:"Beijing"`
	StartDate      string   `json:"start_date" example:"2024-05-01"`
	EndDate        string   `json:"end_date" example:"2024-05-03"`
	TravelDays     int      `json:"travel_days" example:"3"`
	Transportation string   `json:"transportation" example:"public transit"`
	Accommodation  string   `json:"accommodation" example:"hotel"`
	Preferences    []string `json:"preferences"`
	FreeTextInput  string   `json:"free_text_input,omitempty"`
}

// Validate checks the request invariants: a city, parseable dates in order,
// and a day count that covers the inclusive date range.
func (r TripRequest) Validate() error {
	if strings.TrimSpace(r.City) == "" {
		return ErrMissingCity
	}
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date %q: %w", r.StartDate, err)
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date %q: %w", r.EndDate, err)
	}
	if end.Before(start) {
		return ErrInvalidDateRange
	}
	span := int(end.Sub(start).Hours()/24) + 1
	if r.TravelDays <= 0 || r.TravelDays != span {
		return fmt.Errorf("%w: got %d, range covers %d", ErrTravelDays, r.TravelDays, span)
	}
	return nil
}

// Dates returns the ISO date of every travel day starting at StartDate.
// An unparseable start date yields an empty slice.
func (r TripRequest) Dates() []string {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil || r.TravelDays <= 0 {
		return []string{}
	}
	dates := make([]string, 0, r.TravelDays)
	for i := 0; i < r.TravelDays; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// NormalizedPOI is the canonical attraction or hotel candidate produced from a provider record.
type NormalizedPOI struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Location Location `json:"location"`
	Type     string   `json:"type"`
	Tel      *string  `json:"tel"`
	Rating   string   `json:"rating,omitempty"` // hotels only
	Cost     string   `json:"cost,omitempty"`   // hotels only
}

type DailyWeather struct {
	Date               string `json:"date"`
	DayWeather         string `json:"day_weather"`
	NightWeather       string `json:"night_weather"`
	DayTemp            int    `json:"day_temp"`
	NightTemp          int    `json:"night_temp"`
	WindDirection      string `json:"wind_direction"`
	WindPower          string `json:"wind_power"`
	ClothingSuggestion string `json:"clothing_suggestion"`
	ActivitySuggestion string `json:"activity_suggestion"`
}

type Attraction struct {
	Name          string   `json:"name"`
	Address       Text     `json:"address"`
	Location      Location `json:"location"`
	VisitDuration Amount   `json:"visit_duration"`
	Description   Text     `json:"description"`
	Category      Text     `json:"category,omitempty"`
	TicketPrice   Amount   `json:"ticket_price"`
}

type Meal struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Description   Text   `json:"description,omitempty"`
	EstimatedCost Amount `json:"estimated_cost"`
}

type Hotel struct {
	Name          string   `json:"name"`
	Address       Text     `json:"address"`
	Location      Location `json:"location"`
	PriceRange    Text     `json:"price_range,omitempty"`
	Rating        Text     `json:"rating,omitempty"`
	Distance      Text     `json:"distance,omitempty"`
	Type          Text     `json:"type,omitempty"`
	EstimatedCost Amount   `json:"estimated_cost"`
}

type DayPlan struct {
	Date           string       `json:"date"`
	DayIndex       int          `json:"day_index"`
	Description    Text         `json:"description"`
	Transportation Text         `json:"transportation"`
	Accommodation  Text         `json:"accommodation"`
	Hotel          *Hotel       `json:"hotel"`
	Attractions    []Attraction `json:"attractions"`
	Meals          []Meal       `json:"meals"`
}

type Budget struct {
	TotalAttractions    Amount `json:"total_attractions"`
	TotalHotels         Amount `json:"total_hotels"`
	TotalMeals          Amount `json:"total_meals"`
	TotalTransportation Amount `json:"total_transportation"`
	Total               Amount `json:"total"`
}

type TripPlan struct {
	City               string         `json:"city"`
	StartDate          string         `json:"start_date"`
	EndDate            string         `json:"end_date"`
	Days               []DayPlan      `json:"days"`
	WeatherInfo        []DailyWeather `json:"weather_info"`
	OverallSuggestions Text           `json:"overall_suggestions"`
	Budget             *Budget        `json:"budget,omitempty"`
}

// RecomputeBudget rebuilds the budget from the per-day costs.
// Transportation cost is kept as supplied since days do not itemize it.
func (p *TripPlan) RecomputeBudget() {
	b := Budget{}
	if p.Budget != nil {
		b.TotalTransportation = p.Budget.TotalTransportation
	}
	for _, day := range p.Days {
		for _, a := range day.Attractions {
			b.TotalAttractions += a.TicketPrice
		}
		for _, m := range day.Meals {
			b.TotalMeals += m.EstimatedCost
		}
		if day.Hotel != nil {
			b.TotalHotels += day.Hotel.EstimatedCost
		}
	}
	b.Total = b.TotalAttractions + b.TotalHotels + b.TotalMeals + b.TotalTransportation
	p.Budget = &b
}
