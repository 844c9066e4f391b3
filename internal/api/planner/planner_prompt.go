package planner

import (
	"fmt"
	"strings"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

const (
	promptAttractionLimit = 20
	promptHotelLimit      = 10
)

// plannerSystemPrompt is the system instruction sent with every synthesis call.
const plannerSystemPrompt = `You are a professional travel planning assistant. Build a detailed, realistic day-by-day itinerary from the information provided. Reply with a single JSON document and nothing else.`

// planSchemaExample is the literal output shape the model must follow.
const planSchemaExample = `{
  "city": "City name",
  "start_date": "YYYY-MM-DD",
  "end_date": "YYYY-MM-DD",
  "days": [
    {
      "date": "YYYY-MM-DD",
      "day_index": 0,
      "description": "Summary of the day",
      "transportation": "How to get around",
      "accommodation": "Accommodation type",
      "hotel": {
        "name": "Hotel name",
        "address": "Hotel address",
        "location": {"longitude": 116.397128, "latitude": 39.916527},
        "price_range": "300-500",
        "rating": "4.5",
        "distance": "2 km from the main sights",
        "type": "Business hotel",
        "estimated_cost": 400
      },
      "attractions": [
        {
          "name": "Attraction name",
          "address": "Attraction address",
          "location": {"longitude": 116.397128, "latitude": 39.916527},
          "visit_duration": 120,
          "description": "Why it is worth visiting",
          "category": "Attraction category",
          "ticket_price": 60
        }
      ],
      "meals": [
        {"type": "breakfast", "name": "Breakfast suggestion", "description": "Details", "estimated_cost": 30},
        {"type": "lunch", "name": "Lunch suggestion", "description": "Details", "estimated_cost": 50},
        {"type": "dinner", "name": "Dinner suggestion", "description": "Details", "estimated_cost": 80}
      ]
    }
  ],
  "weather_info": [
    {
      "date": "YYYY-MM-DD",
      "day_weather": "Sunny",
      "night_weather": "Cloudy",
      "day_temp": 25,
      "night_temp": 15,
      "wind_direction": "South",
      "wind_power": "1-3",
      "clothing_suggestion": "Clothing advice",
      "activity_suggestion": "Activity advice"
    }
  ],
  "overall_suggestions": "General advice for the whole trip",
  "budget": {
    "total_attractions": 180,
    "total_hotels": 1200,
    "total_meals": 480,
    "total_transportation": 200,
    "total": 2060
  }
}`

// PromptInput is everything the composer renders into the synthesis request.
type PromptInput struct {
	Request       types.TripRequest
	Attractions   []types.NormalizedPOI
	Weather       []types.DailyWeather
	Hotels        []types.NormalizedPOI
	MemoryContext string
}

// BuildPlannerPrompt renders the user instruction for the synthesis call.
func BuildPlannerPrompt(in PromptInput) string {
	req := in.Request
	var b strings.Builder

	fmt.Fprintf(&b, "Create a %d-day travel plan for %s.\n\n", req.TravelDays, req.City)

	b.WriteString("Trip details:\n")
	fmt.Fprintf(&b, "- City: %s\n", req.City)
	fmt.Fprintf(&b, "- Dates: %s to %s (%d days)\n", req.StartDate, req.EndDate, req.TravelDays)
	fmt.Fprintf(&b, "- Transportation: %s\n", orNone(req.Transportation))
	fmt.Fprintf(&b, "- Accommodation: %s\n", orNone(req.Accommodation))
	fmt.Fprintf(&b, "- Preferences: %s\n", orNone(strings.Join(req.Preferences, ", ")))
	if strings.TrimSpace(req.FreeTextInput) != "" {
		fmt.Fprintf(&b, "- Additional requests: %s\n", req.FreeTextInput)
	}

	if strings.TrimSpace(in.MemoryContext) != "" {
		b.WriteString("\nWhat we know about this traveller from earlier trips:\n")
		b.WriteString(in.MemoryContext)
		b.WriteString("\n")
	}

	b.WriteString("\nCandidate attractions:\n")
	writePOIs(&b, in.Attractions, promptAttractionLimit, false)

	b.WriteString("\nWeather forecast:\n")
	if len(in.Weather) == 0 {
		b.WriteString("- No forecast available for these dates\n")
	}
	for _, w := range in.Weather {
		fmt.Fprintf(&b, "- %s: day %s %d°C, night %s %d°C, wind %s %s\n",
			w.Date, w.DayWeather, w.DayTemp, w.NightWeather, w.NightTemp, w.WindDirection, w.WindPower)
		fmt.Fprintf(&b, "  Clothing: %s\n", w.ClothingSuggestion)
		fmt.Fprintf(&b, "  Activities: %s\n", w.ActivitySuggestion)
	}

	b.WriteString("\nCandidate hotels:\n")
	writePOIs(&b, in.Hotels, promptHotelLimit, true)

	b.WriteString("\nRules:\n")
	rules := []string{
		"Plan 2-3 attractions per day, chosen from the candidate attractions where possible.",
		"Include exactly 3 meals per day: breakfast, lunch and dinner.",
		"Pick one hotel per day from the candidate hotels; reuse the same hotel on consecutive days when it is convenient.",
		"On rainy days schedule indoor attractions only, such as museums, galleries and shopping centres.",
		"On rain or snow days do not use walking as the transportation between attractions.",
		"On very hot days (average temperature 30°C or above) avoid outdoor activities around midday.",
		"Follow the clothing and activity advice given for each day in the weather forecast.",
		"Keep attractions on the same day geographically close to limit travel time.",
		"Estimate ticket prices, hotel and meal costs, and fill in the budget totals.",
		fmt.Sprintf("Return exactly %d entries in \"days\", with day_index counting from 0.", req.TravelDays),
	}
	for i, r := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}

	b.WriteString("\nReturn the plan as JSON in exactly this format:\n```json\n")
	b.WriteString(planSchemaExample)
	b.WriteString("\n```\n")

	return b.String()
}

func writePOIs(b *strings.Builder, pois []types.NormalizedPOI, limit int, hotel bool) {
	if len(pois) == 0 {
		b.WriteString("- None found; suggest well-known options yourself\n")
		return
	}
	if len(pois) > limit {
		pois = pois[:limit]
	}
	for i, p := range pois {
		fmt.Fprintf(b, "%d. %s", i+1, p.Name)
		if p.Address != "" {
			fmt.Fprintf(b, " | address: %s", p.Address)
		}
		fmt.Fprintf(b, " | location: %.6f,%.6f", p.Location.Longitude, p.Location.Latitude)
		if p.Type != "" {
			fmt.Fprintf(b, " | type: %s", p.Type)
		}
		if hotel {
			if p.Rating != "" {
				fmt.Fprintf(b, " | rating: %s", p.Rating)
			}
			if p.Cost != "" {
				fmt.Fprintf(b, " | cost: %s", p.Cost)
			}
		}
		b.WriteString("\n")
	}
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none specified"
	}
	return s
}
