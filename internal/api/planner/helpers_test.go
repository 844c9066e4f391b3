package planner

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/amap"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

type poiFunc func(ctx context.Context, keywords, city string, cityLimit bool) ([]amap.RawPOI, error)

func (f poiFunc) SearchPOI(ctx context.Context, keywords, city string, cityLimit bool) ([]amap.RawPOI, error) {
	return f(ctx, keywords, city, cityLimit)
}

type forecastFunc func(ctx context.Context, city string) ([]amap.RawForecast, error)

func (f forecastFunc) Forecast(ctx context.Context, city string) ([]amap.RawForecast, error) {
	return f(ctx, city)
}

type generatorFunc func(ctx context.Context, system, user string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func beijingRequest() types.TripRequest {
	return types.TripRequest{
		City:           "Beijing",
		StartDate:      "2024-05-01",
		EndDate:        "2024-05-03",
		TravelDays:     3,
		Transportation: "public transit",
		Accommodation:  "hotel",
		Preferences:    []string{"history", "food"},
	}
}

const beijingAttractionsJSON = `[
  {"id": "B000A8UIN8", "name": "Forbidden City", "type": "风景名胜", "address": "4 Jingshan Front St", "location": "116.397026,39.918058", "tel": "010-85007421"},
  {"id": "B000A7BM4H", "name": "Temple of Heaven", "type": "风景名胜", "address": [], "location": "116.410829,39.881913", "tel": []},
  {"id": "B000A84GDN", "name": "Summer Palace", "type": "风景名胜", "address": "19 Xinjiangongmen Rd", "location": "116.275179,39.999617", "tel": []}
]`

const beijingHotelsJSON = `[
  {"id": "B0FFG1", "name": "Wangfujing Grand Hotel", "type": "住宿服务", "address": "57 Wangfujing St", "location": "116.411,39.914", "tel": [], "rating": "4.6", "cost": "680.00"}
]`

const beijingForecastJSON = `[
  {"date": "2024-05-01", "week": "3", "dayweather": "晴", "nightweather": "多云", "daytemp": "26", "nighttemp": "14", "daywind": "南", "nightwind": "南", "daypower": "1-3", "nightpower": "1-3"},
  {"date": "2024-05-02", "week": "4", "dayweather": "小雨", "nightweather": "小雨", "daytemp": "20", "nighttemp": "12", "daywind": "北", "nightwind": "北", "daypower": "3-4", "nightpower": "3-4"},
  {"date": "2024-05-03", "week": "5", "dayweather": "多云", "nightweather": "晴", "daytemp": "24", "nighttemp": "13", "daywind": "东", "nightwind": "东", "daypower": "1-3", "nightpower": "1-3"},
  {"date": "2024-05-04", "week": "6", "dayweather": "晴", "nightweather": "晴", "daytemp": "27", "nighttemp": "15", "daywind": "南", "nightwind": "南", "daypower": "1-3", "nightpower": "1-3"}
]`

// beijingModelReply is a plausible model answer: fenced, Chinese meal labels on day one,
// a missing dinner on day two and no hotel on day three.
const beijingModelReply = "Here is your itinerary:\n```json\n" + `{
  "city": "Beijing",
  "start_date": "2024-05-01",
  "end_date": "2024-05-03",
  "days": [
    {
      "date": "2024-05-01",
      "day_index": 7,
      "description": "Imperial Beijing",
      "transportation": "metro",
      "accommodation": "hotel",
      "hotel": {"name": "Wangfujing Grand Hotel", "address": "57 Wangfujing St", "location": {"longitude": 116.411, "latitude": 39.914}, "estimated_cost": "¥680"},
      "attractions": [
        {"name": "Forbidden City", "address": "4 Jingshan Front St", "location": {"longitude": 116.397026, "latitude": 39.918058}, "visit_duration": "180 minutes", "description": "Palace museum", "ticket_price": 60}
      ],
      "meals": [
        {"type": "早餐", "name": "Baozi", "estimated_cost": 20},
        {"type": "午餐", "name": "Zhajiangmian", "estimated_cost": 40},
        {"type": "晚餐", "name": "Peking duck", "estimated_cost": 200}
      ]
    },
    {
      "date": "2024-05-02",
      "day_index": 1,
      "description": "Museums on a rainy day",
      "transportation": "metro",
      "accommodation": "hotel",
      "hotel": {"name": "Wangfujing Grand Hotel", "address": "57 Wangfujing St", "location": {"longitude": 116.411, "latitude": 39.914}, "estimated_cost": 680},
      "attractions": [
        {"name": "National Museum", "address": "16 E Chang'an Ave", "location": {"longitude": 116.401, "latitude": 39.905}, "visit_duration": 150, "description": "Chinese history", "ticket_price": 0}
      ],
      "meals": [
        {"type": "breakfast", "name": "Jianbing", "estimated_cost": 15},
        {"type": "lunch", "name": "Hotpot", "estimated_cost": 120}
      ]
    },
    {
      "date": "2024-05-03",
      "day_index": 2,
      "description": "Temple of Heaven",
      "transportation": "metro",
      "accommodation": "hotel",
      "hotel": null,
      "attractions": [
        {"name": "Temple of Heaven", "address": "Tiantan Rd", "location": {"longitude": 116.410829, "latitude": 39.881913}, "visit_duration": 120, "description": "Ming dynasty altar", "ticket_price": 34}
      ],
      "meals": [
        {"type": "breakfast", "name": "Douzhi", "estimated_cost": 10},
        {"type": "lunch", "name": "Dumplings", "estimated_cost": 50},
        {"type": "supper", "name": "Lamb skewers", "estimated_cost": 90}
      ]
    }
  ],
  "overall_suggestions": "Carry an umbrella on the 2nd.",
  "budget": {"total_transportation": 60}
}` + "\n```\nEnjoy!"

func decodePOIs(t *testing.T, raw string) []amap.RawPOI {
	t.Helper()
	var pois []amap.RawPOI
	require.NoError(t, json.Unmarshal([]byte(raw), &pois))
	return pois
}

func decodeForecasts(t *testing.T, raw string) []amap.RawForecast {
	t.Helper()
	var casts []amap.RawForecast
	require.NoError(t, json.Unmarshal([]byte(raw), &casts))
	return casts
}

// beijingProviders returns search and forecast stubs that answer like AMap does for Beijing.
func beijingProviders(t *testing.T) (POISearcher, WeatherForecaster) {
	attractions := decodePOIs(t, beijingAttractionsJSON)
	hotels := decodePOIs(t, beijingHotelsJSON)
	forecasts := decodeForecasts(t, beijingForecastJSON)

	poi := poiFunc(func(_ context.Context, keywords, _ string, _ bool) ([]amap.RawPOI, error) {
		if keywords == "hotel" {
			return hotels, nil
		}
		return attractions, nil
	})
	weather := forecastFunc(func(context.Context, string) ([]amap.RawForecast, error) {
		return forecasts, nil
	})
	return poi, weather
}

func replyWith(text string) TextGenerator {
	return generatorFunc(func(context.Context, string, string) (string, error) {
		return text, nil
	})
}
