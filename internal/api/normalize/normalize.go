// Package normalize turns provider records into the canonical shapes the planner works with.
package normalize

import (
	"strings"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/advisory"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/amap"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

const (
	DefaultAttractionCap = 15
	DefaultHotelCap      = 10
)

// Address collapses an address field: first list element, empty for null or blank.
func Address(f amap.FlexString) string {
	switch f.Kind {
	case amap.FlexList:
		if len(f.List) == 0 {
			return ""
		}
		return f.List[0]
	case amap.FlexScalar:
		return f.Scalar
	default:
		return ""
	}
}

// Phone collapses a phone field: first list element wins, anything empty becomes nil.
func Phone(f amap.FlexString) *string {
	var v string
	switch f.Kind {
	case amap.FlexList:
		if len(f.List) == 0 {
			return nil
		}
		v = f.List[0]
	case amap.FlexScalar:
		v = f.Scalar
	default:
		return nil
	}
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

// Location defaults missing coordinates to 0.0.
func Location(l amap.RawLocation) types.Location {
	loc := types.Location{}
	if l.Longitude != nil {
		loc.Longitude = *l.Longitude
	}
	if l.Latitude != nil {
		loc.Latitude = *l.Latitude
	}
	return loc
}

// POI converts one raw record into a NormalizedPOI.
func POI(raw amap.RawPOI) types.NormalizedPOI {
	return types.NormalizedPOI{
		ID:       raw.ID,
		Name:     raw.Name,
		Address:  Address(raw.Address),
		Location: Location(raw.Location),
		Type:     raw.Type.String(),
		Tel:      Phone(raw.Tel),
	}
}

// Hotel converts one raw record into a NormalizedPOI carrying rating and cost.
// The biz_ext block wins over top-level fields when present.
func Hotel(raw amap.RawPOI) types.NormalizedPOI {
	poi := POI(raw)
	poi.Rating = raw.Rating.String()
	poi.Cost = raw.Cost.String()
	if raw.BizExt != nil {
		if r := raw.BizExt.Rating.String(); r != "" {
			poi.Rating = r
		}
		if c := raw.BizExt.Cost.String(); c != "" {
			poi.Cost = c
		}
	}
	return poi
}

// Attractions normalizes at most limit records, keeping provider order.
// A non-positive limit uses DefaultAttractionCap.
func Attractions(raws []amap.RawPOI, limit int) []types.NormalizedPOI {
	if limit <= 0 {
		limit = DefaultAttractionCap
	}
	return collect(raws, limit, POI)
}

// Hotels normalizes at most limit records, keeping provider order.
// A non-positive limit uses DefaultHotelCap.
func Hotels(raws []amap.RawPOI, limit int) []types.NormalizedPOI {
	if limit <= 0 {
		limit = DefaultHotelCap
	}
	return collect(raws, limit, Hotel)
}

func collect(raws []amap.RawPOI, limit int, conv func(amap.RawPOI) types.NormalizedPOI) []types.NormalizedPOI {
	if len(raws) > limit {
		raws = raws[:limit]
	}
	out := make([]types.NormalizedPOI, 0, len(raws))
	for _, raw := range raws {
		out = append(out, conv(raw))
	}
	return out
}

// Weather converts a forecast day and attaches the derived advisories.
// The day condition drives the advice; the night condition is used when the day one is blank.
func Weather(raw amap.RawForecast) types.DailyWeather {
	day, night := advisory.ParseTemperatures(raw.DayTemp.String(), raw.NightTemp.String())
	condition := raw.DayWeather
	if strings.TrimSpace(condition) == "" {
		condition = raw.NightWeather
	}
	advice := advisory.Generate(condition, day, night)

	return types.DailyWeather{
		Date:               raw.Date,
		DayWeather:         raw.DayWeather,
		NightWeather:       raw.NightWeather,
		DayTemp:            day,
		NightTemp:          night,
		WindDirection:      raw.DayWind,
		WindPower:          raw.DayPower,
		ClothingSuggestion: advice.Clothing,
		ActivitySuggestion: advice.Activity,
	}
}

// WeatherForDates keeps the forecasts whose date falls on one of the travel dates,
// in travel-date order. Dates without a forecast are skipped.
func WeatherForDates(forecasts []amap.RawForecast, dates []string) []types.DailyWeather {
	byDate := make(map[string]amap.RawForecast, len(forecasts))
	for _, f := range forecasts {
		if _, seen := byDate[f.Date]; !seen {
			byDate[f.Date] = f
		}
	}
	out := make([]types.DailyWeather, 0, len(dates))
	for _, d := range dates {
		if f, ok := byDate[d]; ok {
			out = append(out, Weather(f))
		}
	}
	return out
}
