package planner

import (
	"context"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/amap"
)

// POISearcher runs a keyword place search. Hotel search goes through the same call.
type POISearcher interface {
	SearchPOI(ctx context.Context, keywords, city string, cityLimit bool) ([]amap.RawPOI, error)
}

// WeatherForecaster returns the per-date forecast for a city.
type WeatherForecaster interface {
	Forecast(ctx context.Context, city string) ([]amap.RawForecast, error)
}

// TextGenerator produces a free-form reply for a system and user instruction pair.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

var (
	_ POISearcher       = (*amap.Client)(nil)
	_ WeatherForecaster = (*amap.Client)(nil)
)
