package amap

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RawForecast is one forecast day from the weatherInfo endpoint. Temperatures arrive
// as strings and are parsed downstream.
type RawForecast struct {
	Date         string     `json:"date"`
	Week         string     `json:"week"`
	DayWeather   string     `json:"dayweather"`
	NightWeather string     `json:"nightweather"`
	DayTemp      FlexString `json:"daytemp"`
	NightTemp    FlexString `json:"nighttemp"`
	DayWind      string     `json:"daywind"`
	NightWind    string     `json:"nightwind"`
	DayPower     string     `json:"daypower"`
	NightPower   string     `json:"nightpower"`
}

type geocodeResponse struct {
	Geocodes []struct {
		Adcode FlexString `json:"adcode"`
	} `json:"geocodes"`
}

type weatherResponse struct {
	Forecasts []struct {
		City   string        `json:"city"`
		Adcode string        `json:"adcode"`
		Casts  []RawForecast `json:"casts"`
	} `json:"forecasts"`
}

// Forecast resolves city to an adcode and returns the multi-day forecast for it.
func (c *Client) Forecast(ctx context.Context, city string) ([]RawForecast, error) {
	ctx, span := otel.Tracer("AMapClient").Start(ctx, "Forecast", trace.WithAttributes(
		attribute.String("city", city),
	))
	defer span.End()

	adcode, err := c.adcode(ctx, city)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("city", adcode)
	params.Set("extensions", "all")

	var resp weatherResponse
	if err := c.get(ctx, "/v3/weather/weatherInfo", params, &resp); err != nil {
		c.logger.WarnContext(ctx, "Weather forecast failed", slog.String("city", city), slog.Any("error", err))
		return nil, err
	}
	if len(resp.Forecasts) == 0 {
		return []RawForecast{}, nil
	}

	casts := resp.Forecasts[0].Casts
	span.SetAttributes(attribute.Int("casts.count", len(casts)))
	if casts == nil {
		return []RawForecast{}, nil
	}
	return casts, nil
}

// adcode looks the administrative code for city up, consulting the LRU first.
func (c *Client) adcode(ctx context.Context, city string) (string, error) {
	if code, ok := c.adcodes.Get(city); ok {
		return code, nil
	}

	params := url.Values{}
	params.Set("address", city)

	var resp geocodeResponse
	if err := c.get(ctx, "/v3/geocode/geo", params, &resp); err != nil {
		return "", fmt.Errorf("failed to geocode %q: %w", city, err)
	}
	if len(resp.Geocodes) == 0 || resp.Geocodes[0].Adcode.String() == "" {
		return "", fmt.Errorf("%w: no adcode for %q", ErrEmptyPayload, city)
	}

	code := resp.Geocodes[0].Adcode.String()
	c.adcodes.Add(city, code)
	return code, nil
}
