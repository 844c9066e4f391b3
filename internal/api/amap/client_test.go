package amap

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{}, slog.Default())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSearchPOI(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/place/text", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "history", q.Get("keywords"))
		assert.Equal(t, "Beijing", q.Get("city"))
		assert.Equal(t, "true", q.Get("citylimit"))
		assert.Equal(t, "20", q.Get("offset"))
		assert.Equal(t, "all", q.Get("extensions"))
		assert.Equal(t, "test-key", q.Get("key"))

		_, _ = w.Write([]byte(`{
			"status": "1", "info": "OK", "count": "2",
			"pois": [
				{"id": "B1", "name": "Forbidden City", "type": "scenic", "address": "4 Jingshan Front St",
				 "location": "116.397,39.918", "tel": ["010-85007421", "010-85007422"],
				 "biz_ext": {"rating": "4.9", "cost": []}},
				{"id": "B2", "name": "Temple of Heaven", "type": [], "address": [],
				 "location": "", "tel": []}
			]
		}`))
	})

	pois, err := client.SearchPOI(context.Background(), "history", "Beijing", true)
	require.NoError(t, err)
	require.Len(t, pois, 2)

	assert.Equal(t, "Forbidden City", pois[0].Name)
	assert.Equal(t, FlexList, pois[0].Tel.Kind)
	assert.Equal(t, "010-85007421", pois[0].Tel.String())
	require.NotNil(t, pois[0].Location.Longitude)
	assert.InDelta(t, 116.397, *pois[0].Location.Longitude, 1e-9)
	require.NotNil(t, pois[0].BizExt)
	assert.Equal(t, "4.9", pois[0].BizExt.Rating.String())

	assert.Equal(t, FlexList, pois[1].Address.Kind)
	assert.Empty(t, pois[1].Address.List)
	assert.Nil(t, pois[1].Location.Longitude)
}

func TestSearchPOIEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "1", "info": "OK", "count": "0", "pois": []}`))
	})

	pois, err := client.SearchPOI(context.Background(), "nothing", "Beijing", true)
	require.NoError(t, err)
	assert.NotNil(t, pois)
	assert.Empty(t, pois)
}

func TestSearchPOIProviderStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "0", "info": "INVALID_USER_KEY"}`))
	})

	_, err := client.SearchPOI(context.Background(), "history", "Beijing", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderStatus)
	assert.Contains(t, err.Error(), "INVALID_USER_KEY")
}

func TestSearchPOIHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.SearchPOI(context.Background(), "history", "Beijing", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
}

func TestSearchPOIEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.SearchPOI(context.Background(), "history", "Beijing", true)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestForecastCachesAdcode(t *testing.T) {
	var geocodeCalls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/geocode/geo":
			geocodeCalls.Add(1)
			assert.Equal(t, "Beijing", r.URL.Query().Get("address"))
			_, _ = w.Write([]byte(`{"status": "1", "geocodes": [{"adcode": "110000"}]}`))
		case "/v3/weather/weatherInfo":
			assert.Equal(t, "110000", r.URL.Query().Get("city"))
			assert.Equal(t, "all", r.URL.Query().Get("extensions"))
			_, _ = w.Write([]byte(`{"status": "1", "forecasts": [{"city": "Beijing", "adcode": "110000", "casts": [
				{"date": "2024-05-01", "week": "3", "dayweather": "Sunny", "nightweather": "Cloudy",
				 "daytemp": "26", "nighttemp": "14", "daywind": "N", "nightwind": "N", "daypower": "1-3", "nightpower": "1-3"}
			]}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	for i := 0; i < 2; i++ {
		casts, err := client.Forecast(context.Background(), "Beijing")
		require.NoError(t, err)
		require.Len(t, casts, 1)
		assert.Equal(t, "2024-05-01", casts[0].Date)
		assert.Equal(t, "26", casts[0].DayTemp.String())
	}
	assert.Equal(t, int32(1), geocodeCalls.Load())
}

func TestForecastUnknownCity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "1", "geocodes": []}`))
	})

	_, err := client.Forecast(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestFlexStringDecoding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  FlexKind
		value string
	}{
		{"string", `"abc"`, FlexScalar, "abc"},
		{"empty string", `""`, FlexScalar, ""},
		{"list", `["a", "b"]`, FlexList, "a"},
		{"empty list", `[]`, FlexList, ""},
		{"null", `null`, FlexNull, ""},
		{"number", `42`, FlexScalar, "42"},
		{"object", `{"x": 1}`, FlexNull, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			require.NoError(t, json.Unmarshal([]byte(tt.input), &f))
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.value, f.String())
		})
	}
}

func TestRawLocationDecoding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		lon, lat *float64
	}{
		{"lon,lat string", `"116.4,39.9"`, ptr(116.4), ptr(39.9)},
		{"object", `{"longitude": 116.4, "latitude": 39.9}`, ptr(116.4), ptr(39.9)},
		{"lng/lat object", `{"lng": 1.5, "lat": 2.5}`, ptr(1.5), ptr(2.5)},
		{"pair", `[116.4, 39.9]`, ptr(116.4), ptr(39.9)},
		{"empty string", `""`, nil, nil},
		{"empty list", `[]`, nil, nil},
		{"null", `null`, nil, nil},
		{"partial object", `{"longitude": 3}`, ptr(3), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l RawLocation
			require.NoError(t, json.Unmarshal([]byte(tt.input), &l))
			assert.Equal(t, tt.lon, l.Longitude)
			assert.Equal(t, tt.lat, l.Latitude)
		})
	}
}

func ptr(f float64) *float64 { return &f }
