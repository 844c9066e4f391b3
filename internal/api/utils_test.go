package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"city":"Beijing","travel_days":2}`},
		{name: "empty", body: ``, wantErr: "body must not be empty"},
		{name: "truncated", body: `{"city":"Beijing"`, wantErr: "body contains badly-formed JSON"},
		{name: "syntax error", body: `{"city":,}`, wantErr: "badly-formed JSON (at character"},
		{name: "wrong type", body: `{"travel_days":"two"}`, wantErr: `incorrect JSON type for field "travel_days"`},
		{name: "unknown key", body: `{"town":"Beijing"}`, wantErr: `body contains unknown key "town"`},
		{name: "two values", body: `{"city":"Beijing"}{"city":"Shanghai"}`, wantErr: "single JSON value"},
		{name: "too large", body: `{"free_text_input":"` + strings.Repeat("a", maxBodyBytes) + `"}`, wantErr: "must not be larger than"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var req types.TripRequest
			err := DecodeJSONBody(w, r, &req)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Beijing", req.City)
				assert.Equal(t, 2, req.TravelDays)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestErrorResponseCarriesRequestID(t *testing.T) {
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, r, http.StatusTeapot, "no tea")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp types.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "no tea", resp.Error)
	assert.NotEmpty(t, resp.RequestID)
}

func TestWriteJSONResponseNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONResponse(rec, httptest.NewRequest(http.MethodDelete, "/", nil), http.StatusNoContent, map[string]string{"ignored": "yes"})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWriteJSONResponseUnencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, map[string]any{"ch": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestVerifyAudience(t *testing.T) {
	assert.True(t, VerifyAudience(nil, ""))
	assert.True(t, VerifyAudience(jwt.ClaimStrings{"mobile", "web"}, "web"))
	assert.False(t, VerifyAudience(jwt.ClaimStrings{"mobile"}, "web"))
	assert.False(t, VerifyAudience(nil, "web"))
}
