package container

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	appMiddleware "github.com/ChampLong29/Multi-Agents-trip-planner/app/middleware"
	"github.com/ChampLong29/Multi-Agents-trip-planner/config"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/amap"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/router"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

const tripBody = `{"city":"Hangzhou","start_date":"2024-10-01","end_date":"2024-10-02","travel_days":2,"transportation":"metro","accommodation":"hotel","preferences":["lakes"]}`

// fakeAMap answers the three AMap endpoints the planner uses and counts the calls.
type fakeAMap struct {
	geocodes atomic.Int32
	searches atomic.Int32
}

func (f *fakeAMap) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/v3/place/text":
		f.searches.Add(1)
		_, _ = w.Write([]byte(`{"status":"1","info":"OK","count":"1","pois":[
			{"id":"P1","name":"West Lake","type":"scenic","address":"Longjing Rd","location":"120.14,30.25","tel":[],
			 "biz_ext":{"rating":"4.8","cost":"0"}}]}`))
	case "/v3/geocode/geo":
		f.geocodes.Add(1)
		_, _ = w.Write([]byte(`{"status":"1","info":"OK","geocodes":[{"adcode":"330100"}]}`))
	case "/v3/weather/weatherInfo":
		_, _ = w.Write([]byte(`{"status":"1","info":"OK","forecasts":[{"city":"Hangzhou","adcode":"330100","casts":[
			{"date":"2024-10-01","dayweather":"Sunny","nightweather":"Cloudy","daytemp":"26","nighttemp":"18","daywind":"E","daypower":"1-3"},
			{"date":"2024-10-02","dayweather":"Rain","nightweather":"Rain","daytemp":"21","nighttemp":"16","daywind":"N","daypower":"4"}]}]}`))
	default:
		http.NotFound(w, r)
	}
}

// PlannerE2ESuite runs the assembled container behind the real router against a fake AMap.
type PlannerE2ESuite struct {
	suite.Suite
	amap      *fakeAMap
	amapSrv   *httptest.Server
	apiSrv    *httptest.Server
	container *Container
	jwt       config.JWTConfig
}

func TestPlannerE2E(t *testing.T) {
	suite.Run(t, new(PlannerE2ESuite))
}

func (s *PlannerE2ESuite) SetupSuite() {
	s.amap = &fakeAMap{}
	s.amapSrv = httptest.NewServer(s.amap)
	s.jwt = config.JWTConfig{SecretKey: "e2e-secret"}

	cfg := &config.Config{}
	cfg.Amap = config.AmapConfig{BaseURL: s.amapSrv.URL, APIKey: "e2e-key", Timeout: 2 * time.Second}
	cfg.Planner = config.PlannerConfig{StageTimeout: 2 * time.Second}
	cfg.JWT = s.jwt

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewContainer(context.Background(), cfg, nil, logger)
	s.Require().NoError(err)
	s.container = c

	s.apiSrv = httptest.NewServer(router.SetupRouter(&router.Config{
		PlannerHandler:         c.PlannerHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate(logger, s.jwt),
		OptionalAuthMiddleware: appMiddleware.OptionalAuthenticate(logger, s.jwt),
	}))
}

func (s *PlannerE2ESuite) TearDownSuite() {
	s.apiSrv.Close()
	s.amapSrv.Close()
	s.container.Close()
}

func (s *PlannerE2ESuite) token(userID uuid.UUID) string {
	claims := appMiddleware.Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.SecretKey))
	s.Require().NoError(err)
	return signed
}

func (s *PlannerE2ESuite) post(path, body, token string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, s.apiSrv.URL+path, strings.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *PlannerE2ESuite) TestContainerWithoutOptionalServices() {
	s.Nil(s.container.Pool)
	s.NotNil(s.container.PlannerService)
	s.NotNil(s.container.PlannerHandler)
}

func (s *PlannerE2ESuite) TestHealth() {
	resp, err := http.Get(s.apiSrv.URL + "/api/v1/trip/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	var health types.HealthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&health))
	s.Equal("healthy", health.Status)
}

func (s *PlannerE2ESuite) TestPlanWithoutModelUsesFallback() {
	resp := s.post("/api/v1/trip/plan", tripBody, "")
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body types.TripPlanResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))

	s.True(body.Success)
	s.True(body.Fallback)
	s.Require().NotNil(body.Data)
	s.Equal("Hangzhou", body.Data.City)
	s.Len(body.Data.Days, 2)
	s.Equal("2024-10-02", body.Data.Days[1].Date)

	s.Equal(types.StageCompleted, body.Stages[types.StageAttractions].Status)
	s.Equal(types.StageCompleted, body.Stages[types.StageWeather].Status)
	s.Equal(types.StageCompleted, body.Stages[types.StageHotels].Status)
	s.Equal(types.StageFailed, body.Stages[types.StagePlanning].Status)
	s.Require().NotEmpty(body.Errors)
	s.Contains(body.Errors[len(body.Errors)-1], "planning failed")
}

func (s *PlannerE2ESuite) TestAdcodeIsResolvedOnce() {
	for range 2 {
		resp := s.post("/api/v1/trip/plan", tripBody, "")
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode)
	}

	s.Equal(int32(1), s.amap.geocodes.Load())
	s.GreaterOrEqual(s.amap.searches.Load(), int32(4))
}

func (s *PlannerE2ESuite) TestStreamEndsWithComplete() {
	resp := s.post("/api/v1/trip/plan/stream", tripBody, "")
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("text/event-stream", resp.Header.Get("Content-Type"))

	var events []types.StreamEvent
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event types.StreamEvent
		s.Require().NoError(json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		events = append(events, event)
	}
	s.Require().NoError(scanner.Err())
	s.Require().NotEmpty(events)

	s.Equal(types.EventTypeStart, events[0].Type)
	last := events[len(events)-1]
	s.Equal(types.EventTypeComplete, last.Type)
	s.True(last.IsFinal)
	s.Require().NotNil(last.Plan)
	s.Len(last.Plan.Days, 2)
}

func (s *PlannerE2ESuite) TestHistoryWithoutDatabase() {
	req, err := http.NewRequest(http.MethodGet, s.apiSrv.URL+"/api/v1/trip/history", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+s.token(uuid.New()))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)
}

func (s *PlannerE2ESuite) TestAuthenticatedPlanWithoutDatabase() {
	resp := s.post("/api/v1/trip/plan", tripBody, s.token(uuid.New()))
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func TestNewContainerRequiresAMapKey(t *testing.T) {
	cfg := &config.Config{}
	_, err := NewContainer(context.Background(), cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorIs(t, err, amap.ErrMissingAPIKey)
}
