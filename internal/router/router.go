package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/planner"
)

// Config contains dependencies needed for the router setup
type Config struct {
	PlannerHandler         *planner.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
	OptionalAuthMiddleware func(http.Handler) http.Handler
	MetricsHandler         http.Handler
	AllowedOrigins         []string
	// PlanTimeout bounds the synchronous planning call. The stream route is not bounded here.
	PlanTimeout time.Duration
}

// SetupRouter initializes the application routes. Server-wide middleware (request id,
// logging, recovery) is applied in main.go before this router is mounted.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	planTimeout := cfg.PlanTimeout
	if planTimeout <= 0 {
		planTimeout = 3 * time.Minute
	}

	r.Route("/api/v1/trip", func(r chi.Router) {
		r.Get("/health", cfg.PlannerHandler.Health)

		// Anonymous callers may plan; a valid token adds user memory and history.
		r.Group(func(r chi.Router) {
			r.Use(cfg.OptionalAuthMiddleware)
			r.With(middleware.Timeout(planTimeout)).Post("/plan", cfg.PlannerHandler.PlanTrip)
			r.Post("/plan/stream", cfg.PlannerHandler.PlanTripStream)
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)
			r.Get("/history", cfg.PlannerHandler.ListHistory)
			r.Get("/history/{tripID}", cfg.PlannerHandler.GetHistory)
			r.Delete("/history/{tripID}", cfg.PlannerHandler.DeleteHistory)
		})
	})

	return r
}
