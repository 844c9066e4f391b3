package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	appMiddleware "github.com/ChampLong29/Multi-Agents-trip-planner/app/middleware"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/api/memory"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

const serviceName = "trip-planner"

// HistoryStore serves the saved-trip endpoints.
type HistoryStore interface {
	ListTrips(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.TripHistorySummary, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.TripHistory, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
}

type HandlerImpl struct {
	service Service
	history HistoryStore
	logger  *slog.Logger
}

// NewHandler wires the HTTP surface. history may be nil, in which case the history
// endpoints answer 503.
func NewHandler(service Service, history HistoryStore, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		history: history,
		logger:  logger,
	}
}

func optionalUser(ctx context.Context) *uuid.UUID {
	if id, ok := appMiddleware.GetUserIDFromContext(ctx); ok {
		return &id
	}
	return nil
}

// PlanTrip godoc
// @Summary      Plan a trip
// @Description  Runs attraction, weather and hotel retrieval concurrently and synthesizes a day-by-day itinerary. Always returns a plan; degraded stages are listed in errors.
// @Tags         Trip
// @Accept       json
// @Produce      json
// @Param        request body types.TripRequest true "Trip request"
// @Success      200 {object} types.TripPlanResponse "Trip plan"
// @Failure      400 {object} types.Response "Invalid request"
// @Failure      401 {object} types.Response "Invalid token"
// @Router       /trip/plan [post]
func (h *HandlerImpl) PlanTrip(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "PlanTrip", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trip/plan"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "PlanTrip"))

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.String("app.city", req.City))

	result, err := h.service.PlanTrip(ctx, optionalUser(ctx), req)
	if err != nil {
		l.WarnContext(ctx, "Rejected trip request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid trip request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	message := "Trip plan generated"
	if result.Fallback {
		message = "Generated a basic plan because some services were unavailable"
	}
	span.SetStatus(codes.Ok, "Trip planned")
	api.WriteJSONResponse(w, r, http.StatusOK, types.TripPlanResponse{
		Success:  true,
		Message:  message,
		Data:     result.Plan,
		Errors:   result.Errors,
		Stages:   result.Stages,
		Fallback: result.Fallback,
	})
}

// PlanTripStream godoc
// @Summary      Plan a trip with live progress
// @Description  Same pipeline as /trip/plan, reported as Server-Sent Events. Each event's data line is one JSON object; the last one has type complete or error.
// @Tags         Trip
// @Accept       json
// @Produce      text/event-stream
// @Param        request body types.TripRequest true "Trip request"
// @Success      200 {object} types.StreamEvent "Event stream"
// @Failure      400 {object} types.Response "Invalid request"
// @Router       /trip/plan/stream [post]
func (h *HandlerImpl) PlanTripStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "PlanTripStream"))

	flusher, ok := w.(http.Flusher)
	if !ok {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.service.PlanTripStream(ctx, optionalUser(ctx), req)
	if err != nil {
		l.WarnContext(ctx, "Rejected trip request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	l.InfoContext(ctx, "Started planning stream", slog.String("city", req.City))

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeSSE(w, event); err != nil {
				l.ErrorContext(ctx, "Failed to write stream event", slog.Any("error", err))
				return
			}
			flusher.Flush()
			if event.IsFinal {
				return
			}
		case <-ctx.Done():
			l.InfoContext(ctx, "Client disconnected")
			return
		}
	}
}

func writeSSE(w http.ResponseWriter, event types.StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.EventID, event.Type, data); err != nil {
		return err
	}
	return nil
}

// Health godoc
// @Summary      Planner health
// @Tags         Trip
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Router       /trip/health [get]
func (h *HandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		CacheSize: h.service.CacheSize(),
	})
}

func (h *HandlerImpl) requireHistory(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if h.history == nil {
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Trip history is not available")
		return uuid.Nil, false
	}
	userID, ok := appMiddleware.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// ListHistory godoc
// @Summary      List saved trips
// @Tags         History
// @Produce      json
// @Param        limit query int false "Page size (default 20, max 100)"
// @Param        offset query int false "Offset"
// @Success      200 {object} types.TripHistoryListResponse
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /trip/history [get]
func (h *HandlerImpl) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireHistory(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	trips, err := h.history.ListTrips(r.Context(), userID, limit, offset)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list trips", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.TripHistoryListResponse{
		Success: true,
		Data:    trips,
		Limit:   limit,
		Offset:  offset,
	})
}

// GetHistory godoc
// @Summary      Get a saved trip
// @Tags         History
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {object} types.TripHistory
// @Failure      404 {object} types.Response "Not found"
// @Security     BearerAuth
// @Router       /trip/history/{tripID} [get]
func (h *HandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireHistory(w, r)
	if !ok {
		return
	}
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return
	}

	trip, err := h.history.GetTrip(r.Context(), userID, tripID)
	if err != nil {
		h.writeHistoryError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// DeleteHistory godoc
// @Summary      Delete a saved trip
// @Tags         History
// @Param        tripID path string true "Trip ID"
// @Success      204
// @Failure      404 {object} types.Response "Not found"
// @Security     BearerAuth
// @Router       /trip/history/{tripID} [delete]
func (h *HandlerImpl) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireHistory(w, r)
	if !ok {
		return
	}
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return
	}

	if err := h.history.DeleteTrip(r.Context(), userID, tripID); err != nil {
		h.writeHistoryError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) writeHistoryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, memory.ErrTripNotFound) {
		api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "Trip history request failed", slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, "Trip history request failed")
}
