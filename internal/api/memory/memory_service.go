package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

var _ Service = (*ServiceImpl)(nil)

// Service keeps what the planner learns about signed-in users.
type Service interface {
	Context(ctx context.Context, userID uuid.UUID) string
	Remember(ctx context.Context, userID uuid.UUID, req types.TripRequest, plan *types.TripPlan) (uuid.UUID, error)
	RecordInteraction(ctx context.Context, interaction types.LlmInteraction) error

	ListTrips(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.TripHistorySummary, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.TripHistory, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
}

type ServiceImpl struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Context builds the prompt memory block. Lookup failures degrade to no memory.
func (s *ServiceImpl) Context(ctx context.Context, userID uuid.UUID) string {
	ctx, span := otel.Tracer("MemoryService").Start(ctx, "Context", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
	))
	defer span.End()

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		span.RecordError(err)
		s.logger.WarnContext(ctx, "Could not load user preferences, planning without memory",
			slog.String("user_id", userID.String()), slog.Any("error", err))
		return ""
	}
	return BuildContext(prefs)
}

// Remember stores the finished trip and folds the request into the user's preferences.
// Both writes are attempted even when one fails.
func (s *ServiceImpl) Remember(ctx context.Context, userID uuid.UUID, req types.TripRequest, plan *types.TripPlan) (uuid.UUID, error) {
	ctx, span := otel.Tracer("MemoryService").Start(ctx, "Remember", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("city", req.City),
	))
	defer span.End()

	var errs []error

	var tripID uuid.UUID
	if plan != nil {
		id, err := s.repo.SaveTrip(ctx, types.TripHistory{
			UserID:     userID,
			City:       req.City,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			TravelDays: req.TravelDays,
			Request:    req,
			Plan:       *plan,
		})
		if err != nil {
			errs = append(errs, err)
		} else {
			tripID = id
		}
	}

	if err := s.updatePreferences(ctx, userID, req); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Failed to remember trip", slog.String("user_id", userID.String()), slog.Any("error", err))
		return tripID, err
	}
	s.logger.InfoContext(ctx, "Trip remembered", slog.String("user_id", userID.String()), slog.String("trip_id", tripID.String()))
	return tripID, nil
}

func (s *ServiceImpl) updatePreferences(ctx context.Context, userID uuid.UUID, req types.TripRequest) error {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return err
	}
	UpdatePreferences(prefs, req, s.now())
	return s.repo.SavePreferences(ctx, prefs)
}

func (s *ServiceImpl) RecordInteraction(ctx context.Context, interaction types.LlmInteraction) error {
	if err := s.repo.SaveInteraction(ctx, interaction); err != nil {
		s.logger.WarnContext(ctx, "Failed to record llm interaction", slog.Any("error", err))
		return err
	}
	return nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.TripHistorySummary, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	trips, err := s.repo.ListTrips(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.TripHistory, error) {
	return s.repo.GetTrip(ctx, userID, tripID)
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	return s.repo.DeleteTrip(ctx, userID, tripID)
}
