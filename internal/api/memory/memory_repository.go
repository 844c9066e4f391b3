package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ChampLong29/Multi-Agents-trip-planner/app/observability/metrics"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

var ErrTripNotFound = errors.New("trip not found")

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	SaveTrip(ctx context.Context, trip types.TripHistory) (uuid.UUID, error)
	ListTrips(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.TripHistorySummary, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*types.TripHistory, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error

	GetPreferences(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error)
	SavePreferences(ctx context.Context, prefs *types.UserPreferences) error

	SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error
}

type RepositoryImpl struct {
	db      DBTX
	logger  *slog.Logger
	metrics *metrics.AppMetrics
}

func NewRepository(db DBTX, logger *slog.Logger, m *metrics.AppMetrics) *RepositoryImpl {
	return &RepositoryImpl{
		db:      db,
		logger:  logger,
		metrics: m,
	}
}

// track starts timing a query; the returned func records it once the named error is final.
func (r *RepositoryImpl) track(ctx context.Context, op string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		r.metrics.RecordQuery(ctx, op, time.Since(start).Seconds(), *errp != nil)
	}
}

func (r *RepositoryImpl) SaveTrip(ctx context.Context, trip types.TripHistory) (id uuid.UUID, err error) {
	ctx, span := otel.Tracer("MemoryRepository").Start(ctx, "SaveTrip", trace.WithAttributes(
		attribute.String("user_id", trip.UserID.String()),
		attribute.String("city", trip.City),
	))
	defer span.End()
	defer r.track(ctx, "save_trip")(&err)

	requestData, err := json.Marshal(trip.Request)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal trip request: %w", err)
	}
	planData, err := json.Marshal(trip.Plan)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal trip plan: %w", err)
	}

	query := `
		INSERT INTO trip_history (
			user_id, city, start_date, end_date, travel_days, request_data, plan_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = r.db.QueryRow(ctx, query,
		trip.UserID, trip.City, trip.StartDate, trip.EndDate, trip.TravelDays, requestData, planData,
	).Scan(&id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save trip history", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		return uuid.Nil, fmt.Errorf("failed to save trip history: %w", err)
	}

	span.SetStatus(codes.Ok, "Trip saved")
	return id, nil
}

func (r *RepositoryImpl) ListTrips(ctx context.Context, userID uuid.UUID, limit, offset int) (trips []types.TripHistorySummary, err error) {
	ctx, span := otel.Tracer("MemoryRepository").Start(ctx, "ListTrips", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	))
	defer span.End()
	defer r.track(ctx, "list_trips")(&err)

	query := `
		SELECT id, city, start_date, end_date, travel_days, created_at
		FROM trip_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query trip history: %w", err)
	}
	defer rows.Close()

	trips = []types.TripHistorySummary{}
	for rows.Next() {
		var t types.TripHistorySummary
		if err = rows.Scan(&t.ID, &t.City, &t.StartDate, &t.EndDate, &t.TravelDays, &t.CreatedAt); err != nil {
			r.logger.WarnContext(ctx, "Failed to scan trip history row", slog.Any("error", err))
			continue
		}
		trips = append(trips, t)
	}
	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating trip history rows: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (r *RepositoryImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (trip *types.TripHistory, err error) {
	ctx, span := otel.Tracer("MemoryRepository").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("trip_id", tripID.String()),
	))
	defer span.End()
	defer r.track(ctx, "get_trip")(&err)

	query := `
		SELECT id, user_id, city, start_date, end_date, travel_days, request_data, plan_data, created_at
		FROM trip_history
		WHERE id = $1 AND user_id = $2
	`
	var t types.TripHistory
	var requestData, planData []byte
	err = r.db.QueryRow(ctx, query, tripID, userID).Scan(
		&t.ID, &t.UserID, &t.City, &t.StartDate, &t.EndDate, &t.TravelDays, &requestData, &planData, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		span.SetStatus(codes.Error, "Trip not found")
		return nil, ErrTripNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	if err = json.Unmarshal(requestData, &t.Request); err != nil {
		return nil, fmt.Errorf("failed to decode stored trip request: %w", err)
	}
	if err = json.Unmarshal(planData, &t.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode stored trip plan: %w", err)
	}

	span.SetStatus(codes.Ok, "Trip found")
	return &t, nil
}

func (r *RepositoryImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) (err error) {
	ctx, span := otel.Tracer("MemoryRepository").Start(ctx, "DeleteTrip", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("trip_id", tripID.String()),
	))
	defer span.End()
	defer r.track(ctx, "delete_trip")(&err)

	tag, err := r.db.Exec(ctx, `DELETE FROM trip_history WHERE id = $1 AND user_id = $2`, tripID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database delete failed")
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTripNotFound
	}

	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

// GetPreferences returns the stored preferences, or an empty set when the user has none yet.
func (r *RepositoryImpl) GetPreferences(ctx context.Context, userID uuid.UUID) (prefs *types.UserPreferences, err error) {
	ctx, span := otel.Tracer("MemoryRepository").Start(ctx, "GetPreferences", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
	))
	defer span.End()
	defer r.track(ctx, "get_preferences")(&err)

	var data []byte
	var updatedAt time.Time
	err = r.db.QueryRow(ctx,
		`SELECT preferences, updated_at FROM user_preferences WHERE user_id = $1`, userID,
	).Scan(&data, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.NewUserPreferences(userID), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to get user preferences: %w", err)
	}

	prefs = types.NewUserPreferences(userID)
	if err = json.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("failed to decode user preferences: %w", err)
	}
	prefs.UserID = userID
	prefs.UpdatedAt = updatedAt
	return prefs, nil
}

func (r *RepositoryImpl) SavePreferences(ctx context.Context, prefs *types.UserPreferences) (err error) {
	ctx, span := otel.Tracer("MemoryRepository").Start(ctx, "SavePreferences", trace.WithAttributes(
		attribute.String("user_id", prefs.UserID.String()),
	))
	defer span.End()
	defer r.track(ctx, "save_preferences")(&err)

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal user preferences: %w", err)
	}

	query := `
		INSERT INTO user_preferences (user_id, preferences, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET preferences = EXCLUDED.preferences, updated_at = NOW()
	`
	if _, err = r.db.Exec(ctx, query, prefs.UserID, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database upsert failed")
		return fmt.Errorf("failed to save user preferences: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) (err error) {
	ctx, span := otel.Tracer("MemoryRepository").Start(ctx, "SaveInteraction", trace.WithAttributes(
		attribute.String("city", interaction.City),
		attribute.String("model", interaction.ModelUsed),
	))
	defer span.End()
	defer r.track(ctx, "save_interaction")(&err)

	query := `
		INSERT INTO llm_interactions (
			user_id, city_name, prompt, request_payload, response_text, model_used, fallback, latency_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query,
		interaction.UserID, interaction.City, interaction.Prompt, []byte(interaction.RequestPayload),
		interaction.ResponseText, interaction.ModelUsed, interaction.Fallback, interaction.LatencyMs,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database insert failed")
		return fmt.Errorf("failed to save llm interaction: %w", err)
	}
	return nil
}
