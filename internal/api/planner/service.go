package planner

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/blake2b"

	"github.com/ChampLong29/Multi-Agents-trip-planner/app/observability/metrics"
	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

const (
	DefaultCacheTTL  = 30 * time.Minute
	DefaultCacheSize = 100
)

// MemoryStore is the slice of the memory service the planner needs.
type MemoryStore interface {
	Context(ctx context.Context, userID uuid.UUID) string
	Remember(ctx context.Context, userID uuid.UUID, req types.TripRequest, plan *types.TripPlan) (uuid.UUID, error)
	RecordInteraction(ctx context.Context, interaction types.LlmInteraction) error
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	PlanTrip(ctx context.Context, userID *uuid.UUID, req types.TripRequest) (*types.PlanResult, error)
	PlanTripStream(ctx context.Context, userID *uuid.UUID, req types.TripRequest) (<-chan types.StreamEvent, error)
	CacheSize() int
}

type ServiceOptions struct {
	CacheTTL  time.Duration
	CacheSize int
	ModelName string
}

// ServiceImpl validates requests, answers repeated ones from a short-lived cache and
// keeps user memory in sync with finished runs.
type ServiceImpl struct {
	planner   *Planner
	memory    MemoryStore
	cache     *cache.Cache
	cacheSize int
	modelName string
	metrics   *metrics.AppMetrics
	logger    *slog.Logger
}

// NewServiceImpl builds the service. memory may be nil when no database is configured.
func NewServiceImpl(planner *Planner, memory MemoryStore, opts ServiceOptions, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	return &ServiceImpl{
		planner:   planner,
		memory:    memory,
		cache:     cache.New(opts.CacheTTL, opts.CacheTTL*2),
		cacheSize: opts.CacheSize,
		modelName: opts.ModelName,
		metrics:   m,
		logger:    logger,
	}
}

func (s *ServiceImpl) CacheSize() int {
	return s.cache.ItemCount()
}

// PlanTrip returns an error only for invalid requests. Everything past validation
// yields a plan.
func (s *ServiceImpl) PlanTrip(ctx context.Context, userID *uuid.UUID, req types.TripRequest) (*types.PlanResult, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "PlanTrip", trace.WithAttributes(
		attribute.String("city", req.City),
		attribute.Bool("user.authenticated", userID != nil),
	))
	defer span.End()

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request")
		return nil, err
	}

	cacheKey := requestFingerprint(userID, req)
	span.SetAttributes(attribute.String("cache.key", cacheKey))
	if cached, found := s.cache.Get(cacheKey); found {
		if result, ok := cached.(*types.PlanResult); ok {
			s.metrics.RecordCacheHit(ctx)
			s.logger.InfoContext(ctx, "Serving trip plan from cache", slog.String("city", req.City))
			span.SetStatus(codes.Ok, "Cache hit")
			return result, nil
		}
	}

	result := s.planner.PlanTrip(ctx, req, s.memoryContext(ctx, userID))
	s.afterRun(ctx, userID, req, result)
	if !result.Fallback {
		s.store(cacheKey, result)
	}

	span.SetStatus(codes.Ok, "Trip planned")
	return result, nil
}

func (s *ServiceImpl) PlanTripStream(ctx context.Context, userID *uuid.UUID, req types.TripRequest) (<-chan types.StreamEvent, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "PlanTripStream", trace.WithAttributes(
		attribute.String("city", req.City),
		attribute.Bool("user.authenticated", userID != nil),
	))
	defer span.End()

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request")
		return nil, err
	}

	cacheKey := requestFingerprint(userID, req)
	memoryContext := s.memoryContext(ctx, userID)
	detached := context.WithoutCancel(ctx)

	return s.planner.PlanTripStream(ctx, req, memoryContext, func(result *types.PlanResult) {
		s.afterRun(detached, userID, req, result)
		if !result.Fallback {
			s.store(cacheKey, result)
		}
	}), nil
}

func (s *ServiceImpl) memoryContext(ctx context.Context, userID *uuid.UUID) string {
	if s.memory == nil || userID == nil {
		return ""
	}
	return s.memory.Context(ctx, *userID)
}

// afterRun persists the audit record and, for signed-in users, the trip itself.
// Failures are logged and never reach the caller.
func (s *ServiceImpl) afterRun(ctx context.Context, userID *uuid.UUID, req types.TripRequest, result *types.PlanResult) {
	if s.memory == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	if result.Prompt != "" {
		payload, err := json.Marshal(req)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to marshal request for audit", slog.Any("error", err))
		}
		_ = s.memory.RecordInteraction(ctx, types.LlmInteraction{
			UserID:         userID,
			City:           req.City,
			Prompt:         result.Prompt,
			RequestPayload: payload,
			ResponseText:   result.RawResponse,
			ModelUsed:      s.modelName,
			Fallback:       result.Fallback,
			LatencyMs:      int(result.LLMLatency.Milliseconds()),
		})
	}

	if userID != nil {
		if _, err := s.memory.Remember(ctx, *userID, req, result.Plan); err != nil {
			s.logger.WarnContext(ctx, "Trip planned but not saved to history",
				slog.String("user_id", userID.String()), slog.Any("error", err))
		}
	}
}

// store adds a result, evicting the entry closest to expiry once the cache is full.
func (s *ServiceImpl) store(key string, result *types.PlanResult) {
	if s.cache.ItemCount() >= s.cacheSize {
		s.cache.DeleteExpired()
	}
	if s.cache.ItemCount() >= s.cacheSize {
		var oldestKey string
		var oldest int64
		for k, item := range s.cache.Items() {
			if oldestKey == "" || item.Expiration < oldest {
				oldestKey, oldest = k, item.Expiration
			}
		}
		s.cache.Delete(oldestKey)
	}
	s.cache.Set(key, result, cache.DefaultExpiration)
}

// requestFingerprint identifies a request per user. Anonymous callers share entries.
func requestFingerprint(userID *uuid.UUID, req types.TripRequest) string {
	payload, _ := json.Marshal(req)
	h, _ := blake2b.New256(nil)
	if userID != nil {
		h.Write(userID[:])
	}
	h.Write(payload)
	return fmt.Sprintf("trip:%s", hex.EncodeToString(h.Sum(nil)))
}
