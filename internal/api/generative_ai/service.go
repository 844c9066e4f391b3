package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

var (
	ErrMissingAPIKey = errors.New("GOOGLE_GEMINI_API_KEY is not set")
	ErrEmptyReply    = errors.New("model returned an empty reply")
)

type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// AIClient is the Gemini-backed text generator used for itinerary synthesis.
type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

func NewAIClient(ctx context.Context, cfg Config, logger *slog.Logger) (*AIClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewAIClient")
	defer span.End()

	if strings.TrimSpace(cfg.APIKey) == "" {
		span.RecordError(ErrMissingAPIKey)
		span.SetStatus(codes.Error, "API key not set")
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	span.SetStatus(codes.Ok, "AI client created successfully")
	return &AIClient{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

func (ai *AIClient) Model() string { return ai.model }

// Generate sends one system/user exchange and returns the reply text.
func (ai *AIClient) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "Generate", trace.WithAttributes(
		attribute.Int("prompt.length", len(user)),
		attribute.String("model", ai.model),
	))
	defer span.End()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(ai.temperature),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(user), config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		span.SetStatus(codes.Error, "Empty reply")
		return "", ErrEmptyReply
	}

	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "Content generated")
	ai.logger.DebugContext(ctx, "Model reply received", slog.String("model", ai.model), slog.Int("length", len(text)))
	return text, nil
}
