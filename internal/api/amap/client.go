package amap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL  = "https://restapi.amap.com"
	DefaultTimeout  = 10 * time.Second
	DefaultPageSize = 20

	adcodeCacheSize = 256
)

var (
	ErrMissingAPIKey  = errors.New("amap api key is not configured")
	ErrProviderStatus = errors.New("amap returned a non-success status")
	ErrEmptyPayload   = errors.New("amap returned an empty payload")
)

type Config struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	PageSize int
}

// Client talks to the AMap web service API. It holds no per-request state and is
// safe for concurrent use by many planning runs.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	adcodes    *lru.Cache[string, string]
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	cache, err := lru.New[string, string](adcodeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create adcode cache: %w", err)
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		pageSize: cfg.PageSize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		adcodes: cache,
		logger:  logger,
	}, nil
}

// envelope carries the status fields every AMap response shares.
type envelope struct {
	Status string `json:"status"`
	Info   string `json:"info"`
}

// get issues a GET against path with params, checks the AMap status and decodes
// the body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	ctx, span := otel.Tracer("AMapClient").Start(ctx, "get", trace.WithAttributes(
		attribute.String("amap.path", path),
	))
	defer span.End()

	params.Set("key", c.apiKey)
	params.Set("output", "json")
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build request")
		return fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request failed")
		return fmt.Errorf("failed to send request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read body")
		return fmt.Errorf("failed to read response body: %w", err)
	}
	c.logger.DebugContext(ctx, "AMap request finished",
		slog.String("path", path),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("latency", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("amap api error: status=%d body=%s", resp.StatusCode, truncate(string(body), 200))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unexpected HTTP status")
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		span.SetStatus(codes.Error, "Empty payload")
		return ErrEmptyPayload
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode envelope")
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Status != "1" {
		span.SetStatus(codes.Error, env.Info)
		return fmt.Errorf("%w: %s", ErrProviderStatus, env.Info)
	}

	if err := json.Unmarshal(body, out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode payload")
		return fmt.Errorf("failed to decode response: %w", err)
	}
	span.SetStatus(codes.Ok, "OK")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
