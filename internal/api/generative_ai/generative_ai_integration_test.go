//go:build integration

package generativeAI

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if os.Getenv("GOOGLE_GEMINI_API_KEY") == "" {
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func newIntegrationClient(t *testing.T) *AIClient {
	t.Helper()
	client, err := NewAIClient(context.Background(), Config{
		APIKey:      os.Getenv("GOOGLE_GEMINI_API_KEY"),
		Temperature: 0.2,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestNewAIClient_Integration(t *testing.T) {
	client := newIntegrationClient(t)
	assert.NotNil(t, client.client)
	assert.Equal(t, DefaultModel, client.Model())
}

func TestGenerate_Integration(t *testing.T) {
	client := newIntegrationClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	reply, err := client.Generate(ctx,
		"Reply with a single JSON object and nothing else.",
		`Return {"city": "Beijing"}`)

	require.NoError(t, err)
	assert.Contains(t, reply, "Beijing")
}
