package generativeAI

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAIClient_MissingKey(t *testing.T) {
	client, err := NewAIClient(context.Background(), Config{APIKey: "  "}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
