package llm

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanlabs/mizan/internal/common"
	"github.com/mizanlabs/mizan/internal/service"
)

type countingClient struct {
	calls    int
	failures int
	text     string
}

func (c *countingClient) Generate(_ context.Context, _ string) (string, error) {
	c.calls++
	if c.calls <= c.failures {
		return "", errors.New("transient upstream error")
	}
	return c.text, nil
}

func newTestGenerator(client Client) *Generator {
	return &Generator{
		client:      client,
		cache:       gocache.New(time.Minute, 2*time.Minute),
		logger:      slog.Default(),
		rateLimiter: newRateLimiter(1000),
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     10 * time.Millisecond,
			Multiplier:   2.0,
		},
	}
}

func TestGeneratorCachesByPrompt(t *testing.T) {
	client := &countingClient{text: "cached answer"}
	gen := newTestGenerator(client)
	defer gen.Close()

	ctx := context.Background()

	first, err := gen.Generate(ctx, "same prompt")
	require.NoError(t, err)
	second, err := gen.Generate(ctx, "same prompt")
	require.NoError(t, err)

	assert.Equal(t, "cached answer", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.calls, "repeat prompt should be served from cache")

	_, err = gen.Generate(ctx, "different prompt")
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
}

func TestGeneratorRetriesTransientFailures(t *testing.T) {
	client := &countingClient{text: "eventually", failures: 2}
	gen := newTestGenerator(client)
	defer gen.Close()

	text, err := gen.Generate(context.Background(), "flaky prompt")
	require.NoError(t, err)
	assert.Equal(t, "eventually", text)
	assert.Equal(t, 3, client.calls)
}

func TestGeneratorReportsExhaustedRetries(t *testing.T) {
	client := &countingClient{text: "never", failures: 10}
	gen := newTestGenerator(client)
	defer gen.Close()

	_, err := gen.Generate(context.Background(), "doomed prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrGenerationFailed)
	assert.Equal(t, 3, client.calls)
}

func TestNewClientProviderSelection(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  bool
	}{
		{provider: "static"},
		{provider: "offline"},
		{provider: "OFFLINE"},
		{provider: "bard", wantErr: true},
		{provider: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("provider_"+tt.provider, func(t *testing.T) {
			client, err := NewClient(Config{Provider: tt.provider})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &StaticClient{}, client)
		})
	}
}

func TestStaticClientPromptRouting(t *testing.T) {
	client := NewStaticClient()
	ctx := context.Background()

	query, err := client.Generate(ctx, "Based on the following, generate a search query for alternative treatments.")
	require.NoError(t, err)
	assert.Contains(t, query, "conflicting standards")

	verdict, err := client.Generate(ctx, `Respond with JSON including "contradictions_found".`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"contradictions_found": false, "alternative_treatments": []}`, verdict)

	prose, err := client.Generate(ctx, "Explain why FAS 4 applies.")
	require.NoError(t, err)
	assert.Contains(t, prose, "recognition and measurement")

	assert.Len(t, client.Prompts(), 3)
}

func TestRateLimiterExhaustion(t *testing.T) {
	rl := newRateLimiter(2)
	defer rl.stop()

	assert.True(t, rl.tryAcquire())
	assert.True(t, rl.tryAcquire())
	assert.False(t, rl.tryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := rl.wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
