// Package llm provides text-generation backends for reasoning prose,
// contradiction-query synthesis and contradiction analysis. It supports
// OpenAI and Anthropic providers with retry logic, rate limiting and
// response caching.
package llm

import (
	"context"
	"time"
)

// Client is the raw provider interface. Generate sends a single prompt and
// returns the completion text.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for a text-generation backend.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
