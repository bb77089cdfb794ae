package llm

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mizanlabs/mizan/internal/common"
	"github.com/mizanlabs/mizan/internal/service"
)

// Generator implements service.TextGenerator on top of a raw provider
// client, adding rate limiting, retry and prompt-keyed response caching.
type Generator struct {
	client      Client
	cache       *gocache.Cache
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

var _ service.TextGenerator = (*Generator)(nil)

// NewGenerator creates a Generator for the configured provider.
func NewGenerator(cfg Config, logger *slog.Logger) (*Generator, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	return &Generator{
		client:      client,
		cache:       gocache.New(ttl, 2*ttl),
		logger:      logger,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		retryOpts:   retryOpts,
	}, nil
}

// Generate produces text for the prompt, serving repeats from cache.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if cached, found := g.cache.Get(key); found {
		g.logger.Debug("generation cache hit")
		if text, ok := cached.(string); ok {
			return text, nil
		}
	}

	if err := g.rateLimiter.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	var text string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		text, genErr = g.client.Generate(ctx, prompt)
		return genErr
	}, g.retryOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}

	g.cache.Set(key, text, gocache.DefaultExpiration)
	return text, nil
}

// Close releases the rate limiter's background goroutine.
func (g *Generator) Close() {
	g.rateLimiter.stop()
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("%x", sum)
}
