package llm

import (
	"context"
	"strings"
	"sync"
)

// StaticClient is a deterministic Client used for offline runs and tests.
// It recognizes the pipeline's prompt shapes and returns fixed text, so the
// scored core behaves identically with or without a live model.
type StaticClient struct {
	mu      sync.Mutex
	prompts []string
}

// NewStaticClient creates a new deterministic client.
func NewStaticClient() *StaticClient {
	return &StaticClient{}
}

// Generate returns canned text appropriate to the prompt.
func (c *StaticClient) Generate(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()

	switch {
	case strings.Contains(prompt, "generate a search query"):
		return "alternative accounting treatments conflicting standards Islamic finance", nil
	case strings.Contains(prompt, "contradictions_found"):
		return `{"contradictions_found": false, "alternative_treatments": []}`, nil
	default:
		return "The transaction's extracted elements align with the recognition and measurement requirements of this standard.", nil
	}
}

// Prompts returns a copy of every prompt seen, for test assertions.
func (c *StaticClient) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prompts))
	copy(out, c.prompts)
	return out
}
