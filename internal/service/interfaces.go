// Package service defines the contracts between the pipeline and its
// external collaborators.
package service

import (
	"context"
	"time"

	"github.com/mizanlabs/mizan/internal/model"
)

// SearchMode selects the retrieval strategy.
type SearchMode string

const (
	// SearchSimilarity returns the k nearest passages by plain similarity.
	SearchSimilarity SearchMode = "similarity"
	// SearchMMR returns k passages chosen by maximum marginal relevance
	// from a larger candidate pool, trading some relevance for diversity.
	SearchMMR SearchMode = "mmr"
)

// SearchOptions controls a single retrieval call.
type SearchOptions struct {
	// K is the number of passages to return.
	K int
	// Mode selects similarity or MMR search. Defaults to similarity.
	Mode SearchMode
	// FetchK is the candidate pool size for MMR. Ignored for similarity.
	FetchK int
	// Filter restricts results to passages whose metadata field (the map
	// key) has a value contained in the given set. An inclusion filter,
	// not a re-ranking.
	Filter map[string][]string
}

// PassageRetriever is the nearest-neighbor retrieval backend over the
// standards corpus. Implementations must treat the query as opaque text and
// never mutate it.
type PassageRetriever interface {
	Retrieve(ctx context.Context, query string, opts SearchOptions) ([]model.Passage, error)
}

// TextGenerator produces free text from a prompt. It backs reasoning
// generation, contradiction-query synthesis and contradiction analysis.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RetryOptions configures retry behavior for external calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
