package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/mizanlabs/mizan/internal/common"
	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/service"
)

const mmrLambda = 0.5

// Retrieve implements service.PassageRetriever. Passages are scored against
// the query by cosine similarity over term-frequency vectors; MMR mode
// re-ranks a fetchK candidate pool for diversity before returning k results.
func (s *SQLiteStore) Retrieve(ctx context.Context, query string, opts service.SearchOptions) ([]model.Passage, error) {
	if opts.K <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", common.ErrInvalidConfig)
	}

	passages, err := s.loadPassages(ctx, opts.Filter["content"])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRetrievalFailed, err)
	}
	if len(passages) == 0 {
		return nil, common.ErrEmptyCorpus
	}

	queryVec := termVector(query)
	scored := make([]scoredPassage, 0, len(passages))
	for _, p := range passages {
		scored = append(scored, scoredPassage{
			passage: p,
			vector:  termVector(p.Text),
		})
	}
	for i := range scored {
		scored[i].score = cosine(queryVec, scored[i].vector)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if opts.Mode == service.SearchMMR {
		return mmrSelect(queryVec, scored, opts.K, opts.FetchK), nil
	}

	k := opts.K
	if k > len(scored) {
		k = len(scored)
	}
	results := make([]model.Passage, 0, k)
	for _, sp := range scored[:k] {
		results = append(results, sp.passage)
	}
	return results, nil
}

type scoredPassage struct {
	passage model.Passage
	vector  map[string]float64
	score   float64
}

// mmrSelect greedily picks k passages from the top fetchK candidates,
// balancing query relevance against similarity to already-selected passages.
func mmrSelect(queryVec map[string]float64, scored []scoredPassage, k, fetchK int) []model.Passage {
	if fetchK <= 0 || fetchK > len(scored) {
		fetchK = len(scored)
	}
	pool := scored[:fetchK]
	if k > len(pool) {
		k = len(pool)
	}

	selected := make([]scoredPassage, 0, k)
	remaining := make([]scoredPassage, len(pool))
	copy(remaining, pool)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)
		for i, cand := range remaining {
			redundancy := 0.0
			for _, sel := range selected {
				if sim := cosine(cand.vector, sel.vector); sim > redundancy {
					redundancy = sim
				}
			}
			mmr := mmrLambda*cand.score - (1-mmrLambda)*redundancy
			if mmr > bestScore {
				bestScore = mmr
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	results := make([]model.Passage, 0, len(selected))
	for _, sp := range selected {
		results = append(results, sp.passage)
	}
	return results
}

// termVector builds a term-frequency vector from lowercased alphanumeric
// tokens. Single-character tokens are dropped as noise.
func termVector(text string) map[string]float64 {
	vec := make(map[string]float64)
	for _, tok := range tokenize(text) {
		vec[tok]++
	}
	return vec
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Iterate the smaller map.
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, av := range a {
		if bv, ok := b[term]; ok {
			dot += av * bv
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (norm(a) * norm(b))
}

func norm(v map[string]float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
