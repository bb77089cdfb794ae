package model

import (
	"fmt"
	"math"
	"sort"
)

// StandardRanking represents how strongly a FAS standard applies to a
// transaction. Probability holds the raw, unbounded value during scoring and
// a share of the normalized distribution once ranking closes.
type StandardRanking struct {
	Standard              string
	Probability           float64
	ProbabilityPercentage string
	Reasoning             string
}

// Validate ensures a finalized ranking is well-formed.
func (r *StandardRanking) Validate() error {
	if r.Standard == "" {
		return fmt.Errorf("standard code is required")
	}
	if r.Probability < 0.0 || r.Probability > 1.0 {
		return fmt.Errorf("probability must be between 0.0 and 1.0, got %.4f", r.Probability)
	}
	return nil
}

// StandardRankings is a slice of StandardRanking supporting sorting and the
// normalization pass that closes every ranking round.
type StandardRankings []StandardRanking

// Len implements sort.Interface.
func (r StandardRankings) Len() int { return len(r) }

// Less implements sort.Interface - higher probabilities come first.
func (r StandardRankings) Less(i, j int) bool {
	if r[i].Probability != r[j].Probability {
		return r[i].Probability > r[j].Probability
	}
	// Equal probabilities order by standard code for determinism.
	return r[i].Standard < r[j].Standard
}

// Swap implements sort.Interface.
func (r StandardRankings) Swap(i, j int) { r[i], r[j] = r[j], r[i] }

// Sort orders the rankings by probability descending.
func (r StandardRankings) Sort() { sort.Sort(r) }

// Top returns the highest-probability ranking, or nil if empty.
func (r StandardRankings) Top() *StandardRanking {
	if len(r) == 0 {
		return nil
	}
	r.Sort()
	return &r[0]
}

// Find returns a pointer to the ranking for the given standard, or nil.
func (r StandardRankings) Find(standard string) *StandardRanking {
	for i := range r {
		if r[i].Standard == standard {
			return &r[i]
		}
	}
	return nil
}

// Contains reports whether the given standard is present.
func (r StandardRankings) Contains(standard string) bool {
	return r.Find(standard) != nil
}

// Normalize rescales probabilities so they sum to 1.0. When every value is
// zero the mass is split equally. Empty slices are left untouched.
func (r StandardRankings) Normalize() {
	if len(r) == 0 {
		return
	}
	var total float64
	for i := range r {
		total += r[i].Probability
	}
	if total > 0 {
		for i := range r {
			r[i].Probability /= total
		}
		return
	}
	equal := 1.0 / float64(len(r))
	for i := range r {
		r[i].Probability = equal
	}
}

// FormatPercentages fills ProbabilityPercentage for display, one decimal.
func (r StandardRankings) FormatPercentages() {
	for i := range r {
		r[i].ProbabilityPercentage = fmt.Sprintf("%.1f%%", r[i].Probability*100)
	}
}

// Validate checks every ranking and that the distribution sums to 1.0.
func (r StandardRankings) Validate() error {
	if len(r) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(r))
	var total float64
	for i := range r {
		if err := r[i].Validate(); err != nil {
			return fmt.Errorf("invalid ranking at index %d: %w", i, err)
		}
		if seen[r[i].Standard] {
			return fmt.Errorf("duplicate standard %q in rankings", r[i].Standard)
		}
		seen[r[i].Standard] = true
		total += r[i].Probability
	}
	if math.Abs(total-1.0) > 1e-9 {
		return fmt.Errorf("probabilities must sum to 1.0, got %.6f", total)
	}
	return nil
}
