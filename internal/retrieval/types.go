// Package retrieval implements the staged retrieval pipeline over the
// standards corpus: domain filtering, detailed context matching and a
// contradiction check.
package retrieval

import "github.com/mizanlabs/mizan/internal/model"

// DomainResult is Stage 1 output: the broad query, the passages it hit and
// every standard code considered potentially relevant.
type DomainResult struct {
	Query              string
	PotentialStandards []string
	Documents          []model.Passage
}

// ContextResult is Stage 2 output. Requirements maps each standard code to
// the requirement sentences extracted for it.
type ContextResult struct {
	Query        string
	Documents    []model.Passage
	Requirements map[string][]string
}

// AlternativeTreatment describes one conflicting treatment reported by the
// contradiction analysis.
type AlternativeTreatment struct {
	Standard      string   `json:"standard"`
	Treatment     string   `json:"treatment"`
	ConflictsWith []string `json:"conflicts_with"`
}

// ContradictionResult is Stage 3 output. Err carries a non-fatal diagnostic
// when the generator call failed or returned unparseable output; the
// pipeline proceeds either way.
type ContradictionResult struct {
	ContradictionsFound   bool                   `json:"contradictions_found"`
	AlternativeTreatments []AlternativeTreatment `json:"alternative_treatments"`
	Err                   string                 `json:"error,omitempty"`
}

// Results bundles the three stage outputs. AugmentedTypes is the
// transaction-type map extended with derived buyout sub-types during Stage 1
// query building; the parser's own map is never mutated.
type Results struct {
	DomainFiltering    DomainResult
	DetailedContext    ContextResult
	ContradictoryCheck ContradictionResult
	AugmentedTypes     map[string]float64
}
