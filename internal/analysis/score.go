package analysis

import (
	"strings"

	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/retrieval"
)

// rankStandards scores each candidate with the weighted multi-factor
// function and normalizes the results into a probability distribution.
func (e *Engine) rankStandards(txn *model.Transaction, types map[string]float64, rag retrieval.Results, candidates []string) model.StandardRankings {
	if len(candidates) == 0 {
		return nil
	}

	scores := make(map[string]float64, len(candidates))
	for _, code := range candidates {
		scores[code] = 0.0
	}

	sig := detectSignals(txn, types)
	_, hasBuyout := types["buyout"]

	// Pre-scoring boost for banking/equity buyouts, decreasing by rank in
	// the fixed priority list.
	if hasBuyout && (sig.bank || sig.equityTx || sig.equityJournal) {
		for i, code := range buyoutPriorityStandards {
			if _, ok := scores[code]; ok {
				scores[code] += 0.5 - float64(i)*0.1
			}
		}
	}

	for _, code := range candidates {
		rules, hasRules := fasRules[code]

		// 1. Transaction type match.
		typeScore := 0.0
		if hasRules {
			for label, confidence := range types {
				if termSharesSubstring(label, rules.RequiredTerms) {
					typeScore += confidence
				}
			}
		}
		scores[code] += typeScore * featureWeights.TransactionTypeMatch

		// 2. Journal entry pattern match: 0.5 per matching entry.
		journalScore := 0.0
		if hasRules {
			for _, entry := range txn.JournalEntries {
				if anyJournalMatch([]model.JournalEntry{entry}, rules.JournalPatterns) {
					journalScore += 0.5
				}
			}
		}
		scores[code] += journalScore * featureWeights.JournalEntryMatch

		// 3. Accounting treatment similarity from Stage 2 requirement
		// sentence counts, capped at 1.0.
		treatmentScore := 0.0
		if reqs := rag.DetailedContext.Requirements[code]; len(reqs) > 0 {
			treatmentScore = 0.2 * float64(len(reqs))
			if treatmentScore > 1.0 {
				treatmentScore = 1.0
			}
		}
		scores[code] += treatmentScore * featureWeights.AccountingTreatmentSimilarity

		// 4. Industry context match.
		industryScore := 0.0
		if affinities, ok := industryAffinity[string(txn.Context.Industry)]; ok {
			industryScore = affinities[code]
		}
		scores[code] += industryScore * featureWeights.IndustryContextMatch
	}

	ranked := make(model.StandardRankings, 0, len(candidates))
	for _, code := range candidates {
		ranked = append(ranked, model.StandardRanking{
			Standard:    code,
			Probability: scores[code],
		})
	}

	ranked.Normalize()
	ranked.Sort()
	return ranked
}

// termSharesSubstring reports whether any required term appears as a
// substring of the transaction-type label.
func termSharesSubstring(label string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(label, term) {
			return true
		}
	}
	return false
}
