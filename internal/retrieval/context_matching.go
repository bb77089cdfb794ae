package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/service"
)

// obligationKeywords mark a sentence as stating a requirement.
var obligationKeywords = []string{"must", "should", "require", "necessary", "need", "shall"}

// detailedContextMatching is Stage 2: a narrow query over the Stage 1
// candidate set, extracting per-standard requirement sentences.
func (s *Stage) detailedContextMatching(ctx context.Context, txn *model.Transaction, types map[string]float64, domain DomainResult) ContextResult {
	var parts []string

	entries := txn.JournalEntries
	if len(entries) > 2 {
		entries = entries[:2]
	}
	for _, entry := range entries {
		if entry.DebitAccount != "" && entry.CreditAccount != "" {
			parts = append(parts, summarizeEntry(entry))
		}
	}

	if txn.Context.Industry != model.IndustryUnknown {
		parts = append(parts, fmt.Sprintf("industry: %s", txn.Context.Industry))
	}
	if txn.Context.Purpose != "" {
		parts = append(parts, fmt.Sprintf("purpose: %s", txn.Context.Purpose))
	}

	for _, label := range topTypeLabels(types, len(types)) {
		parts = append(parts, fmt.Sprintf("transaction type: %s (weight: %.2f)", label, types[label]))
	}

	query := strings.Join(parts, " ")
	if query == "" {
		query = domain.Query
	}

	opts := service.SearchOptions{K: contextK, Mode: service.SearchSimilarity}
	if len(domain.PotentialStandards) > 0 {
		opts.Filter = map[string][]string{"content": domain.PotentialStandards}
	}

	docs := s.retrieve(ctx, query, opts)
	requirements := extractRequirements(docs)

	s.logger.Debug("detailed context matching complete",
		"documents", len(docs),
		"standards_with_requirements", len(requirements))

	return ContextResult{
		Query:        query,
		Documents:    docs,
		Requirements: requirements,
	}
}

// extractRequirements collects, per standard mentioned in a passage, the
// sentences that both reference the standard and state an obligation.
func extractRequirements(docs []model.Passage) map[string][]string {
	requirements := make(map[string][]string)

	for _, doc := range docs {
		codes := fasCodePattern.FindAllString(doc.Text, -1)
		if len(codes) == 0 {
			continue
		}

		sentences := splitSentences(doc.Text)
		seen := make(map[string]bool)
		for _, raw := range codes {
			code := normalizeFASCode(raw)
			if seen[code] {
				continue
			}
			seen[code] = true
			if _, ok := requirements[code]; !ok {
				requirements[code] = []string{}
			}

			for _, sentence := range sentences {
				if !strings.Contains(strings.ToUpper(sentence), code) {
					continue
				}
				if containsAny(strings.ToLower(sentence), obligationKeywords) {
					requirements[code] = append(requirements[code], strings.TrimSpace(sentence))
				}
			}
		}
	}

	return requirements
}

// splitSentences breaks text after sentence-ending punctuation followed by
// whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(runes) && !isSpace(runes[i+1]) {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
