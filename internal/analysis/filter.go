package analysis

import (
	"sort"
	"strings"

	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/retrieval"
)

// identifyApplicableStandards produces the candidate set before scoring.
// Forced inclusions run first, then the per-standard rule checks over the
// union of Stage 1 candidates and Stage 2 requirement keys, then the static
// exclusion table, then the construction fallback.
func (e *Engine) identifyApplicableStandards(txn *model.Transaction, types map[string]float64, rag retrieval.Results) []string {
	union := make(map[string]bool)
	for _, code := range rag.DomainFiltering.PotentialStandards {
		union[code] = true
	}
	for code := range rag.DetailedContext.Requirements {
		union[code] = true
	}

	lower := strings.ToLower(txn.RawText)
	sig := detectSignals(txn, types)
	_, hasBuyout := types["buyout"]

	var candidates []string
	include := func(code string) {
		for _, existing := range candidates {
			if existing == code {
				return
			}
		}
		candidates = append(candidates, code)
	}

	// Construction, reversal or work-in-progress scenarios always carry
	// FAS 10.
	if sig.construction || sig.reversal || sig.workInProgress {
		include("FAS 10")
	}

	// Banking or equity buyouts carry the financial standards.
	if hasBuyout && (sig.bank || sig.equityTx || sig.equityJournal) {
		include("FAS 4")
		include("FAS 20")
		include("FAS 32")
	}

	// Equity movement settled in cash points strongly at FAS 4/20.
	if sig.equityJournal && sig.cashCredit {
		include("FAS 4")
		include("FAS 20")
	}

	for _, code := range sortedSet(union) {
		rules, ok := fasRules[code]
		if !ok {
			// Open-world default: no rules defined means no objection.
			include(code)
			continue
		}

		requiredPresent := containsAny(lower, rules.RequiredTerms)
		excludedPresent := containsAny(lower, rules.ExcludedTerms)
		journalMatch := anyJournalMatch(txn.JournalEntries, rules.JournalPatterns)

		if (requiredPresent && !excludedPresent) || journalMatch {
			include(code)
		}
	}

	// Static exclusions keyed by active transaction type or its mention in
	// the text.
	for label, excluded := range excludedStandards {
		_, active := types[label]
		if !active && !strings.Contains(lower, label) {
			continue
		}
		candidates = removeAll(candidates, excluded)
	}

	if len(candidates) == 0 &&
		(sig.construction || sig.reversal || sig.workInProgress || strings.Contains(lower, "istisna")) {
		candidates = append(candidates, "FAS 10")
	}

	return candidates
}

// anyJournalMatch reports whether any entry's debit or credit account
// contains one of the patterns.
func anyJournalMatch(entries []model.JournalEntry, patterns []string) bool {
	for _, entry := range entries {
		debit := strings.ToLower(entry.DebitAccount)
		credit := strings.ToLower(entry.CreditAccount)
		for _, pattern := range patterns {
			if strings.Contains(debit, pattern) || strings.Contains(credit, pattern) {
				return true
			}
		}
	}
	return false
}

func removeAll(codes []string, drop []string) []string {
	dropSet := make(map[string]bool, len(drop))
	for _, code := range drop {
		dropSet[code] = true
	}
	var kept []string
	for _, code := range codes {
		if !dropSet[code] {
			kept = append(kept, code)
		}
	}
	return kept
}

func sortedSet(set map[string]bool) []string {
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
