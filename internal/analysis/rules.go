// Package analysis combines rule matches and retrieval evidence into a
// normalized probability distribution over candidate standards, then applies
// scenario-specific edge-case adjustments.
package analysis

// RuleSet holds the static matching rules for one standard.
type RuleSet struct {
	// RequiredTerms: at least one must appear in the raw text for direct
	// inclusion.
	RequiredTerms []string
	// ExcludedTerms: presence disqualifies direct inclusion. Edge-case
	// overrides can still force the standard back in.
	ExcludedTerms []string
	// JournalPatterns are substrings matched against debit/credit account
	// names.
	JournalPatterns []string
}

// featureWeights of the scoring function; they sum to 1.0.
var featureWeights = struct {
	TransactionTypeMatch          float64
	JournalEntryMatch             float64
	AccountingTreatmentSimilarity float64
	IndustryContextMatch          float64
}{
	TransactionTypeMatch:          0.35,
	JournalEntryMatch:             0.25,
	AccountingTreatmentSimilarity: 0.25,
	IndustryContextMatch:          0.15,
}

// fasRules is the per-standard rule table. Standards without an entry are
// included unconditionally when retrieval surfaces them.
var fasRules = map[string]RuleSet{
	"FAS 4": {
		RequiredTerms:   []string{"murabaha", "purchase order", "cost plus", "bank", "finance", "ownership", "equity", "stake"},
		ExcludedTerms:   []string{"ijarah", "salam"},
		JournalPatterns: []string{"murabaha asset", "murabaha receivable", "equity", "cash"},
	},
	"FAS 7": {
		RequiredTerms:   []string{"salam", "advance payment", "future delivery"},
		ExcludedTerms:   []string{"ijarah", "murabaha"},
		JournalPatterns: []string{"salam asset", "salam receivable"},
	},
	"FAS 10": {
		RequiredTerms:   []string{"istisna", "manufacturing", "construction", "project", "development", "contract", "work-in-progress", "reversal"},
		ExcludedTerms:   []string{},
		JournalPatterns: []string{"istisna asset", "istisna receivable", "istisna payable", "work-in-progress", "accounts payable", "contract", "progress"},
	},
	"FAS 20": {
		RequiredTerms:   []string{"investment", "equity", "ownership", "stake", "buyout", "acquisition", "derecognition"},
		ExcludedTerms:   []string{},
		JournalPatterns: []string{"investment", "equity", "stake", "cash", "ownership"},
	},
	"FAS 28": {
		RequiredTerms:   []string{"deferred payment", "installment", "credit sale", "murabaha"},
		ExcludedTerms:   []string{"istisna", "ijarah", "salam"},
		JournalPatterns: []string{"deferred payment", "installment receivable"},
	},
	"FAS 32": {
		RequiredTerms:   []string{"ijarah", "lease", "rental", "usufruct"},
		ExcludedTerms:   []string{"istisna", "murabaha", "salam"},
		JournalPatterns: []string{"ijarah asset", "ijarah receivable", "right of use"},
	},
}

// excludedStandards removes standards from consideration when the given
// transaction type is active or its label appears in the text.
var excludedStandards = map[string][]string{
	"construction":          {"FAS 8", "FAS 19", "FAS 23"},
	"reversal":              {"FAS 8", "FAS 19", "FAS 23"},
	"contract_modification": {"FAS 8", "FAS 19", "FAS 23"},
}

// buyoutPriorityStandards is the boost order for banking/equity buyouts:
// each standard gets 0.5 minus 0.1 per rank added to its raw score.
var buyoutPriorityStandards = []string{"FAS 4", "FAS 20", "FAS 32"}

// industryAffinity gives a fixed context score when the transaction's
// industry matches a standard's usual habitat.
var industryAffinity = map[string]map[string]float64{
	"banking":       {"FAS 4": 0.5, "FAS 28": 0.5},
	"real_estate":   {"FAS 10": 0.5, "FAS 32": 0.5},
	"manufacturing": {"FAS 10": 0.7},
	"agriculture":   {"FAS 7": 0.7},
}
