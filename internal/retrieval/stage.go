package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/service"
)

const (
	domainK             = 12
	contextK            = 8
	contradictionK      = 5
	contradictionFetchK = 15
)

var fasCodePattern = regexp.MustCompile(`(?i)FAS\s+\d+`)

// Stage runs the three-stage retrieval pipeline. Retrieval and generation
// failures degrade to empty results for the failing stage only.
type Stage struct {
	retriever   service.PassageRetriever
	generator   service.TextGenerator
	logger      *slog.Logger
	callTimeout time.Duration
}

// Config holds options for the retrieval stage.
type Config struct {
	// CallTimeout bounds each external retrieval or generation call.
	CallTimeout time.Duration
}

// New creates a retrieval Stage.
func New(retriever service.PassageRetriever, generator service.TextGenerator, logger *slog.Logger, cfg Config) *Stage {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{
		retriever:   retriever,
		generator:   generator,
		logger:      logger,
		callTimeout: cfg.CallTimeout,
	}
}

// Process runs all three stages against the parsed transaction. The
// transaction itself is never mutated; derived transaction types are
// returned in Results.AugmentedTypes.
func (s *Stage) Process(ctx context.Context, txn *model.Transaction) Results {
	ind := detectIndicators(txn)
	augmented := augmentTypes(txn, ind)

	domain := s.domainFiltering(ctx, txn, ind, augmented)
	detail := s.detailedContextMatching(ctx, txn, augmented, domain)
	contradiction := s.contradictoryCheck(ctx, txn, detail)

	return Results{
		DomainFiltering:    domain,
		DetailedContext:    detail,
		ContradictoryCheck: contradiction,
		AugmentedTypes:     augmented,
	}
}

// indicators are scenario signals detected directly from the raw text and
// journal entries. The parser applies similar checks for its own purposes;
// the duplication is intentional so query enrichment can be tuned
// independently of feature extraction.
type indicators struct {
	construction   bool
	reversal       bool
	workInProgress bool
	bank           bool
	equityTx       bool
	equityJournal  bool
}

func detectIndicators(txn *model.Transaction) indicators {
	lower := strings.ToLower(txn.RawText)

	ind := indicators{
		construction: containsAny(lower, []string{"construction", "project", "development", "contract", "istisna"}),
		reversal:     containsAny(lower, []string{"cancel", "revert", "reverse", "adjustment", "revised"}),
		bank:         containsAny(lower, []string{"bank", "financial", "finance", "equity", "stake", "ownership"}),
		equityTx:     containsAny(lower, []string{"equity", "stake", "share", "ownership", "acquisition"}),
	}

	for _, entry := range txn.JournalEntries {
		debit := strings.ToLower(entry.DebitAccount)
		credit := strings.ToLower(entry.CreditAccount)
		if strings.Contains(debit, "work-in-progress") || strings.Contains(credit, "work-in-progress") {
			ind.workInProgress = true
		}
		if strings.Contains(debit, "equity") || strings.Contains(credit, "equity") {
			ind.equityJournal = true
		}
	}

	return ind
}

// augmentTypes derives buyout sub-types on a copy of the parser's
// transaction-type map. Derived confidences are the parent buyout confidence
// plus a fixed bonus, clamped to 1.0.
func augmentTypes(txn *model.Transaction, ind indicators) map[string]float64 {
	types := txn.TypesCopy()
	lower := strings.ToLower(txn.RawText)

	if buyout, ok := types["buyout"]; ok {
		switch {
		case ind.construction || ind.workInProgress:
			types["construction_buyout"] = clamp1(buyout + 0.1)
		case ind.bank || ind.equityTx || ind.equityJournal:
			types["equity_buyout"] = clamp1(buyout + 0.2)
			types["financial_buyout"] = clamp1(buyout + 0.15)
			if ind.bank && ind.equityTx {
				types["banking_buyout"] = clamp1(buyout + 0.3)
			}
		}
	}

	if ind.construction {
		if _, ok := types["construction"]; !ok {
			types["construction"] = 0.8
		}
	}
	if ind.reversal {
		if _, ok := types["reversal"]; !ok {
			types["reversal"] = 0.7
		}
	}
	if strings.Contains(lower, "contract") {
		if _, ok := types["contract"]; !ok {
			types["contract"] = 0.7
		}
	}

	return types
}

// domainFiltering is Stage 1: a broad query that narrows the corpus to a
// candidate set of standards.
func (s *Stage) domainFiltering(ctx context.Context, txn *model.Transaction, ind indicators, types map[string]float64) DomainResult {
	var parts []string

	for _, label := range topTypeLabels(types, 3) {
		parts = append(parts, label)
	}
	parts = append(parts, txn.IslamicTerms...)

	if ind.construction {
		parts = append(parts, "construction contract", "istisna", "FAS 10")
	}
	if ind.reversal {
		parts = append(parts, "contract reversal", "contract modification", "FAS 10")
	}
	if ind.workInProgress {
		parts = append(parts, "work-in-progress", "construction accounting", "FAS 10")
	}

	_, hasBuyout := types["buyout"]
	if ind.bank && hasBuyout {
		parts = append(parts, "murabaha", "financing", "bank buyout", "FAS 4", "FAS 20")
	}
	if ind.equityTx {
		parts = append(parts, "equity transaction", "ownership transfer", "FAS 4", "FAS 20")
	}
	if ind.equityJournal {
		parts = append(parts, "equity accounting", "ownership change", "FAS 4", "FAS 20")
	}

	if len(txn.AccountingTerms) > 0 {
		n := len(txn.AccountingTerms)
		if n > 3 {
			n = 3
		}
		parts = append(parts, txn.AccountingTerms[:n]...)
	}

	query := strings.Join(parts, " ")
	if query == "" {
		query = truncate(txn.RawText, 200)
	}

	if ind.construction || ind.reversal || ind.workInProgress {
		query += " FAS 10 Istisna contract construction"
	}
	if (ind.bank || ind.equityTx || ind.equityJournal) && hasBuyout {
		query += " FAS 4 FAS 20 FAS 32 ownership bank equity financing"
	}

	docs := s.retrieve(ctx, query, service.SearchOptions{K: domainK, Mode: service.SearchSimilarity})

	standards := make(map[string]bool)
	for _, code := range extractFASCodes(docs) {
		standards[code] = true
	}
	for label := range types {
		for _, code := range transactionTypeMapping[label] {
			standards[code] = true
		}
	}
	if ind.construction || ind.reversal || ind.workInProgress {
		standards["FAS 10"] = true
	}
	if (ind.bank || ind.equityTx || ind.equityJournal) && hasBuyout {
		standards["FAS 4"] = true
		standards["FAS 20"] = true
		standards["FAS 32"] = true
	}

	codes := make([]string, 0, len(standards))
	for code := range standards {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	s.logger.Debug("domain filtering complete",
		"query_terms", len(parts),
		"documents", len(docs),
		"candidates", len(codes))

	return DomainResult{
		Query:              query,
		PotentialStandards: codes,
		Documents:          docs,
	}
}

// retrieve wraps the backend call with a timeout; failures log and return
// an empty passage list so downstream stages proceed with reduced
// information.
func (s *Stage) retrieve(ctx context.Context, query string, opts service.SearchOptions) []model.Passage {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	docs, err := s.retriever.Retrieve(callCtx, query, opts)
	if err != nil {
		s.logger.Warn("passage retrieval failed, continuing without documents",
			"mode", string(opts.Mode), "error", err)
		return nil
	}
	return docs
}

// extractFASCodes collects every standard code mentioned in the passages.
func extractFASCodes(docs []model.Passage) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, doc := range docs {
		for _, match := range fasCodePattern.FindAllString(doc.Text, -1) {
			code := normalizeFASCode(match)
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}
	return codes
}

func normalizeFASCode(code string) string {
	fields := strings.Fields(strings.ToUpper(code))
	return strings.Join(fields, " ")
}

// topTypeLabels returns the n highest-confidence labels, ties broken by name.
func topTypeLabels(types map[string]float64, n int) []string {
	labels := make([]string, 0, len(types))
	for label := range types {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if types[labels[i]] != types[labels[j]] {
			return types[labels[i]] > types[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if n > len(labels) {
		n = len(labels)
	}
	return labels[:n]
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func clamp1(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// summarizeEntry renders a journal entry for query text.
func summarizeEntry(entry model.JournalEntry) string {
	return fmt.Sprintf("journal entry: debit %s credit %s", entry.DebitAccount, entry.CreditAccount)
}
