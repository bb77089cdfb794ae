package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/retrieval"
	"github.com/mizanlabs/mizan/internal/service"
)

// Result is the terminal output of one analysis pass.
type Result struct {
	ApplicableStandards model.StandardRankings
	TransactionAnalysis Summary
}

// Summary restates the transaction features the ranking was based on.
type Summary struct {
	TransactionTypes map[string]float64
	IslamicTerms     []string
	AccountingTerms  []string
	JournalEntries   []model.JournalEntry
	Context          model.Context
}

// Engine filters, scores and adjusts candidate standards. It never returns
// an error: missing retrieval data degrades to empty collections and the
// fallback paths.
type Engine struct {
	generator   service.TextGenerator
	logger      *slog.Logger
	callTimeout time.Duration
}

// New creates an analysis Engine. The generator backs reasoning prose; a nil
// logger falls back to slog.Default.
func New(generator service.TextGenerator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		generator:   generator,
		logger:      logger,
		callTimeout: 30 * time.Second,
	}
}

// AnalyzeTransaction runs the full analysis: candidate filtering,
// probabilistic ranking, reasoning generation and edge-case adjustment.
// Transaction types come from the retrieval results' augmented copy so the
// derived buyout sub-types participate in scoring.
func (e *Engine) AnalyzeTransaction(ctx context.Context, txn *model.Transaction, rag retrieval.Results) Result {
	types := rag.AugmentedTypes
	if types == nil {
		types = txn.TypesCopy()
	}

	candidates := e.identifyApplicableStandards(txn, types, rag)
	e.logger.Debug("candidate standards identified", "count", len(candidates))

	ranked := e.rankStandards(txn, types, rag, candidates)
	reasoned := e.generateReasoning(ctx, txn, types, rag, ranked)
	final := e.applyEdgeCaseRules(ctx, txn, types, reasoned)

	return Result{
		ApplicableStandards: final,
		TransactionAnalysis: Summary{
			TransactionTypes: types,
			IslamicTerms:     txn.IslamicTerms,
			AccountingTerms:  txn.AccountingTerms,
			JournalEntries:   txn.JournalEntries,
			Context:          txn.Context,
		},
	}
}

// signals are the scenario indicators the analysis derives for itself from
// the raw text, independently of the parser and the retrieval stage. Each
// site applies slightly different keyword sets on purpose.
type signals struct {
	construction   bool
	reversal       bool
	workInProgress bool
	bank           bool
	equityTx       bool
	equityJournal  bool
	cashCredit     bool
}

func detectSignals(txn *model.Transaction, types map[string]float64) signals {
	lower := strings.ToLower(txn.RawText)

	_, hasConstructionType := types["construction"]
	_, hasReversalType := types["reversal"]

	sig := signals{
		construction: hasConstructionType ||
			containsAny(lower, []string{"construction", "project", "development", "contract"}),
		reversal: hasReversalType ||
			containsAny(lower, []string{"cancel", "revert", "reverse", "adjustment", "revised"}),
		bank:     containsAny(lower, []string{"bank", "financial", "finance", "banking"}),
		equityTx: containsAny(lower, []string{"equity", "stake", "share", "ownership", "acquisition"}),
	}

	for _, entry := range txn.JournalEntries {
		debit := strings.ToLower(entry.DebitAccount)
		credit := strings.ToLower(entry.CreditAccount)
		if strings.Contains(debit, "work-in-progress") || strings.Contains(credit, "work-in-progress") {
			sig.workInProgress = true
		}
		if strings.Contains(debit, "equity") || strings.Contains(credit, "equity") {
			sig.equityJournal = true
		}
		if strings.Contains(credit, "cash") {
			sig.cashCredit = true
		}
	}

	return sig
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
