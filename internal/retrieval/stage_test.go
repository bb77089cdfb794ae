package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/service"
)

// stubRetriever records every call and replays canned passages.
type stubRetriever struct {
	passages []model.Passage
	err      error
	queries  []string
	opts     []service.SearchOptions
}

func (s *stubRetriever) Retrieve(_ context.Context, query string, opts service.SearchOptions) ([]model.Passage, error) {
	s.queries = append(s.queries, query)
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return nil, s.err
	}
	return s.passages, nil
}

// stubGenerator replays canned responses in order.
type stubGenerator struct {
	responses []string
	err       error
	prompts   []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", nil
	}
	response := s.responses[0]
	s.responses = s.responses[1:]
	return response, nil
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestDetectIndicators(t *testing.T) {
	txn := &model.Transaction{
		RawText: "The bank acquires an equity stake after the project cancellation.",
		JournalEntries: []model.JournalEntry{
			{DebitAccount: "Work-in-Progress", CreditAccount: "GreenTech Equity"},
		},
	}

	ind := detectIndicators(txn)

	assert.True(t, ind.construction) // "project"
	assert.True(t, ind.reversal)     // "cancel"
	assert.True(t, ind.bank)
	assert.True(t, ind.equityTx)
	assert.True(t, ind.workInProgress)
	assert.True(t, ind.equityJournal)
}

func TestAugmentTypesEquityBranch(t *testing.T) {
	txn := &model.Transaction{
		RawText:          "Al Baraka Bank buys out the equity stake.",
		TransactionTypes: map[string]float64{"buyout": 0.6},
	}

	types := augmentTypes(txn, detectIndicators(txn))

	assert.InDelta(t, 0.8, types["equity_buyout"], 1e-9)
	assert.InDelta(t, 0.75, types["financial_buyout"], 1e-9)
	assert.InDelta(t, 0.9, types["banking_buyout"], 1e-9)

	// The parser's map must stay untouched.
	assert.Equal(t, map[string]float64{"buyout": 0.6}, txn.TransactionTypes)
}

func TestAugmentTypesConstructionBranchWins(t *testing.T) {
	txn := &model.Transaction{
		RawText:          "The bank exits the construction project buyout.",
		TransactionTypes: map[string]float64{"buyout": 0.95},
	}

	types := augmentTypes(txn, detectIndicators(txn))

	// Construction takes the branch; derived equity sub-types are not added.
	assert.InDelta(t, 1.0, types["construction_buyout"], 1e-9) // clamped
	assert.NotContains(t, types, "equity_buyout")
	assert.InDelta(t, 0.8, types["construction"], 1e-9)
}

func TestAugmentTypesAddsMissingBaseTypes(t *testing.T) {
	txn := &model.Transaction{
		RawText:          "The revised contract for the development is adjusted.",
		TransactionTypes: map[string]float64{},
	}

	types := augmentTypes(txn, detectIndicators(txn))

	assert.InDelta(t, 0.8, types["construction"], 1e-9)
	assert.InDelta(t, 0.7, types["reversal"], 1e-9)
	assert.InDelta(t, 0.7, types["contract"], 1e-9)
}

func TestProcessBuyoutScenario(t *testing.T) {
	retriever := &stubRetriever{passages: []model.Passage{
		{Text: "FAS 4 requires recognition of the acquisition.", Metadata: map[string]string{"content": "FAS 4"}},
		{Text: "Under FAS 20 the institution must disclose deferred payment terms.", Metadata: map[string]string{"content": "FAS 20"}},
	}}
	generator := &stubGenerator{responses: []string{
		"alternative equity treatment query",
		`{"contradictions_found": false, "alternative_treatments": []}`,
	}}

	stage := New(retriever, generator, testLogger(), Config{})

	txn := &model.Transaction{
		RawText:          "Al Baraka Bank buys out the GreenTech equity stake.",
		TransactionTypes: map[string]float64{"buyout": 0.6, "banking_buyout": 0.8},
		JournalEntries: []model.JournalEntry{
			{DebitAccount: "GreenTech Equity", CreditAccount: "Cash"},
		},
	}

	results := stage.Process(context.Background(), txn)

	// Candidates union retrieval hits, type mappings and forced inclusions.
	for _, code := range []string{"FAS 4", "FAS 20", "FAS 32"} {
		assert.Contains(t, results.DomainFiltering.PotentialStandards, code)
	}

	// Stage 2 restricts to the Stage 1 candidate set.
	require.Len(t, retriever.opts, 3)
	stage2 := retriever.opts[1]
	assert.Equal(t, contextK, stage2.K)
	assert.Equal(t, results.DomainFiltering.PotentialStandards, stage2.Filter["content"])

	// Stage 3 uses MMR with the larger candidate pool.
	stage3 := retriever.opts[2]
	assert.Equal(t, service.SearchMMR, stage3.Mode)
	assert.Equal(t, contradictionK, stage3.K)
	assert.Equal(t, contradictionFetchK, stage3.FetchK)

	assert.False(t, results.ContradictoryCheck.ContradictionsFound)
	assert.Contains(t, results.AugmentedTypes, "equity_buyout")
}

func TestProcessDegradesOnRetrievalFailure(t *testing.T) {
	retriever := &stubRetriever{err: errors.New("backend down")}
	generator := &stubGenerator{}

	stage := New(retriever, generator, testLogger(), Config{})
	txn := &model.Transaction{
		RawText:          "Construction contract for a new warehouse.",
		TransactionTypes: map[string]float64{"construction": 0.8},
	}

	results := stage.Process(context.Background(), txn)

	// Forced inclusions survive even with no documents.
	assert.Contains(t, results.DomainFiltering.PotentialStandards, "FAS 10")
	assert.Empty(t, results.DomainFiltering.Documents)
	assert.Empty(t, results.DetailedContext.Requirements)
	assert.False(t, results.ContradictoryCheck.ContradictionsFound)
}

func TestExtractFASCodes(t *testing.T) {
	docs := []model.Passage{
		{Text: "FAS 4 and fas 20 both apply. FAS 4 again."},
		{Text: "Nothing relevant here."},
		{Text: "See FAS   32 for ijarah."},
	}

	codes := extractFASCodes(docs)
	assert.Equal(t, []string{"FAS 4", "FAS 20", "FAS 32"}, codes)
}

func TestTopTypeLabels(t *testing.T) {
	types := map[string]float64{"a": 0.2, "b": 0.9, "c": 0.9, "d": 0.1}
	assert.Equal(t, []string{"b", "c", "a"}, topTypeLabels(types, 3))
}
