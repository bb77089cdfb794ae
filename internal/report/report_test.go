package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanlabs/mizan/internal/analysis"
	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/retrieval"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func rankedResult() analysis.Result {
	return analysis.Result{
		ApplicableStandards: model.StandardRankings{
			{Standard: "FAS 4", Probability: 0.6, ProbabilityPercentage: "60.0%", Reasoning: "buyout reasoning"},
			{Standard: "FAS 20", Probability: 0.4, ProbabilityPercentage: "40.0%", Reasoning: "alternative reasoning"},
		},
		TransactionAnalysis: analysis.Summary{
			TransactionTypes: map[string]float64{"buyout": 0.7},
			IslamicTerms:     []string{"murabaha"},
			JournalEntries: []model.JournalEntry{
				{DebitAccount: "GreenTech Equity", CreditAccount: "Cash",
					DebitAmount: "$1,750,000", CreditAmount: "$1,750,000"},
			},
		},
	}
}

func TestGenerateFullResponse(t *testing.T) {
	gen := New(&stubGenerator{response: "Generated prose citing paragraph 12 of the standard."}, nil)

	txn := &model.Transaction{
		RawText:      "Al Baraka Bank buys out the GreenTech equity stake.",
		IslamicTerms: []string{"murabaha"},
	}
	rag := retrieval.Results{
		DetailedContext: retrieval.ContextResult{
			Requirements: map[string][]string{"FAS 4": {"FAS 4 requires cost disclosure."}},
		},
	}

	response := gen.Generate(context.Background(), txn, rag, rankedResult())

	assert.Len(t, response.WeightedProbabilities, 2)
	assert.Equal(t, "Generated prose citing paragraph 12 of the standard.", response.SummaryExplanation)
	assert.Empty(t, response.FallbackExplanation)

	require.Len(t, response.DetailedExplanations, 2)
	assert.Equal(t, "FAS 4", response.DetailedExplanations[0].Standard)
	assert.Equal(t, []string{"paragraph 12"}, response.DetailedExplanations[0].Citations)

	assert.False(t, response.Contradictions.ContradictionsFound)
	assert.Equal(t, map[string][]string{"murabaha": {"FAS 4", "FAS 28"}}, response.RelatedStandards)
}

func TestGenerateDegradesToTemplates(t *testing.T) {
	gen := New(&stubGenerator{err: errors.New("offline")}, nil)

	txn := &model.Transaction{RawText: "Bank buys equity."}
	response := gen.Generate(context.Background(), txn, retrieval.Results{}, rankedResult())

	assert.Contains(t, response.SummaryExplanation, "most consistent with FAS 4 at 60.0%")
	require.Len(t, response.DetailedExplanations, 2)
	assert.Contains(t, response.DetailedExplanations[0].Explanation, "FAS 4 applies to this transaction")
	assert.Contains(t, response.DetailedExplanations[0].Explanation, "buyout reasoning")
}

func TestGenerateFallbackResponse(t *testing.T) {
	gen := New(&stubGenerator{response: "Consider providing contract terms."}, nil)

	txn := &model.Transaction{RawText: "A plain remittance."}
	response := gen.Generate(context.Background(), txn, retrieval.Results{}, analysis.Result{})

	assert.Empty(t, response.WeightedProbabilities)
	assert.Equal(t, "No applicable standards could be identified with high confidence.", response.SummaryExplanation)
	assert.Equal(t, "Consider providing contract terms.", response.FallbackExplanation)
}

func TestContradictionSummaryWithTreatments(t *testing.T) {
	gen := New(&stubGenerator{err: errors.New("offline")}, nil)

	check := retrieval.ContradictionResult{
		ContradictionsFound: true,
		AlternativeTreatments: []retrieval.AlternativeTreatment{
			{Standard: "FAS 32", Treatment: "Treat as an operating ijarah.", ConflictsWith: []string{"FAS 4"}},
		},
	}

	summary := gen.contradictionSummary(context.Background(), check)
	assert.True(t, summary.ContradictionsFound)
	assert.Contains(t, summary.Explanation, "FAS 32: Treat as an operating ijarah.")
	assert.Contains(t, summary.Explanation, "Conflicts with: FAS 4")
	assert.Len(t, summary.AlternativeTreatments, 1)
}

func TestExtractCitations(t *testing.T) {
	text := "See paragraph 12 and Section 3.2; also Paragraph 12 again, clause 4 and FAS 32 paragraph 7."

	citations := extractCitations(text)
	assert.Equal(t, []string{
		"FAS 32 paragraph 7",
		"Paragraph 12",
		"Section 3.2",
		"clause 4",
		"paragraph 12",
		"paragraph 7",
	}, citations)

	assert.Nil(t, extractCitations("No references here."))
}

func TestFormatText(t *testing.T) {
	response := Response{
		WeightedProbabilities: rankedResult().ApplicableStandards,
		SummaryExplanation:    "A banking buyout.",
		DetailedExplanations: []DetailedExplanation{
			{Standard: "FAS 4", Explanation: "Explanation body.", Citations: []string{"paragraph 12"}},
		},
		RelatedStandards:    map[string][]string{"murabaha": {"FAS 4", "FAS 28"}},
		TransactionAnalysis: rankedResult().TransactionAnalysis,
	}

	text := FormatText(response)

	assert.Contains(t, text, "# AAOIFI FAS STANDARD IDENTIFICATION ANALYSIS")
	assert.Contains(t, text, "## SUMMARY\nA banking buyout.")
	assert.Contains(t, text, "| FAS 4 | 60.0% |")
	assert.Contains(t, text, "### FAS 4")
	assert.Contains(t, text, "- paragraph 12")
	assert.Contains(t, text, "- buyout (confidence: 0.70)")
	assert.Contains(t, text, "- Dr. GreenTech Equity $1,750,000 / Cr. Cash $1,750,000")
	assert.Contains(t, text, "- murabaha: FAS 4, FAS 28")
	assert.NotContains(t, text, "## GUIDANCE")
}

func TestFormatTextFallback(t *testing.T) {
	response := Response{
		SummaryExplanation:  "No applicable standards could be identified with high confidence.",
		FallbackExplanation: "Provide journal entries for a better analysis.",
	}

	text := FormatText(response)
	assert.Contains(t, text, "## GUIDANCE\n\nProvide journal entries for a better analysis.")
	assert.NotContains(t, text, "## APPLICABLE STANDARDS")
}
