// Package report turns an analysis result into a full classification
// report: the ranked standards table, summary and per-standard explanations,
// alternative-treatment notes and the identified transaction elements.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mizanlabs/mizan/internal/analysis"
	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/retrieval"
	"github.com/mizanlabs/mizan/internal/service"
)

// DetailedExplanation is one per-standard explanation with any citations
// found in it.
type DetailedExplanation struct {
	Standard    string
	Explanation string
	Citations   []string
}

// ContradictionSummary is the rendered alternative-treatment section.
type ContradictionSummary struct {
	ContradictionsFound   bool
	Explanation           string
	AlternativeTreatments []retrieval.AlternativeTreatment
}

// Response is the complete classification report.
type Response struct {
	WeightedProbabilities model.StandardRankings
	SummaryExplanation    string
	DetailedExplanations  []DetailedExplanation
	Contradictions        ContradictionSummary
	RelatedStandards      map[string][]string
	FallbackExplanation   string
	TransactionAnalysis   analysis.Summary
}

// Generator builds Responses. Explanation prose comes from the text
// generator; every call degrades to deterministic template prose on error so
// report building never fails.
type Generator struct {
	generator   service.TextGenerator
	logger      *slog.Logger
	callTimeout time.Duration
}

// New creates a report Generator. A nil logger falls back to slog.Default.
func New(generator service.TextGenerator, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		generator:   generator,
		logger:      logger,
		callTimeout: 30 * time.Second,
	}
}

const detailedExplanationPrompt = `Generate a detailed explanation for why the following AAOIFI Financial Accounting Standard (FAS)
is applicable to this transaction. Include specific citations from the standard where possible.

Transaction:
%s

Standard: %s

Standard Requirements:
%s

Initial Reasoning:
%s

Please provide a comprehensive explanation that:
1. Explains the core purpose and scope of this standard
2. Identifies specific elements in the transaction that trigger this standard
3. Explains how the accounting treatment should be applied
4. Cites specific clauses or paragraphs from the standard where relevant

Format your response as a detailed explanation suitable for financial professionals.
Do not use bullet points or numbered lists - write in cohesive paragraphs.

Explanation:`

const summaryPrompt = `Generate a concise summary explanation for the analysis of this Islamic finance transaction.

Transaction:
%s

Primary Applicable Standard: %s (%s)

Other Applicable Standards:
%s

Please provide a brief summary (3-5 sentences) that:
1. Identifies the main type of transaction
2. Explains why the primary standard is most applicable
3. Mentions any other relevant standards if applicable

Write in a clear, professional tone suitable for financial reporting.

Summary:`

const contradictionExplanationPrompt = `Explain the following alternative treatments or contradictions in AAOIFI Financial Accounting Standards
that might apply to this transaction.

Alternative Treatments:
%s

Please provide a clear explanation of:
1. What aspects of the transaction could be treated differently
2. Which standards offer alternative approaches
3. How these alternatives might impact the accounting treatment

Format your response as a concise explanation suitable for financial professionals.

Explanation:`

const fallbackPrompt = `Generate a response for a transaction where no clear AAOIFI Financial Accounting Standards (FAS)
could be identified with high confidence.

Transaction:
%s

Please provide:
1. An explanation of why it might be difficult to identify applicable standards
2. Suggestions for additional information that might help in the analysis
3. Potential standards that might be relevant with more context

Format your response as a helpful explanation for financial professionals.

Response:`

// Generate assembles the full report for one analyzed transaction.
func (g *Generator) Generate(ctx context.Context, txn *model.Transaction, rag retrieval.Results, result analysis.Result) Response {
	if len(result.ApplicableStandards) == 0 {
		return g.fallbackResponse(ctx, txn, result)
	}

	return Response{
		WeightedProbabilities: result.ApplicableStandards,
		SummaryExplanation:    g.summaryExplanation(ctx, txn, result.ApplicableStandards),
		DetailedExplanations:  g.detailedExplanations(ctx, txn, rag, result.ApplicableStandards),
		Contradictions:        g.contradictionSummary(ctx, rag.ContradictoryCheck),
		RelatedStandards:      relatedStandards(txn),
		TransactionAnalysis:   result.TransactionAnalysis,
	}
}

func (g *Generator) detailedExplanations(ctx context.Context, txn *model.Transaction, rag retrieval.Results, ranked model.StandardRankings) []DetailedExplanation {
	explanations := make([]DetailedExplanation, 0, len(ranked))

	for _, standard := range ranked {
		requirements := rag.DetailedContext.Requirements[standard.Standard]
		reqText := "No specific requirements found in the retrieved documents."
		if len(requirements) > 0 {
			lines := make([]string, 0, len(requirements))
			for _, req := range requirements {
				lines = append(lines, "- "+req)
			}
			reqText = strings.Join(lines, "\n")
		}

		prompt := fmt.Sprintf(detailedExplanationPrompt,
			txn.RawText, standard.Standard, reqText, standard.Reasoning)

		fallback := fmt.Sprintf(
			"%s applies to this transaction based on its identified features. %s",
			standard.Standard, standard.Reasoning)

		explanation := g.generateOrFallback(ctx, prompt, fallback)
		explanations = append(explanations, DetailedExplanation{
			Standard:    standard.Standard,
			Explanation: explanation,
			Citations:   extractCitations(explanation),
		})
	}

	return explanations
}

func (g *Generator) summaryExplanation(ctx context.Context, txn *model.Transaction, ranked model.StandardRankings) string {
	top := ranked[0]

	otherText := "None"
	if len(ranked) > 1 {
		var b strings.Builder
		limit := 3
		if len(ranked) < limit {
			limit = len(ranked)
		}
		for _, standard := range ranked[1:limit] {
			fmt.Fprintf(&b, "- %s (%s)\n", standard.Standard, standard.ProbabilityPercentage)
		}
		otherText = b.String()
	}

	prompt := fmt.Sprintf(summaryPrompt,
		txn.RawText, top.Standard, top.ProbabilityPercentage, otherText)

	fallback := fmt.Sprintf(
		"This transaction is most consistent with %s at %s confidence based on its transaction types, journal entries and contract terms.",
		top.Standard, top.ProbabilityPercentage)

	return g.generateOrFallback(ctx, prompt, fallback)
}

func (g *Generator) contradictionSummary(ctx context.Context, check retrieval.ContradictionResult) ContradictionSummary {
	if !check.ContradictionsFound || len(check.AlternativeTreatments) == 0 {
		return ContradictionSummary{
			ContradictionsFound: false,
			Explanation:         "No alternative treatments or contradictions identified.",
		}
	}

	var b strings.Builder
	for _, treatment := range check.AlternativeTreatments {
		fmt.Fprintf(&b, "- %s: %s\n", treatment.Standard, treatment.Treatment)
		if len(treatment.ConflictsWith) > 0 {
			fmt.Fprintf(&b, "  Conflicts with: %s\n", strings.Join(treatment.ConflictsWith, ", "))
		}
	}

	prompt := fmt.Sprintf(contradictionExplanationPrompt, b.String())
	fallback := "Alternative accounting treatments were identified across the retrieved standards:\n" + b.String()

	return ContradictionSummary{
		ContradictionsFound:   true,
		Explanation:           g.generateOrFallback(ctx, prompt, fallback),
		AlternativeTreatments: check.AlternativeTreatments,
	}
}

func (g *Generator) fallbackResponse(ctx context.Context, txn *model.Transaction, result analysis.Result) Response {
	prompt := fmt.Sprintf(fallbackPrompt, txn.RawText)
	fallback := "No applicable standards could be identified with high confidence. " +
		"Providing journal entries, contract terms or the parties involved would improve the analysis."

	return Response{
		SummaryExplanation: "No applicable standards could be identified with high confidence.",
		Contradictions: ContradictionSummary{
			ContradictionsFound: false,
			Explanation:         "No alternative treatments identified.",
		},
		RelatedStandards:    relatedStandards(txn),
		FallbackExplanation: g.generateOrFallback(ctx, prompt, fallback),
		TransactionAnalysis: result.TransactionAnalysis,
	}
}

func (g *Generator) generateOrFallback(ctx context.Context, prompt, fallback string) string {
	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	text, err := g.generator.Generate(callCtx, prompt)
	if err != nil {
		g.logger.Warn("explanation generation failed, using template", "error", err)
		return fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}

// relatedStandards maps each extracted contract term to the standards that
// govern it, for the "see also" section of the report.
func relatedStandards(txn *model.Transaction) map[string][]string {
	related := make(map[string][]string)
	for _, term := range txn.IslamicTerms {
		if standards, ok := retrieval.Taxonomy[term]; ok {
			related[term] = append([]string(nil), standards...)
		}
	}
	return related
}

var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)paragraph\s+\d+(?:\.\d+)*`),
	regexp.MustCompile(`(?i)section\s+\d+(?:\.\d+)*`),
	regexp.MustCompile(`(?i)clause\s+\d+(?:\.\d+)*`),
	regexp.MustCompile(`(?i)chapter\s+\d+(?:\.\d+)*`),
	regexp.MustCompile(`(?i)FAS\s+\d+\.\d+`),
	regexp.MustCompile(`(?i)FAS\s+\d+\s+paragraph\s+\d+`),
}

// extractCitations pulls paragraph/section/clause references out of
// explanation prose, deduplicated and sorted.
func extractCitations(explanation string) []string {
	seen := make(map[string]struct{})
	for _, pattern := range citationPatterns {
		for _, match := range pattern.FindAllString(explanation, -1) {
			seen[match] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	citations := make([]string, 0, len(seen))
	for c := range seen {
		citations = append(citations, c)
	}
	sort.Strings(citations)
	return citations
}
