package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/retrieval"
)

const reasoningPrompt = `Generate structured reasoning for why the following AAOIFI Financial Accounting Standard (FAS) is applicable to this transaction.

Transaction:
%s

Standard: %s

Standard Requirements:
%s

Transaction Elements:
- Transaction Types: %s
- Islamic Finance Terms: %s
- Journal Entries: %s

Please provide a detailed reasoning that explains:
1. Why this standard applies to the transaction
2. Which specific elements of the transaction match the standard's requirements
3. Any potential limitations or considerations

Format your response as a concise paragraph that would be suitable for inclusion in a formal analysis.

Reasoning:`

// generateReasoning fills the Reasoning field of each ranked standard via
// the text generator. Generation failure degrades to a deterministic
// template sentence; probabilities are untouched either way.
func (e *Engine) generateReasoning(ctx context.Context, txn *model.Transaction, types map[string]float64, rag retrieval.Results, ranked model.StandardRankings) model.StandardRankings {
	if len(ranked) == 0 {
		return ranked
	}

	typesText := formatTypes(types)
	termsText := strings.Join(txn.IslamicTerms, ", ")
	entriesText := formatJournalEntries(txn.JournalEntries)

	for i := range ranked {
		code := ranked[i].Standard

		requirementsText := "No specific requirements found in the retrieved documents."
		if reqs := rag.DetailedContext.Requirements[code]; len(reqs) > 0 {
			var sb strings.Builder
			for _, req := range reqs {
				sb.WriteString("- ")
				sb.WriteString(req)
				sb.WriteString("\n")
			}
			requirementsText = strings.TrimRight(sb.String(), "\n")
		}

		prompt := fmt.Sprintf(reasoningPrompt,
			txn.RawText, code, requirementsText, typesText, termsText, entriesText)

		ranked[i].Reasoning = e.generateOrFallback(ctx, prompt, code)
	}

	return ranked
}

// generateOrFallback calls the generator with a timeout and substitutes a
// template sentence if the call fails.
func (e *Engine) generateOrFallback(ctx context.Context, prompt, code string) string {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	reasoning, err := e.generator.Generate(callCtx, prompt)
	if err != nil {
		e.logger.Warn("reasoning generation failed, using fallback", "standard", code, "error", err)
		return fmt.Sprintf("%s matches the transaction's extracted characteristics; no generated justification is available.", code)
	}
	return strings.TrimSpace(reasoning)
}

func formatTypes(types map[string]float64) string {
	var parts []string
	for label, confidence := range types {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", label, confidence))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func formatJournalEntries(entries []model.JournalEntry) string {
	var lines []string
	for _, entry := range entries {
		if entry.DebitAccount == "" || entry.CreditAccount == "" {
			continue
		}
		line := "Dr. " + entry.DebitAccount
		if entry.DebitAmount != "" {
			line += " " + entry.DebitAmount
		}
		line += " / Cr. " + entry.CreditAccount
		if entry.CreditAmount != "" {
			line += " " + entry.CreditAmount
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "No journal entries found"
	}
	return strings.Join(lines, "\n")
}
