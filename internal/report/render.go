package report

import (
	"fmt"
	"sort"
	"strings"
)

// FormatText renders the response as Markdown suitable for files or plain
// terminals. Styled terminal rendering lives in the cli package.
func FormatText(response Response) string {
	var b strings.Builder

	b.WriteString("# AAOIFI FAS STANDARD IDENTIFICATION ANALYSIS\n\n")

	b.WriteString("## SUMMARY\n")
	summary := response.SummaryExplanation
	if summary == "" {
		summary = "No summary available."
	}
	b.WriteString(summary + "\n\n")

	if len(response.WeightedProbabilities) > 0 {
		b.WriteString("## APPLICABLE STANDARDS WITH CONFIDENCE SCORES\n")
		b.WriteString("| FAS Number | Probability |\n")
		b.WriteString("|------------|-------------|\n")
		for _, standard := range response.WeightedProbabilities {
			fmt.Fprintf(&b, "| %s | %s |\n", standard.Standard, standard.ProbabilityPercentage)
		}
		b.WriteString("\n")
	}

	if len(response.DetailedExplanations) > 0 {
		b.WriteString("## DETAILED ANALYSIS\n\n")
		for _, explanation := range response.DetailedExplanations {
			fmt.Fprintf(&b, "### %s\n", explanation.Standard)
			b.WriteString(explanation.Explanation + "\n\n")
			if len(explanation.Citations) > 0 {
				b.WriteString("**Citations:**\n")
				for _, citation := range explanation.Citations {
					fmt.Fprintf(&b, "- %s\n", citation)
				}
				b.WriteString("\n")
			}
		}
	}

	if response.Contradictions.ContradictionsFound {
		b.WriteString("## POTENTIAL ALTERNATIVE TREATMENTS\n\n")
		b.WriteString(response.Contradictions.Explanation + "\n\n")
	}

	if response.FallbackExplanation != "" {
		b.WriteString("## GUIDANCE\n\n")
		b.WriteString(response.FallbackExplanation + "\n\n")
	}

	writeTransactionElements(&b, response)
	writeRelatedStandards(&b, response.RelatedStandards)

	return b.String()
}

func writeTransactionElements(b *strings.Builder, response Response) {
	ta := response.TransactionAnalysis

	hasElements := len(ta.TransactionTypes) > 0 || len(ta.IslamicTerms) > 0 || len(ta.JournalEntries) > 0
	if !hasElements {
		return
	}

	b.WriteString("## TRANSACTION ELEMENTS IDENTIFIED\n\n")

	if len(ta.TransactionTypes) > 0 {
		b.WriteString("**Transaction Types:**\n")
		labels := make([]string, 0, len(ta.TransactionTypes))
		for label := range ta.TransactionTypes {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(b, "- %s (confidence: %.2f)\n", label, ta.TransactionTypes[label])
		}
		b.WriteString("\n")
	}

	if len(ta.IslamicTerms) > 0 {
		b.WriteString("**Islamic Finance Terms:**\n")
		for _, term := range ta.IslamicTerms {
			fmt.Fprintf(b, "- %s\n", term)
		}
		b.WriteString("\n")
	}

	if len(ta.JournalEntries) > 0 {
		b.WriteString("**Journal Entries:**\n")
		for _, entry := range ta.JournalEntries {
			line := "Dr. " + entry.DebitAccount
			if entry.DebitAmount != "" {
				line += " " + entry.DebitAmount
			}
			line += " / Cr. " + entry.CreditAccount
			if entry.CreditAmount != "" {
				line += " " + entry.CreditAmount
			}
			fmt.Fprintf(b, "- %s\n", line)
		}
		b.WriteString("\n")
	}
}

func writeRelatedStandards(b *strings.Builder, related map[string][]string) {
	if len(related) == 0 {
		return
	}

	b.WriteString("## RELATED STANDARDS BY CONTRACT TERM\n\n")
	terms := make([]string, 0, len(related))
	for term := range related {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for _, term := range terms {
		fmt.Fprintf(b, "- %s: %s\n", term, strings.Join(related[term], ", "))
	}
	b.WriteString("\n")
}
