package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mizanlabs/mizan/internal/enhance"
	"github.com/mizanlabs/mizan/internal/report"
)

// RenderResponse renders a classification report for the terminal.
func RenderResponse(response report.Response) string {
	var sections []string

	sections = append(sections, FormatTitle("AAOIFI FAS Identification"))

	if response.SummaryExplanation != "" {
		sections = append(sections, HeadingStyle.Render("Summary"))
		sections = append(sections, response.SummaryExplanation)
	}

	if len(response.WeightedProbabilities) > 0 {
		sections = append(sections, HeadingStyle.Render("Applicable Standards"))
		sections = append(sections, renderRankings(response))
	}

	for _, explanation := range response.DetailedExplanations {
		sections = append(sections, HeadingStyle.Render(explanation.Standard))
		sections = append(sections, explanation.Explanation)
		if len(explanation.Citations) > 0 {
			sections = append(sections,
				SubtleStyle.Render("Citations: "+strings.Join(explanation.Citations, "; ")))
		}
	}

	if response.Contradictions.ContradictionsFound {
		sections = append(sections, WarningStyle.Render(WarningIcon+" Potential alternative treatments"))
		sections = append(sections, response.Contradictions.Explanation)
	}

	if response.FallbackExplanation != "" {
		sections = append(sections, HeadingStyle.Render("Guidance"))
		sections = append(sections, response.FallbackExplanation)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// renderRankings formats the probability table. The top-ranked standard is
// highlighted.
func renderRankings(response report.Response) string {
	header := TableHeaderStyle.Render(fmt.Sprintf("%-10s %-12s", "Standard", "Probability"))

	rows := []string{header}
	for i, standard := range response.WeightedProbabilities {
		row := fmt.Sprintf("%-10s %-12s", standard.Standard, standard.ProbabilityPercentage)
		if i == 0 {
			row = RankStyle.Render(row)
		}
		rows = append(rows, row)
	}

	return strings.Join(rows, "\n")
}

// RenderEnhancementSummary renders an enhancement workflow summary.
func RenderEnhancementSummary(summary *enhance.Summary) string {
	var sections []string

	sections = append(sections, FormatTitle("Standards Enhancement Proposals"))

	if len(summary.SkippedSteps) > 0 {
		sections = append(sections,
			FormatWarning("skipped steps: "+strings.Join(summary.SkippedSteps, ", ")))
	}

	if len(summary.Proposals) == 0 {
		sections = append(sections, SubtleStyle.Render("No compliant enhancement proposals produced."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
	}

	for _, proposal := range summary.Proposals {
		title := fmt.Sprintf("%s  [priority %d]", proposal.Title, proposal.Priority)
		body := []string{
			proposal.Description,
			SubtleStyle.Render("Standard: " + proposal.StandardID),
			SubtleStyle.Render("Shariah: " + proposal.ShariahCompliance),
			SubtleStyle.Render("Financial impact: " + proposal.FinancialImpact),
		}
		if proposal.Verification != nil {
			body = append(body, SubtleStyle.Render(
				fmt.Sprintf("Verification: confidence %.2f", proposal.Verification.Confidence)))
		}
		sections = append(sections, RenderBox(title, strings.Join(body, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}
