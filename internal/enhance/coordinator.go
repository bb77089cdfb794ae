package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mizanlabs/mizan/internal/service"
)

// workflowStep names one stage in the fixed enhancement sequence and the
// state keys it consumes and produces.
type workflowStep struct {
	name     string
	requires []string
	produces string
}

var workflowSteps = []workflowStep{
	{name: "standards_review", requires: []string{"standards"}, produces: "enhancement_opportunities"},
	{name: "shariah_evaluation", requires: []string{"enhancement_opportunities"}, produces: "shariah_insights"},
	{name: "financial_assessment", requires: []string{"enhancement_opportunities", "shariah_insights"}, produces: "financial_implications"},
	{name: "compliance_check", requires: []string{"enhancement_opportunities", "shariah_insights", "financial_implications"}, produces: "compliance_reports"},
	{name: "final_proposal", requires: []string{"enhancement_opportunities", "shariah_insights", "financial_implications", "compliance_reports"}, produces: "final_proposals"},
}

// Coordinator runs the enhancement workflow. Steps execute in order and a
// step whose inputs are missing is skipped rather than failing the run, so
// an empty review still yields a valid, empty summary.
type Coordinator struct {
	reviewer  *StandardsReviewer
	shariah   *ShariahExpert
	financial *FinancialAnalyst
	checker   *ComplianceChecker

	secondary service.TextGenerator
	logger    *slog.Logger
	outputDir string
}

// Config holds coordinator options.
type Config struct {
	// OutputDir receives the workflow report JSON. Empty disables saving.
	OutputDir string
	// Secondary, when set, verifies final proposals with a second model.
	Secondary service.TextGenerator
}

// NewCoordinator assembles the agents around one primary generator.
func NewCoordinator(primary service.TextGenerator, logger *slog.Logger, cfg Config) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		reviewer:  NewStandardsReviewer(primary, logger),
		shariah:   NewShariahExpert(logger),
		financial: NewFinancialAnalyst(primary, logger),
		checker:   NewComplianceChecker(logger),
		secondary: cfg.Secondary,
		logger:    logger,
		outputDir: cfg.OutputDir,
	}
}

// Run executes the full workflow over the given standards.
func (c *Coordinator) Run(ctx context.Context, standards []Standard) (*Summary, error) {
	if len(standards) == 0 {
		return nil, fmt.Errorf("no standards to review")
	}

	started := time.Now()
	summary := &Summary{}

	// state tracks which step outputs exist; the values live in summary.
	state := map[string]bool{"standards": true}

	for _, step := range workflowSteps {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if missing := missingInputs(state, step.requires); len(missing) > 0 {
			c.logger.Warn("workflow step skipped",
				"step", step.name, "missing_inputs", strings.Join(missing, ","))
			summary.SkippedSteps = append(summary.SkippedSteps, step.name)
			continue
		}

		c.logger.Info("workflow step started", "step", step.name)

		switch step.name {
		case "standards_review":
			summary.Opportunities = c.reviewer.AnalyzeStandards(ctx, standards)
			state[step.produces] = len(summary.Opportunities) > 0
		case "shariah_evaluation":
			for _, opp := range summary.Opportunities {
				summary.Insights = append(summary.Insights, c.shariah.EvaluateStandard(opp))
			}
			state[step.produces] = true
		case "financial_assessment":
			assessment := c.financial.AssessImplications(ctx, summary.Opportunities)
			summary.Financial = &assessment
			state[step.produces] = true
		case "compliance_check":
			for i, opp := range summary.Opportunities {
				summary.Compliance = append(summary.Compliance,
					c.checker.CheckCompliance(opp, summary.Insights[i]))
			}
			state[step.produces] = true
		case "final_proposal":
			summary.Proposals = c.finalProposals(ctx, summary)
			state[step.produces] = true
		}

		summary.CompletedSteps = append(summary.CompletedSteps, step.name)
	}

	c.logger.Info("workflow complete",
		"duration", time.Since(started).Round(time.Millisecond),
		"proposals", len(summary.Proposals))

	if c.outputDir != "" {
		if err := c.saveReport(summary); err != nil {
			c.logger.Warn("failed to save workflow report", "error", err)
		}
	}

	return summary, nil
}

func missingInputs(state map[string]bool, requires []string) []string {
	var missing []string
	for _, name := range requires {
		if !state[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// finalProposals keeps only compliant amendments, prioritizes them and runs
// the optional second-model verification.
func (c *Coordinator) finalProposals(ctx context.Context, summary *Summary) []Proposal {
	proposals := make([]Proposal, 0, len(summary.Opportunities))

	for i, opp := range summary.Opportunities {
		insight := summary.Insights[i]
		report := summary.Compliance[i]

		if !report.OverallCompliant {
			c.logger.Info("enhancement rejected for compliance issues",
				"amendment", opp.ID, "issues", len(report.Issues))
			continue
		}

		proposal := Proposal{
			ID:                opp.ID,
			StandardID:        opp.StandardID,
			Title:             opp.Title,
			Description:       opp.Description,
			Justification:     opp.Rationale,
			ShariahCompliance: insight.ComplianceStatus,
			FinancialImpact:   summary.Financial.FinancialImpact,
			Recommendation:    "Approved for implementation",
			Priority:          calculatePriority(insight, report),
		}

		verification := c.verifyProposal(ctx, proposal)
		proposal.Verification = &verification

		proposals = append(proposals, proposal)
	}

	sort.SliceStable(proposals, func(i, j int) bool {
		if proposals[i].Priority != proposals[j].Priority {
			return proposals[i].Priority > proposals[j].Priority
		}
		return proposals[i].ID < proposals[j].ID
	})
	return proposals
}

// calculatePriority scores 1-10: base 5, +2 for Shariah compliance, +1 for
// overall compliance, +1 for a compliance score above 90.
func calculatePriority(insight ShariahInsight, report ComplianceReport) int {
	priority := 5
	if insight.Compliant {
		priority += 2
	}
	if report.OverallCompliant {
		priority += 1
		if report.ComplianceScore > 90 {
			priority += 1
		}
	}
	if priority < 1 {
		priority = 1
	}
	if priority > 10 {
		priority = 10
	}
	return priority
}

const verificationPrompt = `Please verify the following proposed amendment to AAOIFI standard %s:

AMENDMENT TITLE: %s

DESCRIPTION: %s

Please evaluate this amendment on the following criteria:
1. Shariah compliance: Is the amendment fully compliant with Islamic principles?
2. Technical accuracy: Is the amendment technically sound and accurate?
3. Practical applicability: Can the amendment be applied in real-world scenarios?
4. Clarity: Is the amendment clearly worded and unambiguous?

Provide your verification results, including:
- Whether the amendment should be approved (Yes/No/With modifications)
- Your confidence score (0-1)
- Any suggested modifications
- Your reasoning for the verification outcome`

// verifyProposal asks the secondary model for an independent review. With no
// secondary model configured, or on error, the proposal passes unverified at
// neutral confidence.
func (c *Coordinator) verifyProposal(ctx context.Context, proposal Proposal) Verification {
	unverified := Verification{
		Verified:   true,
		Confidence: 0.5,
		Reasoning:  "No verification performed (secondary model unavailable)",
	}
	if c.secondary == nil {
		return unverified
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(verificationPrompt, proposal.StandardID, proposal.Title, proposal.Description)
	text, err := c.secondary.Generate(callCtx, prompt)
	if err != nil {
		c.logger.Warn("secondary verification failed", "amendment", proposal.ID, "error", err)
		return unverified
	}

	lower := strings.ToLower(text)
	verification := Verification{
		Verified:   !strings.Contains(lower, "should not be approved") && !strings.Contains(lower, "approved: no"),
		Confidence: 0.85,
		Reasoning:  strings.TrimSpace(text),
	}
	return verification
}

func (c *Coordinator) saveReport(summary *Summary) error {
	if err := os.MkdirAll(c.outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	report := struct {
		WorkflowID  string    `json:"workflow_id"`
		CompletedAt time.Time `json:"completed_at"`
		*Summary
	}{
		WorkflowID:  "workflow_" + time.Now().Format("20060102_150405"),
		CompletedAt: time.Now(),
		Summary:     summary,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow report: %w", err)
	}

	path := filepath.Join(c.outputDir, report.WorkflowID+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write workflow report: %w", err)
	}

	c.logger.Info("workflow report saved", "path", path)
	return nil
}
