package enhance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mizanlabs/mizan/internal/service"
)

// Each agent pairs keyword heuristics with generator-backed prose. The
// heuristics decide; the generator only elaborates, so a failing generator
// never changes an outcome.

const clarityThreshold = 7

// coverage topics a current standard is expected to address.
var coverageTopics = []string{"digital", "disclosure", "governance", "sustainability"}

// Shariah issue checks: the concern term flags an issue unless the
// mitigating term appears alongside it.
var shariahChecks = []struct {
	term       string
	mitigation string
	issue      string
}{
	{"interest", "prohibited", "interest (riba) considerations"},
	{"speculation", "avoided", "excessive uncertainty (gharar)"},
	{"gambling", "prohibited", "gambling (maysir) elements"},
}

// StandardsReviewer scans standards for enhancement opportunities.
type StandardsReviewer struct {
	generator   service.TextGenerator
	logger      *slog.Logger
	callTimeout time.Duration
}

// NewStandardsReviewer creates a reviewer agent.
func NewStandardsReviewer(generator service.TextGenerator, logger *slog.Logger) *StandardsReviewer {
	return &StandardsReviewer{generator: generator, logger: logger, callTimeout: 30 * time.Second}
}

// AnalyzeStandards returns one opportunity per weakness found. A standard
// with no clarity or coverage issues produces nothing.
func (r *StandardsReviewer) AnalyzeStandards(ctx context.Context, standards []Standard) []Opportunity {
	var opportunities []Opportunity

	for _, standard := range standards {
		if score := clarityScore(standard.Content); score < clarityThreshold {
			opportunities = append(opportunities, Opportunity{
				ID:         fmt.Sprintf("%s-clarity", standard.ID),
				StandardID: standard.ID,
				Title:      fmt.Sprintf("Improve clarity of %s", standard.Title),
				Description: r.describe(ctx, standard, "clarity",
					fmt.Sprintf("Restructure %s with shorter provisions and defined terms to improve readability.", standard.Title)),
				Rationale: fmt.Sprintf("Clarity evaluation scored %d of 10.", score),
				Category:  "clarity",
			})
		}

		for _, gap := range coverageGaps(standard.Content) {
			opportunities = append(opportunities, Opportunity{
				ID:         fmt.Sprintf("%s-coverage-%s", standard.ID, gap),
				StandardID: standard.ID,
				Title:      fmt.Sprintf("Extend %s to address %s", standard.Title, gap),
				Description: r.describe(ctx, standard, gap,
					fmt.Sprintf("Add guidance to %s covering %s considerations in contemporary Islamic finance.", standard.Title, gap)),
				Rationale: fmt.Sprintf("The standard does not address %s.", gap),
				Category:  "coverage",
			})
		}
	}

	r.logger.Info("standards review complete",
		"standards", len(standards), "opportunities", len(opportunities))
	return opportunities
}

func (r *StandardsReviewer) describe(ctx context.Context, standard Standard, topic, fallback string) string {
	prompt := fmt.Sprintf(`Propose a specific enhancement to the following AAOIFI standard addressing %s.

Standard: %s

%s

Write 2-3 sentences describing the enhancement. Do not use lists.`,
		topic, standard.Title, truncateText(standard.Content, 800))

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	text, err := r.generator.Generate(callCtx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return fallback
	}
	return strings.TrimSpace(text)
}

// clarityScore rates content readability on a 1-10 scale. Long sentences
// and missing definitions pull the score down.
func clarityScore(content string) int {
	if strings.TrimSpace(content) == "" {
		return 1
	}

	score := 10
	sentences := strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	long := 0
	for _, s := range sentences {
		if len(strings.Fields(s)) > 35 {
			long++
		}
	}
	if len(sentences) > 0 {
		switch {
		case long*2 >= len(sentences):
			score -= 4
		case long > 0:
			score -= 2
		}
	}

	lower := strings.ToLower(content)
	if !strings.Contains(lower, "definition") && !strings.Contains(lower, "means") {
		score -= 2
	}
	if len(strings.Fields(content)) < 50 {
		score -= 2
	}

	if score < 1 {
		score = 1
	}
	return score
}

func coverageGaps(content string) []string {
	lower := strings.ToLower(content)
	var gaps []string
	for _, topic := range coverageTopics {
		if !strings.Contains(lower, topic) {
			gaps = append(gaps, topic)
		}
	}
	return gaps
}

// ShariahExpert evaluates opportunities against Shariah principles.
type ShariahExpert struct {
	logger *slog.Logger
}

// NewShariahExpert creates a Shariah evaluation agent.
func NewShariahExpert(logger *slog.Logger) *ShariahExpert {
	return &ShariahExpert{logger: logger}
}

// EvaluateStandard checks one opportunity's text for unmitigated riba,
// gharar and maysir concerns.
func (s *ShariahExpert) EvaluateStandard(opp Opportunity) ShariahInsight {
	lower := strings.ToLower(opp.Title + " " + opp.Description)

	var issues []string
	for _, check := range shariahChecks {
		if strings.Contains(lower, check.term) && !strings.Contains(lower, check.mitigation) {
			issues = append(issues, check.issue)
		}
	}

	insight := ShariahInsight{
		StandardID: opp.StandardID,
		Compliant:  len(issues) == 0,
		Issues:     issues,
	}
	if insight.Compliant {
		insight.ComplianceStatus = "Fully compliant with Shariah principles"
	} else {
		insight.ComplianceStatus = "Partially compliant with Shariah principles"
		for _, issue := range issues {
			insight.Recommendations = append(insight.Recommendations, "Address issue with "+issue)
		}
	}
	return insight
}

// FinancialAnalyst assesses the financial implications of a proposal set.
type FinancialAnalyst struct {
	generator   service.TextGenerator
	logger      *slog.Logger
	callTimeout time.Duration
}

// NewFinancialAnalyst creates a financial assessment agent.
func NewFinancialAnalyst(generator service.TextGenerator, logger *slog.Logger) *FinancialAnalyst {
	return &FinancialAnalyst{generator: generator, logger: logger, callTimeout: 30 * time.Second}
}

// AssessImplications rates the aggregate impact of the opportunity set and
// lists market opportunities and transition risks.
func (f *FinancialAnalyst) AssessImplications(ctx context.Context, opps []Opportunity) FinancialAssessment {
	impact := "low"
	switch {
	case len(opps) >= 6:
		impact = "high"
	case len(opps) >= 3:
		impact = "medium"
	}

	assessment := FinancialAssessment{
		FinancialImpact: impact,
		Opportunities: []string{
			"Increased adoption of standardized Islamic banking products",
			"Improved comparability of financial statements across institutions",
		},
		Risks: []string{
			"Transition costs for institutions applying the amended standards",
			"Short-term divergence between early and late adopters",
		},
	}

	assessment.Summary = f.summarize(ctx, opps, impact)
	return assessment
}

func (f *FinancialAnalyst) summarize(ctx context.Context, opps []Opportunity, impact string) string {
	fallback := fmt.Sprintf("%d proposed enhancements with an estimated %s aggregate financial impact on reporting institutions.",
		len(opps), impact)

	titles := make([]string, 0, len(opps))
	for _, opp := range opps {
		titles = append(titles, "- "+opp.Title)
	}
	prompt := fmt.Sprintf(`Summarize in 2-3 sentences the financial implications for Islamic financial institutions of adopting these standard enhancements:

%s

Estimated aggregate impact: %s.`, strings.Join(titles, "\n"), impact)

	callCtx, cancel := context.WithTimeout(ctx, f.callTimeout)
	defer cancel()

	text, err := f.generator.Generate(callCtx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return fallback
	}
	return strings.TrimSpace(text)
}

// ComplianceChecker reviews proposed amendments for Shariah, regulatory
// and ethical compliance.
type ComplianceChecker struct {
	logger *slog.Logger
}

// NewComplianceChecker creates a compliance review agent.
func NewComplianceChecker(logger *slog.Logger) *ComplianceChecker {
	return &ComplianceChecker{logger: logger}
}

// CheckCompliance scores one opportunity. The score starts at 100 and each
// Shariah issue deducts 20 points; below 60 the amendment is non-compliant.
func (c *ComplianceChecker) CheckCompliance(opp Opportunity, insight ShariahInsight) ComplianceReport {
	score := 100.0
	var issues []string

	for _, issue := range insight.Issues {
		score -= 20
		issues = append(issues, issue)
	}
	if strings.TrimSpace(opp.Description) == "" {
		score -= 10
		issues = append(issues, "amendment text is empty")
	}

	report := ComplianceReport{
		AmendmentID:      opp.ID,
		OverallCompliant: score >= 60,
		ComplianceScore:  score,
		Issues:           issues,
	}
	for _, issue := range issues {
		report.Recommendations = append(report.Recommendations, "Resolve: "+issue)
	}
	return report
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
