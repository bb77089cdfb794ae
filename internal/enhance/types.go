// Package enhance implements the standards-enhancement workflow: a fixed
// sequence of review, Shariah evaluation, financial assessment and
// compliance checking that produces prioritized amendment proposals.
package enhance

// Standard is one corpus standard submitted for review.
type Standard struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Opportunity is an enhancement opportunity identified during review.
type Opportunity struct {
	ID          string `json:"id"`
	StandardID  string `json:"standard_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
	Category    string `json:"category"`
}

// ShariahInsight is the Shariah evaluation of one opportunity.
type ShariahInsight struct {
	StandardID       string   `json:"standard_id"`
	Compliant        bool     `json:"compliant"`
	ComplianceStatus string   `json:"compliance_status"`
	Issues           []string `json:"issues_identified,omitempty"`
	Recommendations  []string `json:"recommendations,omitempty"`
}

// FinancialAssessment summarizes the financial implications of the
// proposed enhancements as a whole.
type FinancialAssessment struct {
	FinancialImpact string   `json:"financial_impact"`
	Opportunities   []string `json:"opportunities,omitempty"`
	Risks           []string `json:"risks,omitempty"`
	Summary         string   `json:"summary"`
}

// ComplianceReport is the regulatory and ethical review of one opportunity.
type ComplianceReport struct {
	AmendmentID      string   `json:"amendment_id"`
	OverallCompliant bool     `json:"overall_compliant"`
	ComplianceScore  float64  `json:"compliance_score"`
	Issues           []string `json:"issues,omitempty"`
	Recommendations  []string `json:"recommendations,omitempty"`
}

// Verification is a second-model review of a final proposal.
type Verification struct {
	Verified    bool     `json:"verified"`
	Confidence  float64  `json:"confidence"`
	Suggestions []string `json:"suggestions,omitempty"`
	Reasoning   string   `json:"reasoning"`
}

// Proposal is one final, prioritized amendment proposal.
type Proposal struct {
	ID                string        `json:"id"`
	StandardID        string        `json:"standard_id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Justification     string        `json:"justification"`
	ShariahCompliance string        `json:"shariah_compliance"`
	FinancialImpact   string        `json:"financial_impact"`
	Recommendation    string        `json:"recommendation"`
	Priority          int           `json:"priority"`
	Verification      *Verification `json:"verification_results,omitempty"`
}

// Summary is the outcome of one full workflow run.
type Summary struct {
	CompletedSteps []string             `json:"completed_steps"`
	SkippedSteps   []string             `json:"skipped_steps,omitempty"`
	Opportunities  []Opportunity        `json:"enhancement_opportunities"`
	Insights       []ShariahInsight     `json:"shariah_insights"`
	Financial      *FinancialAssessment `json:"financial_implications,omitempty"`
	Compliance     []ComplianceReport   `json:"compliance_reports"`
	Proposals      []Proposal           `json:"final_proposals"`
}
