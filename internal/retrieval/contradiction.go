package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/service"
)

const contradictionQueryPrompt = `I need to find potential contradictions or alternative treatments in Islamic finance accounting standards.

Transaction details:
%s

Current identified requirements:
%s

Please generate a search query that would help find potential contradictions or alternative treatments for this transaction. Focus on aspects where different standards might have different approaches.

Query:`

const contradictionAnalysisPrompt = `Analyze the following transaction and identify if there are any contradictions or alternative treatments in the AAOIFI Financial Accounting Standards (FAS) that could apply.

Transaction:
%s

Current identified requirements:
%s

Potential alternative passages:
%s

Please identify:
1. Are there any contradictions between different standards for this transaction? (Yes/No)
2. If yes, what are the specific alternative treatments?
3. Which standards contain these alternative treatments?

Format your response as a JSON object with the following structure:
{
    "contradictions_found": true/false,
    "alternative_treatments": [
        {
            "standard": "FAS X",
            "treatment": "Description of alternative treatment",
            "conflicts_with": ["FAS Y", "FAS Z"]
        }
    ]
}

Response:`

// contradictoryCheck is Stage 3: search for passages that suggest
// conflicting treatments and have the generator judge them. Skipped when
// Stage 2 found no requirements.
func (s *Stage) contradictoryCheck(ctx context.Context, txn *model.Transaction, detail ContextResult) ContradictionResult {
	if len(detail.Requirements) == 0 {
		return ContradictionResult{ContradictionsFound: false}
	}

	query, err := s.generateContradictionQuery(ctx, txn, detail.Requirements)
	if err != nil {
		s.logger.Warn("contradiction query synthesis failed, skipping check", "error", err)
		return ContradictionResult{ContradictionsFound: false, Err: err.Error()}
	}

	docs := s.retrieve(ctx, query, service.SearchOptions{
		K:      contradictionK,
		Mode:   service.SearchMMR,
		FetchK: contradictionFetchK,
	})
	if len(docs) == 0 {
		return ContradictionResult{ContradictionsFound: false}
	}

	return s.analyzeContradictions(ctx, txn, detail.Requirements, docs)
}

func (s *Stage) generateContradictionQuery(ctx context.Context, txn *model.Transaction, requirements map[string][]string) (string, error) {
	prompt := fmt.Sprintf(contradictionQueryPrompt,
		truncate(txn.RawText, 300),
		summarizeRequirements(requirements))

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	query, err := s.generator.Generate(callCtx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(query), nil
}

func (s *Stage) analyzeContradictions(ctx context.Context, txn *model.Transaction, requirements map[string][]string, docs []model.Passage) ContradictionResult {
	passages := make([]string, 0, len(docs))
	for _, doc := range docs {
		passages = append(passages, doc.Text)
	}

	prompt := fmt.Sprintf(contradictionAnalysisPrompt,
		txn.RawText,
		summarizeRequirements(requirements),
		strings.Join(passages, "\n\n"))

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	response, err := s.generator.Generate(callCtx, prompt)
	if err != nil {
		s.logger.Warn("contradiction analysis failed", "error", err)
		return ContradictionResult{ContradictionsFound: false, Err: err.Error()}
	}

	result, ok := parseContradictionJSON(response)
	if !ok {
		return ContradictionResult{
			ContradictionsFound: false,
			Err:                 "failed to parse contradiction analysis response",
		}
	}
	return result
}

// summarizeRequirements renders at most three requirement sentences per
// standard, sorted by code for stable prompts.
func summarizeRequirements(requirements map[string][]string) string {
	var sb strings.Builder
	for _, code := range sortedKeys(requirements) {
		sb.WriteString(code)
		sb.WriteString(":\n")
		reqs := requirements[code]
		if len(reqs) > 3 {
			reqs = reqs[:3]
		}
		for _, req := range reqs {
			sb.WriteString("- ")
			sb.WriteString(req)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// parseContradictionJSON decodes the analysis response, tolerating markdown
// code fences around the JSON body. The boolean reports whether decoding
// succeeded; malformed output is a degraded result, never an error.
func parseContradictionJSON(response string) (ContradictionResult, bool) {
	body := strings.TrimSpace(response)
	if start := strings.Index(body, "{"); start >= 0 {
		if end := strings.LastIndex(body, "}"); end > start {
			body = body[start : end+1]
		}
	}

	var result ContradictionResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return ContradictionResult{}, false
	}
	return result, true
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
