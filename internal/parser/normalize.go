package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mizanlabs/mizan/internal/model"
)

var (
	currencyStripPattern = regexp.MustCompile(`[$,\s]|USD|AED|SAR|EUR|GBP`)
	accountNoisePattern  = regexp.MustCompile(`account|acct\.?|#|no\.?|number`)
)

// normalize produces the cleaned views of the extracted fields: amounts
// parsed to floats where possible, account names stripped of reference
// noise, and transaction types reduced to the top-2 by confidence.
func (p *Parser) normalize(txn *model.Transaction) model.Normalized {
	norm := model.Normalized{}

	for _, raw := range txn.FinancialValues {
		cleaned := currencyStripPattern.ReplaceAllString(raw, "")
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			// Not a parseable currency figure; keep the original token.
			norm.FinancialValues = append(norm.FinancialValues, model.Amount{Raw: raw})
			continue
		}
		norm.FinancialValues = append(norm.FinancialValues, model.Amount{Raw: raw, Value: value, Parsed: true})
	}

	for _, account := range txn.Accounts {
		cleaned := strings.TrimSpace(accountNoisePattern.ReplaceAllString(strings.ToLower(account), ""))
		norm.Accounts = append(norm.Accounts, cleaned)
	}

	if len(txn.TransactionTypes) > 0 {
		norm.TransactionTypes = topTypes(txn.TransactionTypes, 2)
	}

	return norm
}

// topTypes keeps the n highest-confidence type labels. Ties break on label
// name so the result is deterministic.
func topTypes(types map[string]float64, n int) map[string]float64 {
	labels := make([]string, 0, len(types))
	for label := range types {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if types[labels[i]] != types[labels[j]] {
			return types[labels[i]] > types[labels[j]]
		}
		return labels[i] < labels[j]
	})

	if n > len(labels) {
		n = len(labels)
	}
	out := make(map[string]float64, n)
	for _, label := range labels[:n] {
		out[label] = types[label]
	}
	return out
}
