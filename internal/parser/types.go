package parser

import "strings"

// identifyTransactionTypes scores each known transaction-type label with a
// confidence in [0,1]. Compound-keyword special cases run first and pre-seed
// scores; the generic keyword loop then merges its result with any pre-seeded
// value by taking the max.
func (p *Parser) identifyTransactionTypes(text string) map[string]float64 {
	lower := strings.ToLower(text)
	results := make(map[string]float64)

	// Construction contract indicators.
	if strings.Contains(lower, "construction") || strings.Contains(lower, "istisna") ||
		strings.Contains(lower, "work-in-progress") {
		results["construction"] = 0.8
	}

	// Reversal indicators.
	if containsAny(lower, []string{"cancel", "revert", "reverse", "adjustment", "revised"}) {
		results["reversal"] = 0.7
	}

	// Contract-with-value indicators.
	if strings.Contains(lower, "contract") && strings.Contains(lower, "value") {
		results["contract"] = 0.7
	}

	// Bank/financial buyout indicators.
	if (strings.Contains(lower, "bank") || strings.Contains(lower, "financial")) &&
		containsAny(lower, []string{"equity", "stake", "exits", "buyout"}) {
		results["banking_buyout"] = 0.8
		results["financial_buyout"] = 0.7
		results["buyout"] = 0.6
	}

	// Equity transfer indicators. May raise the generic buyout seed above.
	if containsAny(lower, []string{"equity", "stake", "ownership"}) &&
		containsAny(lower, []string{"buy", "purchase", "acquire", "exit"}) {
		results["equity_buyout"] = 0.8
		results["buyout"] = 0.7
	}

	firstSentence := strings.ToLower(strings.SplitN(text, ".", 2)[0])

	for label, keywords := range transactionTypeKeywords {
		score := 0.0
		for _, keyword := range keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}

			base := 0.3

			// Prominence: keyword appears in the first sentence.
			if strings.Contains(firstSentence, keyword) {
				base += 0.2
			}

			// Frequency bonus, capped at 0.3.
			if freq := strings.Count(lower, keyword); freq > 1 {
				bonus := 0.1 * float64(freq)
				if bonus > 0.3 {
					bonus = 0.3
				}
				base += bonus
			}

			if base > score {
				score = base
			}
		}

		if score > 0 {
			if score > 1.0 {
				score = 1.0
			}
			if existing, ok := results[label]; !ok || score > existing {
				results[label] = score
			}
		}
	}

	return results
}
