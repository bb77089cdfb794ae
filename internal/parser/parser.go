// Package parser extracts structured features from free-text transaction
// descriptions: monetary amounts, dates, accounts, vocabulary hits,
// transaction-type confidences, journal entries and context.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mizanlabs/mizan/internal/model"
)

// Parser turns raw transaction text into a model.Transaction. Parse is a
// pure function of its input; a Parser is safe for concurrent use.
type Parser struct {
	amountPattern     *regexp.Regexp
	percentagePattern *regexp.Regexp
	datePattern       *regexp.Regexp
	accountPattern    *regexp.Regexp
	accountNouns      []*regexp.Regexp
	drCrPattern       *regexp.Regexp
	debitOnlyPattern  *regexp.Regexp
	creditOnlyPattern *regexp.Regexp
	partyPattern      *regexp.Regexp
	purposePatterns   []*regexp.Regexp
	timeframePatterns []*regexp.Regexp
}

// New creates a Parser with all extraction patterns precompiled.
func New() *Parser {
	p := &Parser{
		amountPattern:     regexp.MustCompile(`\$\s*\d+(?:,\d+)*(?:\.\d+)?|\d+(?:,\d+)*(?:\.\d+)?\s*(?:USD|AED|SAR|EUR|GBP)`),
		percentagePattern: regexp.MustCompile(`\d+(?:\.\d+)?\s*%`),
		datePattern:       regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}|\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4}`),
		accountPattern:    regexp.MustCompile(`(?i)(?:account|acct)\.?\s*(?:#|no\.?|number)?\s*\d+`),
		drCrPattern:       regexp.MustCompile(`(?i)(?:Dr\.?|Debit)\s+([^/\n]+)(?:/|\n)?\s*(?:Cr\.?|Credit)\s+([^/\n]+)`),
		debitOnlyPattern:  regexp.MustCompile(`(?i)(?:Dr\.?|Debit)\s+([^.\n]+)`),
		creditOnlyPattern: regexp.MustCompile(`(?i)(?:Cr\.?|Credit)\s+([^.\n]+)`),
		partyPattern:      regexp.MustCompile(`(?i)(?:[A-Z][a-z]+\s+){1,3}(?:Bank|Company|Corporation|LLC|Ltd|Inc|PLC|Group|Institution)`),
	}

	for _, noun := range commonAccountNouns {
		p.accountNouns = append(p.accountNouns,
			regexp.MustCompile(`(?i)\b`+noun+`\b\s*(?:account|acct)?`))
	}

	for _, pattern := range []string{
		`for\s+(?:the\s+)?purpose\s+of\s+([^.]+)`,
		`in\s+order\s+to\s+([^.]+)`,
		`with\s+the\s+aim\s+of\s+([^.]+)`,
		`intended\s+to\s+([^.]+)`,
	} {
		p.purposePatterns = append(p.purposePatterns, regexp.MustCompile(pattern))
	}

	for _, pattern := range []string{
		`(?:period|term)\s+of\s+(\d+)\s+(?:year|month|day)s?`,
		`(\d+)-year\s+(?:period|term)`,
		`over\s+(?:a|the)\s+(?:period|term)\s+of\s+(\d+)\s+(?:year|month|day)s?`,
	} {
		p.timeframePatterns = append(p.timeframePatterns, regexp.MustCompile(pattern))
	}

	return p
}

// Parse extracts all features from the transaction text. It never fails:
// the absence of a pattern simply leaves the corresponding field empty.
func (p *Parser) Parse(text string) model.Transaction {
	values := p.amountPattern.FindAllString(text, -1)
	values = append(values, p.percentagePattern.FindAllString(text, -1)...)

	txn := model.Transaction{
		RawText:          text,
		FinancialValues:  values,
		Dates:            p.datePattern.FindAllString(text, -1),
		Accounts:         p.extractAccounts(text),
		AccountingTerms:  p.extractAccountingTerms(text),
		IslamicTerms:     p.extractIslamicTerms(text),
		TransactionTypes: p.identifyTransactionTypes(text),
		JournalEntries:   p.extractJournalEntries(text),
		Context:          p.extractContext(text),
	}
	txn.Normalized = p.normalize(&txn)
	return txn
}

// extractAccounts finds explicit "account #N" references plus mentions of
// common account nouns.
func (p *Parser) extractAccounts(text string) []string {
	accounts := p.accountPattern.FindAllString(text, -1)
	for _, noun := range p.accountNouns {
		for _, m := range noun.FindAllString(text, -1) {
			accounts = append(accounts, strings.TrimSpace(m))
		}
	}
	return accounts
}

func (p *Parser) extractAccountingTerms(text string) []string {
	lower := strings.ToLower(text)
	var terms []string
	for _, term := range accountingTerms {
		if strings.Contains(lower, term) {
			terms = append(terms, term)
		}
	}
	return terms
}

// extractIslamicTerms matches the contract vocabulary and applies one
// inference rule: a bank purchasing equity implies a murabaha structure even
// when the word itself is absent.
func (p *Parser) extractIslamicTerms(text string) []string {
	lower := strings.ToLower(text)
	var terms []string
	for _, term := range islamicTerms {
		if strings.Contains(lower, term) {
			terms = append(terms, term)
		}
	}

	if strings.Contains(lower, "bank") && strings.Contains(lower, "equity") &&
		strings.Contains(lower, "purchase") && !containsString(terms, "murabaha") {
		terms = append(terms, "murabaha")
	}

	return terms
}

// extractContext identifies parties, industry, purpose and timeframe.
func (p *Parser) extractContext(text string) model.Context {
	ctx := model.Context{}

	for _, party := range p.partyPattern.FindAllString(text, -1) {
		ctx.Parties = append(ctx.Parties, strings.TrimSpace(party))
	}

	lower := strings.ToLower(text)
	for _, entry := range industryKeywords {
		if containsAny(lower, entry.keywords) {
			ctx.Industry = model.Industry(entry.industry)
			break
		}
	}

	for _, pattern := range p.purposePatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			ctx.Purpose = strings.TrimSpace(m[1])
			break
		}
	}

	for _, pattern := range p.timeframePatterns {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		unit := "days"
		if strings.Contains(m[0], "year") {
			unit = "years"
		} else if strings.Contains(m[0], "month") {
			unit = "months"
		}
		ctx.Timeframe = fmt.Sprintf("%s %s", m[1], unit)
		break
	}

	return ctx
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
