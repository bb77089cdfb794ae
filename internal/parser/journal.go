package parser

import (
	"strings"

	"github.com/mizanlabs/mizan/internal/model"
)

// maxFallbackEntries bounds the debit-by-credit cross product produced when
// no paired Dr./Cr. lines are found. The cross product itself is inherited
// behavior and deliberately kept; the cap only stops pathological inputs
// from exploding the entry list.
const maxFallbackEntries = 64

// extractJournalEntries finds Dr./Cr. pairs in the text. When no paired
// entries exist it falls back to matching all debit mentions and all credit
// mentions independently and pairing every debit with every credit. That
// over-generates on unpaired inputs; see Scenario tests.
func (p *Parser) extractJournalEntries(text string) []model.JournalEntry {
	var entries []model.JournalEntry

	for _, m := range p.drCrPattern.FindAllStringSubmatch(text, -1) {
		entries = append(entries, model.JournalEntry{
			DebitAccount:  cleanEntryAccount(m[1]),
			CreditAccount: cleanEntryAccount(m[2]),
			DebitAmount:   p.amountFromEntry(m[1]),
			CreditAmount:  p.amountFromEntry(m[2]),
		})
	}

	if len(entries) > 0 {
		return entries
	}

	debits := p.debitOnlyPattern.FindAllStringSubmatch(text, -1)
	credits := p.creditOnlyPattern.FindAllStringSubmatch(text, -1)
	if len(debits) == 0 || len(credits) == 0 {
		return nil
	}

	for _, d := range debits {
		for _, c := range credits {
			if len(entries) >= maxFallbackEntries {
				return entries
			}
			entries = append(entries, model.JournalEntry{
				DebitAccount:  cleanEntryAccount(d[1]),
				CreditAccount: cleanEntryAccount(c[1]),
				DebitAmount:   p.amountFromEntry(d[1]),
				CreditAmount:  p.amountFromEntry(c[1]),
			})
		}
	}

	return entries
}

// amountFromEntry pulls the first monetary amount embedded in entry text.
func (p *Parser) amountFromEntry(entryText string) string {
	if amounts := p.amountPattern.FindAllString(entryText, 1); len(amounts) > 0 {
		return amounts[0]
	}
	return ""
}

// cleanEntryAccount trims the account name, cutting at the first "$" so a
// trailing amount does not leak into the name.
func cleanEntryAccount(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "$"); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s
}
