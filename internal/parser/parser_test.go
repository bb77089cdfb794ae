package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buyoutScenario = `GreenTech exits in Year 3, and Al Baraka Bank buys out its stake.
Buyout Price: $1,750,000
Bank Ownership: 100%
Accounting Treatment: Derecognition of GreenTech equity, recognition of acquisition.
Journal Entry for Buyout:
Dr. GreenTech Equity $1,750,000 / Cr. Cash $1,750,000`

func TestParseBuyoutScenario(t *testing.T) {
	txn := New().Parse(buyoutScenario)

	assert.Contains(t, txn.FinancialValues, "$1,750,000")

	require.Len(t, txn.JournalEntries, 1)
	entry := txn.JournalEntries[0]
	assert.Equal(t, "GreenTech Equity", entry.DebitAccount)
	assert.Equal(t, "Cash", entry.CreditAccount)
	assert.Equal(t, "$1,750,000", entry.DebitAmount)
	assert.Equal(t, "$1,750,000", entry.CreditAmount)

	require.Contains(t, txn.TransactionTypes, "banking_buyout")
	assert.GreaterOrEqual(t, txn.TransactionTypes["banking_buyout"], 0.8)
	assert.LessOrEqual(t, txn.TransactionTypes["banking_buyout"], 1.0)
	assert.Contains(t, txn.TransactionTypes, "equity_buyout")
	assert.Contains(t, txn.TransactionTypes, "buyout")

	assert.Contains(t, txn.AccountingTerms, "equity")
	assert.Contains(t, txn.AccountingTerms, "stake")
}

func TestParseIsPure(t *testing.T) {
	p := New()
	first := p.Parse(buyoutScenario)
	second := p.Parse(buyoutScenario)
	assert.Equal(t, first, second)
}

func TestParseEmptyInput(t *testing.T) {
	txn := New().Parse("")

	assert.Empty(t, txn.FinancialValues)
	assert.Empty(t, txn.JournalEntries)
	assert.Empty(t, txn.IslamicTerms)
	assert.Empty(t, txn.TransactionTypes)
	assert.Empty(t, txn.Normalized.FinancialValues)
}

func TestIdentifyTransactionTypes(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantLabel string
		wantScore float64
	}{
		{
			name:      "construction seed",
			text:      "A construction contract is signed with a developer.",
			wantLabel: "construction",
			wantScore: 0.8,
		},
		{
			name:      "istisna implies construction",
			text:      "The istisna agreement covers the new facility.",
			wantLabel: "construction",
			wantScore: 0.8,
		},
		{
			name:      "cancellation seeds reversal",
			text:      "The client cancels the change order.",
			wantLabel: "reversal",
			wantScore: 0.7,
		},
		{
			name:      "contract with value",
			text:      "Revised contract value is agreed at $800,000.",
			wantLabel: "contract",
			wantScore: 0.7,
		},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types := p.identifyTransactionTypes(tt.text)
			require.Contains(t, types, tt.wantLabel)
			assert.InDelta(t, tt.wantScore, types[tt.wantLabel], 1e-9)
		})
	}
}

func TestTypeScoreFrequencyBonusIsCapped(t *testing.T) {
	// "lease" appears five times; the frequency bonus must stop at 0.3.
	text := "A lease was signed. The lease, a long lease, renews the old lease as a lease."
	types := New().identifyTransactionTypes(text)

	require.Contains(t, types, "lease")
	assert.InDelta(t, 0.8, types["lease"], 1e-9) // 0.3 base + 0.2 first sentence + 0.3 cap
}

func TestExtractIslamicTerms(t *testing.T) {
	p := New()

	terms := p.extractIslamicTerms("An ijarah muntahia bittamleek arrangement.")
	assert.Equal(t, []string{"ijarah"}, terms)

	// A bank purchasing equity implies murabaha even without the word.
	terms = p.extractIslamicTerms("The bank will purchase an equity position in the venture.")
	assert.Contains(t, terms, "murabaha")

	// No double append when murabaha is already explicit.
	terms = p.extractIslamicTerms("The bank will purchase equity under a murabaha facility.")
	count := 0
	for _, term := range terms {
		if term == "murabaha" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractContext(t *testing.T) {
	text := `Al Baraka Bank finances the deal for the purpose of expanding operations.
The facility runs over a period of 5 years.`

	ctx := New().extractContext(text)

	assert.Contains(t, ctx.Parties, "Al Baraka Bank")
	assert.Equal(t, "banking", string(ctx.Industry))
	assert.Equal(t, "expanding operations", ctx.Purpose)
	assert.Equal(t, "5 years", ctx.Timeframe)
}

func TestExtractAccounts(t *testing.T) {
	txn := New().Parse("Transfer from account #12345 moved cash into inventory.")

	found := func(substr string) bool {
		for _, account := range txn.Accounts {
			if account == substr {
				return true
			}
		}
		return false
	}
	assert.True(t, found("account #12345"), "accounts: %v", txn.Accounts)
	assert.Contains(t, txn.Accounts, "cash")
	assert.Contains(t, txn.Accounts, "inventory")
}
