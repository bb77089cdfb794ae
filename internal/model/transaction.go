// Package model defines the core domain types shared across the pipeline.
package model

// Industry classifies the business sector a transaction belongs to.
type Industry string

const (
	// IndustryBanking covers banks and other financial institutions.
	IndustryBanking Industry = "banking"
	// IndustryRealEstate covers property and construction development.
	IndustryRealEstate Industry = "real_estate"
	// IndustryManufacturing covers production and factory operations.
	IndustryManufacturing Industry = "manufacturing"
	// IndustryRetail covers stores and merchandise trade.
	IndustryRetail Industry = "retail"
	// IndustryAgriculture covers farming and crop production.
	IndustryAgriculture Industry = "agriculture"
	// IndustryEnergy covers oil, gas and power.
	IndustryEnergy Industry = "energy"
	// IndustryUnknown means no industry keyword matched.
	IndustryUnknown Industry = ""
)

// JournalEntry is a single debit/credit pair extracted from transaction text.
// Amounts are kept as raw strings; they may be empty when the entry text
// carries no figure.
type JournalEntry struct {
	DebitAccount  string `json:"debit_account"`
	CreditAccount string `json:"credit_account"`
	DebitAmount   string `json:"debit_amount,omitempty"`
	CreditAmount  string `json:"credit_amount,omitempty"`
}

// Amount is a financial value extracted from text. Value is only meaningful
// when Parsed is true; otherwise Raw preserves the original token unchanged.
type Amount struct {
	Raw    string  `json:"raw"`
	Value  float64 `json:"value"`
	Parsed bool    `json:"parsed"`
}

// Context holds the situational attributes of a transaction.
type Context struct {
	Industry  Industry `json:"industry,omitempty"`
	Parties   []string `json:"parties,omitempty"`
	Purpose   string   `json:"purpose,omitempty"`
	Timeframe string   `json:"timeframe,omitempty"`
}

// Normalized carries the cleaned-up views of extracted fields.
type Normalized struct {
	FinancialValues  []Amount           `json:"financial_values"`
	Accounts         []string           `json:"accounts"`
	TransactionTypes map[string]float64 `json:"transaction_types"` // top-2 by confidence
}

// Transaction is the structured feature bag produced by parsing a raw
// transaction description. It is read-only after parse; pipeline stages that
// need to derive further features work on copies.
type Transaction struct {
	RawText          string             `json:"raw_text"`
	FinancialValues  []string           `json:"financial_values"`
	Dates            []string           `json:"dates"`
	Accounts         []string           `json:"accounts"`
	AccountingTerms  []string           `json:"accounting_terms"`
	IslamicTerms     []string           `json:"islamic_terms"`
	TransactionTypes map[string]float64 `json:"transaction_types"`
	JournalEntries   []JournalEntry     `json:"journal_entries"`
	Context          Context            `json:"context"`
	Normalized       Normalized         `json:"normalized"`
}

// HasIslamicTerm reports whether the given contract term was extracted.
func (t *Transaction) HasIslamicTerm(term string) bool {
	for _, got := range t.IslamicTerms {
		if got == term {
			return true
		}
	}
	return false
}

// TypesCopy returns a shallow copy of the transaction-type confidence map so
// callers can augment it without mutating parser output.
func (t *Transaction) TypesCopy() map[string]float64 {
	out := make(map[string]float64, len(t.TransactionTypes))
	for k, v := range t.TransactionTypes {
		out[k] = v
	}
	return out
}
