package retrieval

// Static lookup tables. Configuration, not runtime state.

// Taxonomy maps contract terms and scenario clusters to the standards that
// govern them. Exposed for report building.
var Taxonomy = map[string][]string{
	"murabaha":              {"FAS 4", "FAS 28"},
	"salam":                 {"FAS 7"},
	"istisna":               {"FAS 10"},
	"ijarah":                {"FAS 32"},
	"general":               {"FAS 4", "FAS 7", "FAS 10", "FAS 28", "FAS 32"},
	"construction":          {"FAS 10"},
	"reversal":              {"FAS 10"},
	"contract_modification": {"FAS 10"},
	"equity_acquisition":    {"FAS 4", "FAS 20", "FAS 32"},
	"banking_buyout":        {"FAS 4", "FAS 20", "FAS 32"},
}

// transactionTypeMapping maps transaction-type labels to candidate
// standards. Construction-flavored buyouts route to FAS 10; financial and
// equity buyouts route to FAS 4/20/32.
var transactionTypeMapping = map[string][]string{
	"construction_buyout": {"FAS 10"},
	"construction":        {"FAS 10"},
	"reversal":            {"FAS 10"},
	"manufacturing":       {"FAS 10"},
	"contract":            {"FAS 10"},

	"equity_buyout":    {"FAS 4", "FAS 20", "FAS 32"},
	"financial_buyout": {"FAS 4", "FAS 20", "FAS 32"},
	"banking_buyout":   {"FAS 4", "FAS 20"},
	"buyout":           {"FAS 4", "FAS 20", "FAS 32"}, // generic buyout defaults to financial standards

	"lease":            {"FAS 32"},
	"sale":             {"FAS 4", "FAS 28"},
	"deferred_payment": {"FAS 4", "FAS 28"},
	"advance_payment":  {"FAS 7"},
}
