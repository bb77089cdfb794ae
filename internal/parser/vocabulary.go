package parser

// Fixed vocabularies and keyword tables used by feature extraction. These are
// static configuration, loaded once; nothing mutates them at runtime.

// accountingTerms is the accounting vocabulary matched by substring.
var accountingTerms = []string{
	"debit", "credit", "journal", "entry", "recognition", "derecognition",
	"equity", "asset", "liability", "revenue", "expense", "capital",
	"profit", "loss", "dividend", "interest", "principal", "amortization",
	"contract", "reversal", "adjustment", "revised", "modification", "work-in-progress",
	"buyout", "acquisition", "ownership", "stake", "banking",
}

// islamicTerms is the Islamic-finance contract vocabulary.
var islamicTerms = []string{
	"murabaha", "ijarah", "istisna", "salam", "musharakah", "mudarabah",
	"sukuk", "takaful", "wadiah", "qard", "wakalah", "hibah", "bai", "ujrah",
}

// transactionTypeKeywords maps each transaction-type label to the keywords
// that signal it.
var transactionTypeKeywords = map[string][]string{
	"buyout":           {"buyout", "acquisition", "purchase", "takeover", "buy out", "exits", "stake"},
	"equity_buyout":    {"equity buyout", "stake purchase", "ownership transfer", "exits", "ownership"},
	"financial_buyout": {"financial buyout", "bank buyout", "institutional buyout", "bank purchase"},
	"banking_buyout":   {"bank", "banking", "finance house", "financial institution", "buyout", "purchase"},
	"reversal":         {"reversal", "reverse", "cancel", "void", "nullify", "adjustment", "restore", "revert"},
	"recognition":      {"recognition", "recognize", "record", "book", "account for"},
	"lease":            {"lease", "rental", "ijarah", "hire", "usufruct"},
	"sale":             {"sale", "sell", "dispose", "transfer ownership", "convey"},
	"construction":     {"construction", "build", "develop", "project", "istisna", "work-in-progress"},
	"investment":       {"investment", "invest", "fund", "finance", "capital"},
	"partnership":      {"partnership", "musharakah", "joint venture", "collaboration"},
	"contract":         {"contract", "agreement", "arrangement", "commitment", "obligation"},
}

// commonAccountNouns are account names recognized without an explicit
// "account #N" reference.
var commonAccountNouns = []string{
	"cash", "inventory", "receivable", "payable",
	"revenue", "expense", "asset", "liability", "equity",
}

// industryKeywords maps sector keywords to industries; first match wins in
// the order given here.
var industryKeywords = []struct {
	industry string
	keywords []string
}{
	{"banking", []string{"bank", "financial institution", "finance house"}},
	{"real_estate", []string{"real estate", "property", "construction", "development"}},
	{"manufacturing", []string{"manufacturing", "production", "factory"}},
	{"retail", []string{"retail", "store", "shop", "merchandise"}},
	{"agriculture", []string{"agriculture", "farming", "crop", "harvest"}},
	{"energy", []string{"energy", "oil", "gas", "power", "electricity"}},
}
