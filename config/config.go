package config

var (
	Currency string // fiat currency for valuations
	From     string // source account ID
	To       string // destination input: account ID, name*domain or contact
	Amount   string // decimal amount, in the asset or in fiat with --in-currency
	InFiat   bool   // interpret Amount as a fiat value
	Asset    string // asset to send: "XLM" or CODE:ISSUER
	MemoType string
	Memo     string
	Timeout  int64 // transaction validity bound in seconds

	Verbose bool // enable debug logging
)
