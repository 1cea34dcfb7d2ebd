package cmd

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/photon-wallet/photon/common"
	"github.com/photon-wallet/photon/networks"
)

// mustReserve parses the network's base reserve. The values are compile-time
// constants of the network definitions, so failing to parse is a programming
// error.
func mustReserve(net networks.Network) decimal.Decimal {
	return decimal.RequireFromString(net.GetBaseReserve())
}

// formatFiat renders value with the currency's symbol and locale-aware
// digit grouping, e.g. "$ 1,234.56". Precision loss from the float
// conversion does not matter for display. Unknown currency codes fall back
// to "<value> <code>".
func formatFiat(code common.CurrencyCode, value decimal.Decimal) string {
	unit, err := currency.ParseISO(string(code))
	if err != nil {
		return value.StringFixed(2) + " " + string(code)
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(value.InexactFloat64())))
}

// formatAsset renders an asset amount with its symbol, e.g. "12.5 XLM".
func formatAsset(asset common.Asset, value decimal.Decimal) string {
	return common.FormatAmount(value) + " " + asset.Symbol()
}
