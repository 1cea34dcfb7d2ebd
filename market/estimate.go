package market

import (
	"github.com/shopspring/decimal"

	"github.com/photon-wallet/photon/common"
)

var one = decimal.NewFromInt(1)

// Estimate is a directional exchange rate. Price zero means "unknown";
// consumers must not treat it as an actual quote of zero.
type Estimate struct {
	Price decimal.Decimal
}

// Convert applies the rate to an amount.
func (e Estimate) Convert(amount decimal.Decimal) decimal.Decimal {
	return e.Price.Mul(amount)
}

// Known reports whether the estimate carries an actual rate.
func (e Estimate) Known() bool {
	return e.Price.IsPositive()
}

// FiatEstimate values one unit of asset in the valuation currency.
//
// For the native asset the reference price applies directly. For any other
// asset the best bid of the (asset, native) book gives the native-asset
// rate, which the reference price then converts to fiat. An empty book or a
// missing reference price yields zero.
func FiatEstimate(referencePrice decimal.Decimal, asset common.Asset, book *OrderBookSnapshot) Estimate {
	if asset.IsNative() {
		return Estimate{Price: referencePrice}
	}
	bestBid, ok := book.BestBid()
	if !ok {
		return Estimate{Price: decimal.Zero}
	}
	return Estimate{Price: bestBid.Mul(referencePrice)}
}

// AssetEstimate values one unit of the valuation currency in asset terms,
// the inverse direction of FiatEstimate, derived from the inverse reference
// price and the best bid of the (native, asset) book.
func AssetEstimate(referencePrice decimal.Decimal, asset common.Asset, book *OrderBookSnapshot) Estimate {
	if !referencePrice.IsPositive() {
		return Estimate{Price: decimal.Zero}
	}
	inverse := one.Div(referencePrice)
	if asset.IsNative() {
		return Estimate{Price: inverse}
	}
	bestBid, ok := book.BestBid()
	if !ok {
		return Estimate{Price: decimal.Zero}
	}
	return Estimate{Price: inverse.Mul(bestBid)}
}
