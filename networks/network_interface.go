package networks

import (
	"time"
)

// Network describes everything the engine needs to know about one Stellar
// network: where Horizon is, which ecosystem services serve it, and its fee
// and reserve parameters.
type Network interface {
	GetName() string
	GetPassphrase() string
	GetNativeAssetSymbol() string

	GetHorizonVariableName() string
	GetHorizonURL() string

	// GetDirectoryURL returns the well-known account directory endpoint,
	// or "" when the network has no directory service.
	GetDirectoryURL() string

	// GetPriceFeedURL returns the reference price endpoint for the native
	// asset (quotes/latest style). Mainnet and testnet use distinct
	// endpoints.
	GetPriceFeedURL() string

	// GetBaseFee returns the network minimum fee per operation in stroops.
	GetBaseFee() int64

	// GetBaseReserve returns the per-entry reserve in XLM as a decimal
	// string.
	GetBaseReserve() string

	GetPriceRefreshInterval() time.Duration
}
