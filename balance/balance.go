// Package balance computes how much of an asset an account can actually
// spend, net of the network reserve requirement.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/photon-wallet/photon/common"
)

// Line is an account's held amount of one asset. For the native asset the
// line is synthesized from the account's XLM balance; for issued assets it
// mirrors the trustline.
type Line struct {
	Asset  common.Asset
	Amount decimal.Decimal
}

// Signer is one entry of an account's signer list. More than one signer
// makes the account a multisig account for fee purposes.
type Signer struct {
	Key    string
	Weight int
}

// AccountSnapshot is the account state the network-client collaborator
// supplies. The engine never fetches it itself.
type AccountSnapshot struct {
	AccountID     string
	Sequence      int64
	SubentryCount int
	Signers       []Signer
	Balances      []Line
}

// IsMultisig reports whether the account has more than one signer
// configured.
func (a *AccountSnapshot) IsMultisig() bool {
	return len(a.Signers) > 1
}

// FindLine returns the balance line matching asset, or nil when the account
// holds no such line.
func (a *AccountSnapshot) FindLine(asset common.Asset) *Line {
	for i := range a.Balances {
		if a.Balances[i].Asset.Equals(asset) {
			return &a.Balances[i]
		}
	}
	return nil
}

// MinimumBalance returns the XLM reserve the account must retain:
// (2 + subentry count) base reserves. Trustlines, offers and data entries
// each count as one subentry.
func MinimumBalance(subentryCount int, baseReserve decimal.Decimal) decimal.Decimal {
	return baseReserve.Mul(decimal.NewFromInt(int64(2 + subentryCount)))
}

// Spendable returns how much of line's asset can be spent. The reserve
// requirement applies to the native asset only; trustline balances are
// never reserve-constrained here. A nil line means the asset is not held at
// all. The result is clamped at zero.
func Spendable(reserve decimal.Decimal, line *Line) decimal.Decimal {
	if line == nil {
		return decimal.Zero
	}
	spendable := line.Amount
	if line.Asset.IsNative() {
		spendable = spendable.Sub(reserve)
	}
	if spendable.IsNegative() {
		return decimal.Zero
	}
	return spendable
}
