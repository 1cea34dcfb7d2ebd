package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/strkey"
)

// StellarDecimals is the number of decimal places every on-ledger amount
// supports. Amounts are truncated to this precision before they are put
// into an operation.
const StellarDecimals = 7

// Asset identifies either the native asset (XLM) or an issued asset
// (code + issuer account). The zero value is the native asset.
type Asset struct {
	Code   string
	Issuer string
}

func NativeAsset() Asset {
	return Asset{}
}

func CreditAsset(code, issuer string) Asset {
	return Asset{Code: code, Issuer: issuer}
}

func (a Asset) IsNative() bool {
	return a.Issuer == ""
}

func (a Asset) Symbol() string {
	if a.IsNative() {
		return "XLM"
	}
	return a.Code
}

func (a Asset) String() string {
	if a.IsNative() {
		return "XLM"
	}
	return fmt.Sprintf("%s:%s", a.Code, a.Issuer)
}

func (a Asset) Equals(b Asset) bool {
	if a.IsNative() && b.IsNative() {
		return true
	}
	return a.Code == b.Code && a.Issuer == b.Issuer
}

// ParseAsset interprets "XLM", "native" or "CODE:ISSUER" forms.
func ParseAsset(s string) (Asset, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "XLM") || strings.EqualFold(s, "native") {
		return NativeAsset(), nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return Asset{}, fmt.Errorf("asset %q must be XLM or CODE:ISSUER", s)
	}
	code, issuer := parts[0], parts[1]
	if len(code) == 0 || len(code) > 12 {
		return Asset{}, fmt.Errorf("asset code %q must be 1-12 characters", code)
	}
	if !strkey.IsValidEd25519PublicKey(issuer) {
		return Asset{}, fmt.Errorf("asset issuer %q is not a valid account ID", issuer)
	}
	return CreditAsset(code, issuer), nil
}

// CurrencyCode is a fiat currency selector like "USD" or "EUR". It is
// display-only: amounts typed in a currency are converted to the transfer
// asset before any operation is built.
type CurrencyCode string

// FormatAmount renders d with at most StellarDecimals decimal places,
// truncating (never rounding up) so a formatted amount can not exceed the
// balance it was derived from.
func FormatAmount(d decimal.Decimal) string {
	return d.Truncate(StellarDecimals).String()
}
