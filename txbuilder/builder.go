// Package txbuilder assembles unsigned payment transactions. It performs no
// network I/O: the account snapshot (sequence number, signers, balances)
// comes from the network-client collaborator, and signing and submission
// stay outside this repository.
package txbuilder

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/txnbuild"

	"github.com/photon-wallet/photon/balance"
	"github.com/photon-wallet/photon/common"
)

// MultisigFeeFactor is the per-operation fee multiplier applied when the
// source account has more than one signer. Extra signatures enlarge the
// envelope and surge pricing punishes underbid multisig transactions first.
const MultisigFeeFactor = 2

// MaxMemoTextBytes is the ledger's limit for text memos.
const MaxMemoTextBytes = 28

// DefaultTimeoutSeconds bounds how long the assembled transaction stays
// valid when the caller does not specify its own bound.
const DefaultTimeoutSeconds = 300

// MemoSpec is the final memo decision: "none", or "id" with a strictly
// numeric value, or "text" with up to 28 bytes.
type MemoSpec struct {
	Type  string
	Value string
}

func MemoNone() MemoSpec {
	return MemoSpec{Type: "none"}
}

func MemoID(value string) MemoSpec {
	return MemoSpec{Type: "id", Value: value}
}

func MemoText(value string) MemoSpec {
	return MemoSpec{Type: "text", Value: value}
}

// Params is everything the assembler needs for one payment.
type Params struct {
	Source      *balance.AccountSnapshot
	Destination string // resolved account ID, never a federation address
	Asset       common.Asset
	Amount      decimal.Decimal // in the transfer asset, post conversion
	Memo        MemoSpec
	Spendable   decimal.Decimal // spendable balance of Asset on Source
	BaseFee     int64           // network minimum fee per operation in stroops

	// TimeoutSeconds is the ledger-validity bound; 0 means
	// DefaultTimeoutSeconds.
	TimeoutSeconds int64
}

// Build validates params and assembles the unsigned transaction envelope.
// It either returns a complete transaction or an error; a partially built
// transaction is never observable.
func Build(p Params) (*txnbuild.Transaction, error) {
	if p.Source == nil {
		return nil, fmt.Errorf("source account snapshot is required")
	}
	if !p.Amount.IsPositive() {
		return nil, &common.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if p.Amount.GreaterThan(p.Spendable) {
		return nil, &common.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("%s exceeds spendable balance of %s %s", common.FormatAmount(p.Amount), common.FormatAmount(p.Spendable), p.Asset.Symbol()),
		}
	}

	memo, err := buildMemo(p.Memo)
	if err != nil {
		return nil, err
	}

	fee := p.BaseFee
	if p.Source.IsMultisig() {
		fee *= MultisigFeeFactor
	}

	timeout := p.TimeoutSeconds
	if timeout == 0 {
		timeout = DefaultTimeoutSeconds
	}

	payment := &txnbuild.Payment{
		Destination: p.Destination,
		Amount:      common.FormatAmount(p.Amount),
		Asset:       toTxnbuildAsset(p.Asset),
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &txnbuild.SimpleAccount{
			AccountID: p.Source.AccountID,
			Sequence:  p.Source.Sequence,
		},
		IncrementSequenceNum: true,
		Operations:           []txnbuild.Operation{payment},
		BaseFee:              fee,
		Memo:                 memo,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("assembling transaction failed: %w", err)
	}
	return tx, nil
}

func buildMemo(spec MemoSpec) (txnbuild.Memo, error) {
	switch spec.Type {
	case "", "none":
		if spec.Value != "" {
			return nil, &common.ValidationError{Field: "memo", Reason: "memo value given but memo type is none"}
		}
		return nil, nil
	case "id":
		id, err := strconv.ParseUint(spec.Value, 10, 64)
		if err != nil {
			return nil, &common.ValidationError{Field: "memo", Reason: fmt.Sprintf("id memo %q must be a positive integer", spec.Value)}
		}
		return txnbuild.MemoID(id), nil
	case "text":
		if len(spec.Value) > MaxMemoTextBytes {
			return nil, &common.ValidationError{Field: "memo", Reason: fmt.Sprintf("text memo exceeds %d bytes", MaxMemoTextBytes)}
		}
		return txnbuild.MemoText(spec.Value), nil
	default:
		return nil, &common.ValidationError{Field: "memo", Reason: fmt.Sprintf("unsupported memo type %q", spec.Type)}
	}
}

func toTxnbuildAsset(a common.Asset) txnbuild.Asset {
	if a.IsNative() {
		return txnbuild.NativeAsset{}
	}
	return txnbuild.CreditAsset{Code: a.Code, Issuer: a.Issuer}
}
