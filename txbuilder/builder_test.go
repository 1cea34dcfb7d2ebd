package txbuilder

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/txnbuild"

	"github.com/photon-wallet/photon/balance"
	"github.com/photon-wallet/photon/common"
)

const (
	sourceAccountID = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"
	destAccountID   = "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %s", s, err)
	}
	return d
}

func sourceAccount(signers int) *balance.AccountSnapshot {
	acc := &balance.AccountSnapshot{
		AccountID: sourceAccountID,
		Sequence:  86421,
	}
	for i := 0; i < signers; i++ {
		acc.Signers = append(acc.Signers, balance.Signer{Key: sourceAccountID, Weight: 1})
	}
	return acc
}

func validParams() Params {
	return Params{
		Source:      sourceAccount(1),
		Destination: destAccountID,
		Asset:       common.NativeAsset(),
		Amount:      decimal.NewFromInt(10),
		Memo:        MemoNone(),
		Spendable:   decimal.NewFromInt(50),
		BaseFee:     100,
	}
}

func TestBuildBasicPayment(t *testing.T) {
	tx, err := Build(validParams())
	if err != nil {
		t.Fatalf("build failed: %s", err)
	}

	ops := tx.Operations()
	if len(ops) != 1 {
		t.Fatalf("operation count = %d, want 1", len(ops))
	}
	payment, ok := ops[0].(*txnbuild.Payment)
	if !ok {
		t.Fatalf("operation is %T, want *txnbuild.Payment", ops[0])
	}
	if payment.Destination != destAccountID {
		t.Errorf("destination = %q, want %q", payment.Destination, destAccountID)
	}
	if payment.Amount != "10" {
		t.Errorf("amount = %q, want %q", payment.Amount, "10")
	}
	if tx.BaseFee() != 100 {
		t.Errorf("base fee = %d, want 100", tx.BaseFee())
	}
	if tx.SequenceNumber() != 86422 {
		t.Errorf("sequence = %d, want incremented 86422", tx.SequenceNumber())
	}

	// the envelope must serialize, that is what gets handed to the signer
	if _, err := tx.Base64(); err != nil {
		t.Errorf("envelope serialization failed: %s", err)
	}
}

func TestBuildMultisigFeeSurcharge(t *testing.T) {
	p := validParams()
	p.Source = sourceAccount(2)

	tx, err := Build(p)
	if err != nil {
		t.Fatalf("build failed: %s", err)
	}
	// base fee 100, 1 operation, 2 signers -> 200
	if tx.BaseFee() != 200 {
		t.Errorf("multisig base fee = %d, want 200", tx.BaseFee())
	}
}

func TestBuildFederationMandatedMemo(t *testing.T) {
	p := validParams()
	p.Memo = MemoID("42")

	tx, err := Build(p)
	if err != nil {
		t.Fatalf("build failed: %s", err)
	}
	memo, ok := tx.Memo().(txnbuild.MemoID)
	if !ok {
		t.Fatalf("memo is %T, want txnbuild.MemoID", tx.Memo())
	}
	if uint64(memo) != 42 {
		t.Errorf("memo id = %d, want 42", uint64(memo))
	}
}

func TestBuildTextMemo(t *testing.T) {
	p := validParams()
	p.Memo = MemoText("thanks for lunch")

	tx, err := Build(p)
	if err != nil {
		t.Fatalf("build failed: %s", err)
	}
	memo, ok := tx.Memo().(txnbuild.MemoText)
	if !ok {
		t.Fatalf("memo is %T, want txnbuild.MemoText", tx.Memo())
	}
	if string(memo) != "thanks for lunch" {
		t.Errorf("memo text = %q", string(memo))
	}
}

func TestBuildAmountTruncatedToAssetPrecision(t *testing.T) {
	p := validParams()
	p.Amount = dec(t, "1.23456789999")

	tx, err := Build(p)
	if err != nil {
		t.Fatalf("build failed: %s", err)
	}
	payment := tx.Operations()[0].(*txnbuild.Payment)
	if payment.Amount != "1.2345678" {
		t.Errorf("amount = %q, want truncated %q", payment.Amount, "1.2345678")
	}
}

func TestBuildIssuedAssetPayment(t *testing.T) {
	p := validParams()
	p.Asset = common.CreditAsset("USD", destAccountID)
	p.Spendable = dec(t, "25")

	tx, err := Build(p)
	if err != nil {
		t.Fatalf("build failed: %s", err)
	}
	payment := tx.Operations()[0].(*txnbuild.Payment)
	asset, ok := payment.Asset.(txnbuild.CreditAsset)
	if !ok {
		t.Fatalf("asset is %T, want txnbuild.CreditAsset", payment.Asset)
	}
	if asset.Code != "USD" || asset.Issuer != destAccountID {
		t.Errorf("asset = %+v", asset)
	}
}

func TestBuildRejectsOverspend(t *testing.T) {
	cases := []struct {
		name   string
		amount string
	}{
		{"tiny delta", "50.0000001"},
		{"double", "100"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := validParams()
			p.Amount = dec(t, c.amount)

			tx, err := Build(p)
			var vErr *common.ValidationError
			if !errors.As(err, &vErr) || vErr.Field != "amount" {
				t.Fatalf("error = %v, want amount ValidationError", err)
			}
			if tx != nil {
				t.Errorf("no transaction may be produced on validation failure")
			}
		})
	}
}

func TestBuildRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-1"} {
		p := validParams()
		p.Amount = dec(t, amount)

		_, err := Build(p)
		var vErr *common.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("Build(amount=%s) error = %v, want ValidationError", amount, err)
		}
	}
}

func TestBuildRejectsMalformedMemos(t *testing.T) {
	cases := []struct {
		name string
		memo MemoSpec
	}{
		{"id not numeric", MemoID("4x2")},
		{"id negative", MemoID("-1")},
		{"id empty", MemoID("")},
		{"text too long", MemoText("this memo text is way longer than twenty-eight bytes")},
		{"none with value", MemoSpec{Type: "none", Value: "stray"}},
		{"unknown type", MemoSpec{Type: "hash", Value: "ff"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := validParams()
			p.Memo = c.memo

			tx, err := Build(p)
			var vErr *common.ValidationError
			if !errors.As(err, &vErr) || vErr.Field != "memo" {
				t.Fatalf("error = %v, want memo ValidationError", err)
			}
			if tx != nil {
				t.Errorf("no transaction may be produced on validation failure")
			}
		})
	}
}

func TestBuildTextMemoAtLimit(t *testing.T) {
	p := validParams()
	p.Memo = MemoText("0123456789012345678901234567") // exactly 28 bytes

	if _, err := Build(p); err != nil {
		t.Errorf("28-byte text memo must be accepted, got %s", err)
	}
}
