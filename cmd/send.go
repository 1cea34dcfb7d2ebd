package cmd

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/photon-wallet/photon/addrbook"
	"github.com/photon-wallet/photon/common"
	"github.com/photon-wallet/photon/config"
	"github.com/photon-wallet/photon/engine"
	"github.com/photon-wallet/photon/horizon"
	"github.com/photon-wallet/photon/memo"
	"github.com/photon-wallet/photon/networks"
	"github.com/photon-wallet/photon/resolver"
	"github.com/photon-wallet/photon/ui"
)

const sendCommandTimeout = 60 * time.Second

func runSend(cmd *cobra.Command, args []string) {
	u := ui.NewTerminalUI()
	net := networks.CurrentNetwork()
	logger := commandLogger()

	ctx, cancel := context.WithTimeout(context.Background(), sendCommandTimeout)
	defer cancel()

	if !resolver.IsAccountID(config.From) {
		u.Error("--from must be a Stellar account ID, got %q", config.From)
		return
	}

	asset, err := common.ParseAsset(config.Asset)
	if err != nil {
		u.Error("Couldn't interpret --asset: %s", err)
		return
	}
	amount, err := decimal.NewFromString(config.Amount)
	if err != nil {
		u.Error("--amount %q is not a decimal number", config.Amount)
		return
	}

	destination := config.To
	if book, err := addrbook.NewBook(); err == nil {
		destination = book.ResolveInput(config.To)
	} else {
		u.Warn("Contact book unavailable: %s", err)
	}

	eng := engine.New(net, common.CurrencyCode(config.Currency), logger)

	stop := u.Spinner("Fetching reference price...")
	priceErr := eng.Valuation().Refresh(ctx)
	stop()
	if priceErr != nil {
		// fatal only when the amount itself needs converting; otherwise the
		// summary just omits the fiat value
		if config.InFiat {
			u.Error("Couldn't fetch the %s reference price: %s", config.Currency, priceErr)
			return
		}
		u.Warn("No %s reference price available: %s", config.Currency, priceErr)
	}

	stop = u.Spinner("Resolving destination...")
	review, err := eng.ReviewDestination(ctx, destination)
	stop()
	if err != nil {
		u.Error("Couldn't resolve destination %q: %s", destination, err)
		return
	}
	interpreted := review.Resolution.AccountID
	if review.Record != nil && review.Record.DisplayName != "" {
		interpreted += " (" + review.Record.DisplayName + ")"
	}
	u.Interpret(interpreted)

	switch review.Memo.Requirement {
	case memo.ForcedByFederation:
		u.Warn("The receiving service mandates memo %s %q; it replaces any --memo you passed.",
			review.Memo.Type, review.Memo.Value)
	case memo.RequiredByDirectory:
		u.Warn("This destination requires a memo. The payment may be lost without one.")
	}

	stop = u.Spinner("Fetching source account...")
	account, err := horizon.NewClient(net, logger).FetchAccount(ctx, config.From)
	stop()
	if err != nil {
		u.Error("Couldn't fetch the source account: %s", err)
		return
	}

	intent := &engine.PaymentIntent{
		DestinationInput: destination,
		Asset:            asset,
		Amount:           amount,
		MemoType:         config.MemoType,
		MemoValue:        config.Memo,
	}
	if config.InFiat {
		intent.AmountCurrency = common.CurrencyCode(config.Currency)
	}

	eventualAmount, err := eng.EventualAmount(ctx, intent)
	if err != nil {
		u.Error("Couldn't determine the transfer amount: %s", err)
		return
	}

	intent.Timeout = config.Timeout
	tx, err := eng.BuildPayment(ctx, account, intent)
	if err != nil {
		u.Error("Couldn't assemble the payment: %s", err)
		return
	}

	rows := [][2]string{
		{"Network", net.GetName()},
		{"Source", account.AccountID},
		{"Destination", u.Style(ui.StyledText{Text: interpreted, Severity: ui.SeverityCritical})},
		{"Amount", formatAsset(asset, eventualAmount)},
	}
	if est, err := eng.FiatEstimate(ctx, asset); err == nil && est.Known() {
		rows = append(rows, [2]string{"Value", "~" + formatFiat(common.CurrencyCode(config.Currency), est.Convert(eventualAmount))})
	}
	if m := tx.Memo(); m != nil {
		rows = append(rows, [2]string{"Memo", describeMemo(review.Memo, config.MemoType, config.Memo)})
	}
	rows = append(rows,
		[2]string{"Fee", common.FormatAmount(decimal.New(tx.BaseFee(), -common.StellarDecimals)) + " XLM"},
		[2]string{"Sequence", decimal.NewFromInt(tx.SequenceNumber()).String()},
	)

	u.Section("Review before signing")
	u.KeyValue(rows)

	xdr, err := tx.Base64()
	if err != nil {
		u.Error("Couldn't serialize the envelope: %s", err)
		return
	}
	u.Info("")
	u.Critical("Unsigned transaction envelope (base64 XDR):")
	u.Info("%s", xdr)
	u.Info("")
	u.Info("Sign with the passphrase of %s:", net.GetName())
	u.Info("%q", net.GetPassphrase())
}

func describeMemo(decision memo.Decision, memoType, memoValue string) string {
	if decision.Requirement == memo.ForcedByFederation {
		return string(decision.Type) + " " + decision.Value + " (mandated by the receiving service)"
	}
	if memoType == "" || memoType == "none" {
		memoType = "text"
	}
	return memoType + " " + memoValue
}

func init() {
	var sendCmd = &cobra.Command{
		Use:   "send",
		Short: "Assemble an unsigned payment from your account to others",
		Long: `Assemble an unsigned payment transaction. The destination can be a raw
account ID, a federation address like alice*example.org, or the name of a
saved contact. The result is an unsigned envelope in base64 XDR; photon
never touches your keys.`,
		TraverseChildren: true,
		Run:              runSend,
	}

	sendCmd.Flags().StringVarP(&config.From, "from", "f", "", "Source account ID. Its sequence number, signers and balances are fetched from Horizon.")
	sendCmd.Flags().StringVarP(&config.To, "to", "t", "", "Destination: account ID, federation address or contact name. See photon addr for saved contacts.")
	sendCmd.Flags().StringVarP(&config.Amount, "amount", "v", "", "Amount to send, as a decimal. Interpreted in the asset, or in --currency with --in-currency.")
	sendCmd.Flags().BoolVar(&config.InFiat, "in-currency", false, "Interpret --amount as a fiat value and convert it at the current rate.")
	sendCmd.Flags().StringVarP(&config.Asset, "asset", "a", "XLM", "Asset to send: XLM or CODE:ISSUER.")
	sendCmd.Flags().StringVar(&config.MemoType, "memo-type", "", "Memo type: none, text or id. An untyped non-empty memo defaults to text.")
	sendCmd.Flags().StringVarP(&config.Memo, "memo", "m", "", "Memo value.")
	sendCmd.Flags().Int64Var(&config.Timeout, "timeout", 0, "Envelope validity bound in seconds. 0 uses the default of 300.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(sendCmd)
}
