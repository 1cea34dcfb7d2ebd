package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/photon-wallet/photon/balance"
	"github.com/photon-wallet/photon/common"
	"github.com/photon-wallet/photon/config"
	"github.com/photon-wallet/photon/engine"
	"github.com/photon-wallet/photon/horizon"
	"github.com/photon-wallet/photon/networks"
	"github.com/photon-wallet/photon/resolver"
	"github.com/photon-wallet/photon/ui"
)

func runBalance(cmd *cobra.Command, args []string) {
	u := ui.NewTerminalUI()
	net := networks.CurrentNetwork()
	logger := commandLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accountID := args[0]
	if !resolver.IsAccountID(accountID) {
		u.Error("%q is not a Stellar account ID", accountID)
		return
	}

	stop := u.Spinner("Fetching account...")
	account, err := horizon.NewClient(net, logger).FetchAccount(ctx, accountID)
	stop()
	if err != nil {
		u.Error("Couldn't fetch the account: %s", err)
		return
	}

	eng := engine.New(net, common.CurrencyCode(config.Currency), logger)
	// valuation is best effort here: without it the fiat column is omitted
	priced := eng.Valuation().Refresh(ctx) == nil

	headers := []string{"Asset", "Balance", "Spendable"}
	if priced {
		headers = append(headers, "~"+config.Currency)
	}
	rows := [][]string{}
	for _, line := range account.Balances {
		row := []string{
			line.Asset.String(),
			common.FormatAmount(line.Amount),
			common.FormatAmount(eng.SpendableBalance(account, line.Asset)),
		}
		if priced {
			fiat := "?"
			if est, err := eng.FiatEstimate(ctx, line.Asset); err == nil && est.Known() {
				fiat = formatFiat(common.CurrencyCode(config.Currency), est.Convert(line.Amount))
			}
			row = append(row, fiat)
		}
		rows = append(rows, row)
	}
	u.Table(headers, rows)

	reserve := balance.MinimumBalance(account.SubentryCount, mustReserve(net))
	u.Info("Minimum balance (reserve): %s XLM for %d subentries", common.FormatAmount(reserve), account.SubentryCount)
	if account.IsMultisig() {
		u.Warn("This account has %d signers: payment fees are doubled.", len(account.Signers))
	}
}

func init() {
	var balanceCmd = &cobra.Command{
		Use:   "balance <account id>",
		Short: "Show balances, spendable amounts and fiat values of an account",
		Long: `Show every balance line of an account together with the spendable amount,
which is the balance net of the ledger's reserve requirement, and its
approximate fiat value at the current reference price.`,
		Args: cobra.ExactArgs(1),
		Run:  runBalance,
	}

	rootCmd.AddCommand(balanceCmd)
}
