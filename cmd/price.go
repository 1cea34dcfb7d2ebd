package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/photon-wallet/photon/common"
	"github.com/photon-wallet/photon/config"
	"github.com/photon-wallet/photon/market"
	"github.com/photon-wallet/photon/networks"
	"github.com/photon-wallet/photon/ui"
)

func runPrice(cmd *cobra.Command, args []string) {
	u := ui.NewTerminalUI()
	net := networks.CurrentNetwork()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stop := u.Spinner("Fetching reference price...")
	quote, err := market.NewFeed(net).FetchQuote(ctx, common.CurrencyCode(config.Currency))
	stop()
	if err != nil {
		u.Error("Couldn't fetch the reference price: %s", err)
		return
	}

	u.Info("1 %s = %s (as of %s)",
		net.GetNativeAssetSymbol(),
		formatFiat(common.CurrencyCode(config.Currency), quote.Price),
		quote.ObservedAt.Format(time.RFC3339),
	)
}

func init() {
	var priceCmd = &cobra.Command{
		Use:   "price",
		Short: "Show the current reference price of the native asset",
		Run:   runPrice,
	}

	rootCmd.AddCommand(priceCmd)
}
