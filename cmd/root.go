package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/photon-wallet/photon/config"
	"github.com/photon-wallet/photon/networks"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "photon",
	Short: "Assemble Stellar payments from the command line",
	Long: fmt.Sprintf(`Photon is a command line tool to prepare Stellar payments: it resolves
destinations, checks them against the account directory, values amounts in
your fiat currency and assembles unsigned transaction envelopes ready for
your signer.

Photon supports you on different ends:

	1. It resolves federation addresses (name*domain) so you can pay
	human-readable addresses instead of raw account IDs.

	2. It keeps a local contact book so you will not forget a
	destination, and fuzzy-looks contacts up by name.

	3. It warns you when a destination requires a memo (exchanges
	mostly) before the payment would get lost on arrival.

By default, photon talks to the public Horizon servers. You can point it at
your own nodes by setting the following env vars:
	1. For mainnet: %s
	2. For testnet: %s

Photon never holds your keys: every command stops at an unsigned envelope
in base64 XDR for you to sign and submit with the tool of your choice.`,
		networks.StellarMainnet.GetHorizonVariableName(),
		networks.StellarTestnet.GetHorizonVariableName(),
	),
}

// commandLogger returns the logger commands hand down to the engine.
// Without --verbose all engine logging is discarded so command output stays
// clean for piping.
func commandLogger() *zap.Logger {
	if !config.Verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&networks.NetworkString, "network", "k", "mainnet", fmt.Sprintf("stellar network. Valid values: %v.", networks.GetSupportedNetworkNames()))
	rootCmd.PersistentFlags().StringVarP(&config.Currency, "currency", "c", "USD", "Fiat currency used for valuations, as an ISO 4217 code.")
	rootCmd.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "V", false, "Enable debug logging.")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
