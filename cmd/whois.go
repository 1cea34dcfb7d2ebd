package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/photon-wallet/photon/common"
	"github.com/photon-wallet/photon/config"
	"github.com/photon-wallet/photon/directory"
	"github.com/photon-wallet/photon/engine"
	"github.com/photon-wallet/photon/memo"
	"github.com/photon-wallet/photon/networks"
	"github.com/photon-wallet/photon/ui"
)

func runWhois(cmd *cobra.Command, args []string) {
	u := ui.NewTerminalUI()
	net := networks.CurrentNetwork()
	logger := commandLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eng := engine.New(net, common.CurrencyCode(config.Currency), logger)

	stop := u.Spinner("Resolving destination...")
	review, err := eng.ReviewDestination(ctx, args[0])
	stop()
	if err != nil {
		u.Error("Couldn't resolve %q: %s", args[0], err)
		return
	}

	rows := [][2]string{
		{"Input", review.Input},
		{"Account", review.Resolution.AccountID},
	}
	if review.Record != nil {
		rows = append(rows,
			[2]string{"Listed as", review.Record.DisplayName},
			[2]string{"Tags", strings.Join(review.Record.Tags, ", ")},
		)
	} else if net.GetDirectoryURL() != "" {
		rows = append(rows, [2]string{"Listed as", "not in the directory"})
	}
	u.KeyValue(rows)

	switch review.Memo.Requirement {
	case memo.ForcedByFederation:
		u.Warn("Payments to this address must carry memo %s %q.", review.Memo.Type, review.Memo.Value)
	case memo.RequiredByDirectory:
		u.Warn("This account is tagged %q: payments without a memo may be lost.", directory.MemoRequiredTag)
	default:
		u.Success("No memo requirement known for this destination.")
	}
}

func init() {
	var whoisCmd = &cobra.Command{
		Use:   "whois <account id | federation address>",
		Short: "Resolve a destination and show what is known about it",
		Long: `Resolve a destination and show its directory listing and memo
requirements, exactly as the send command would evaluate them.`,
		Args: cobra.ExactArgs(1),
		Run:  runWhois,
	}

	rootCmd.AddCommand(whoisCmd)
}
