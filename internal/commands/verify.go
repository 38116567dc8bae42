package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newVerifyCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that every account balance matches its transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				bad, err := a.ledger.CheckBalances(ctx, a.user.ID)
				if err != nil {
					return err
				}
				if len(bad) == 0 {
					fmt.Fprintln(a.out, "All balances consistent")
					return nil
				}
				for _, m := range bad {
					fmt.Fprintf(a.out, "%s (%s): cached %s, transactions sum to %s\n",
						m.Name, m.AccountID, m.Cached.StringFixed(2), m.Computed.StringFixed(2))
				}
				return fmt.Errorf("%d account balance(s) out of sync", len(bad))
			})
		},
	}
}
