package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newBudgetCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage the monthly budget",
	}
	cmd.AddCommand(newBudgetSetCommand(opts), newBudgetStatusCommand(opts))
	return cmd
}

func newBudgetSetCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <amount>",
		Short: "Set the monthly spending limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoney("amount", args[0])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				b, err := a.budget.Set(ctx, a.user.ID, amount)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Monthly budget set to %s\n", b.Amount.StringFixed(2))
				a.checkBudget(ctx)
				return nil
			})
		},
	}
}

func newBudgetStatusCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show spending against the budget this month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				st, err := a.budget.Status(ctx, a.user.ID, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s: spent %s of %s (%s%%), %s remaining\n",
					st.MonthStart.Format("January 2006"),
					st.Spent.StringFixed(2),
					st.Budget.Amount.StringFixed(2),
					st.PercentUsed.StringFixed(2),
					st.Remaining.StringFixed(2))
				return nil
			})
		},
	}
}
