package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/ledger"
	"github.com/pocketledger/pocketledger/internal/model"
)

func newAccountCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(
		newAccountCreateCommand(opts),
		newAccountListCommand(opts),
		newAccountDefaultCommand(opts),
		newAccountDeleteCommand(opts),
	)
	return cmd
}

func newAccountCreateCommand(opts *globalOptions) *cobra.Command {
	var acctType, balance, minBalance string
	var isDefault bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := ledger.AccountInput{
				Name:      args[0],
				Type:      model.AccountType(strings.ToUpper(acctType)),
				IsDefault: isDefault,
			}
			var err error
			if in.Balance, err = parseMoney("balance", balance); err != nil {
				return err
			}
			if in.MinBalance, err = parseMoney("minBalance", minBalance); err != nil {
				return err
			}

			return opts.run(cmd, func(ctx context.Context, a *app) error {
				acct, err := a.ledger.CreateAccount(ctx, a.user.ID, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Created account %s (%s) balance %s\n", acct.Name, acct.ID, acct.Balance.StringFixed(2))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&acctType, "type", "current", "account type: current or savings")
	cmd.Flags().StringVar(&balance, "balance", "0", "opening balance")
	cmd.Flags().StringVar(&minBalance, "min-balance", "0", "minimum balance")
	cmd.Flags().BoolVar(&isDefault, "default", false, "make this the default account")

	return cmd
}

func newAccountListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				accts, err := a.ledger.ListAccounts(ctx, a.user.ID)
				if err != nil {
					return err
				}
				tw := a.table()
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tBALANCE\tDEFAULT")
				for _, acct := range accts {
					def := ""
					if acct.IsDefault {
						def = "*"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", acct.ID, acct.Name, acct.Type, acct.Balance.StringFixed(2), def)
				}
				return tw.Flush()
			})
		},
	}
}

func newAccountDefaultCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "default <id>",
		Short: "Make an account the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				acct, err := a.ledger.UpdateDefaultAccount(ctx, a.user.ID, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Default account is now %s\n", acct.Name)
				return nil
			})
		},
	}
}

func newAccountDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				if err := a.ledger.DeleteAccount(ctx, a.user.ID, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted account %s\n", args[0])
				return nil
			})
		},
	}
}
