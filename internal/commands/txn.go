package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/ledger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/store"
)

func newTxnCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Manage transactions",
	}
	cmd.AddCommand(
		newTxnAddCommand(opts),
		newTxnUpdateCommand(opts),
		newTxnDeleteCommand(opts),
		newTxnBulkDeleteCommand(opts),
		newTxnListCommand(opts),
	)
	return cmd
}

// txnFlags are the transaction fields shared by add and update.
type txnFlags struct {
	account     string
	typ         string
	amount      string
	description string
	category    string
	date        string
	recurring   string
}

func (f *txnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "account id (default account when empty)")
	cmd.Flags().StringVar(&f.typ, "type", "expense", "income or expense")
	cmd.Flags().StringVar(&f.amount, "amount", "", "positive amount")
	cmd.Flags().StringVarP(&f.description, "desc", "d", "", "description")
	cmd.Flags().StringVar(&f.category, "category", "", "category id")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.recurring, "recurring", "", "repeat interval: daily, weekly, monthly or yearly")
}

// apply copies every flag the user set onto in.
func (f *txnFlags) apply(cmd *cobra.Command, in *ledger.TransactionInput) error {
	changed := cmd.Flags().Changed
	var err error
	if changed("account") {
		in.AccountID = f.account
	}
	if changed("type") {
		if in.Type, err = parseType(f.typ); err != nil {
			return err
		}
	}
	if changed("amount") {
		if in.Amount, err = parseMoney("amount", f.amount); err != nil {
			return err
		}
	}
	if changed("desc") {
		in.Description = f.description
	}
	if changed("category") {
		in.Category = f.category
	}
	if changed("date") {
		if in.Date, err = parseDate("date", f.date); err != nil {
			return err
		}
	}
	if changed("recurring") {
		in.IsRecurring = f.recurring != ""
		in.RecurringInterval = model.RecurringInterval(strings.ToUpper(f.recurring))
	}
	return nil
}

func newTxnAddCommand(opts *globalOptions) *cobra.Command {
	var f txnFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := time.Now().UTC()
			in := ledger.TransactionInput{
				Type: model.TransactionExpense,
				Date: time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
			}
			if err := f.apply(cmd, &in); err != nil {
				return err
			}

			return opts.run(cmd, func(ctx context.Context, a *app) error {
				acct, err := a.resolveAccount(ctx, in.AccountID)
				if err != nil {
					return err
				}
				in.AccountID = acct.ID

				t, err := a.ledger.CreateTransaction(ctx, a.user.ID, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Recorded %s %s on %s (%s)\n", t.Type, t.Amount.StringFixed(2), acct.Name, t.ID)
				if t.NextRecurringDate != nil {
					fmt.Fprintf(a.out, "Next occurrence %s\n", t.NextRecurringDate.Format(dateLayout))
				}
				if t.Type == model.TransactionExpense {
					a.checkBudget(ctx)
				}
				return nil
			})
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("desc")

	return cmd
}

func newTxnUpdateCommand(opts *globalOptions) *cobra.Command {
	var f txnFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				cur, err := a.ledger.GetTransaction(ctx, a.user.ID, args[0])
				if err != nil {
					return err
				}
				in := ledger.TransactionInput{
					AccountID:   cur.AccountID,
					Type:        cur.Type,
					Amount:      cur.Amount,
					Description: cur.Description,
					Category:    cur.Category,
					Date:        cur.Date,
					IsRecurring: cur.IsRecurring,
				}
				if cur.RecurringInterval != nil {
					in.RecurringInterval = *cur.RecurringInterval
				}
				if err := f.apply(cmd, &in); err != nil {
					return err
				}

				t, err := a.ledger.UpdateTransaction(ctx, a.user.ID, cur.ID, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Updated %s: %s %s\n", t.ID, t.Type, t.Amount.StringFixed(2))
				a.checkBudget(ctx)
				return nil
			})
		},
	}

	f.register(cmd)

	return cmd
}

func newTxnDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				if err := a.ledger.DeleteTransaction(ctx, a.user.ID, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted transaction %s\n", args[0])
				return nil
			})
		},
	}
}

func newTxnBulkDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-delete <id>...",
		Short: "Delete several transactions at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				res, err := a.ledger.BulkDeleteTransactions(ctx, a.user.ID, args)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, res.Message)
				return nil
			})
		},
	}
}

func newTxnListCommand(opts *globalOptions) *cobra.Command {
	var account, typ, from, to string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := store.TransactionFilter{AccountID: account, Limit: limit}
			var err error
			if typ != "" {
				if f.Type, err = parseType(typ); err != nil {
					return err
				}
			}
			if from != "" {
				if f.From, err = parseDate("from", from); err != nil {
					return err
				}
			}
			if to != "" {
				end, err := parseDate("to", to)
				if err != nil {
					return err
				}
				f.To = end.AddDate(0, 0, 1)
			}

			return opts.run(cmd, func(ctx context.Context, a *app) error {
				txns, err := a.ledger.ListTransactions(ctx, a.user.ID, f)
				if err != nil {
					return err
				}
				tw := a.table()
				fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
				for _, t := range txns {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date.Format(dateLayout), signed(t), t.Category, t.Description)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "only this account")
	cmd.Flags().StringVar(&typ, "type", "", "only income or expense")
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (0 for all)")

	return cmd
}
