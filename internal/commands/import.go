package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/importer"
	"github.com/pocketledger/pocketledger/internal/store"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var account, format string
	var header, monthFirst bool
	var dateCol, descCol, amountCol, typeCol, categoryCol int

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import transactions from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			fileName := filepath.Base(path)

			mapping := importer.ColumnMapping{Date: dateCol, Description: descCol, Amount: amountCol}
			if typeCol >= 0 {
				mapping.Type = &typeCol
			}
			if categoryCol >= 0 {
				mapping.Category = &categoryCol
			}
			imOpts := importer.Options{HasHeader: header, FileName: fileName, MonthFirst: monthFirst}

			if format != "" {
				reg := importer.DefaultRegistry()
				f, ok := reg.Get(format)
				if !ok {
					return fmt.Errorf("unknown format %q (known: %s)", format, strings.Join(reg.Names(), ", "))
				}
				mapping, imOpts = f.Mapping, f.Options(fileName)
			}

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer file.Close()
			rows, err := importer.ReadCSV(file)
			if err != nil {
				return err
			}

			return opts.run(cmd, func(ctx context.Context, a *app) error {
				acct, err := a.resolveAccount(ctx, account)
				if err != nil {
					return err
				}

				res, err := a.importer.Import(ctx, a.user.ID, acct.ID, rows, mapping, imOpts)
				if err != nil && !errors.Is(err, importer.ErrNoValidRows) {
					return err
				}
				printImportResult(a.out, res)
				if err != nil {
					return err
				}
				a.checkBudget(ctx)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id (default account when empty)")
	cmd.Flags().StringVar(&format, "format", "", "named bank format, overrides the column flags")
	cmd.Flags().BoolVar(&header, "header", false, "first row is a header")
	cmd.Flags().BoolVar(&monthFirst, "month-first", false, "read numeric dates as MM/DD/YYYY")
	cmd.Flags().IntVar(&dateCol, "date-col", 0, "date column")
	cmd.Flags().IntVar(&descCol, "desc-col", 1, "description column")
	cmd.Flags().IntVar(&amountCol, "amount-col", 2, "amount column")
	cmd.Flags().IntVar(&typeCol, "type-col", -1, "type column (-1 uses the amount sign)")
	cmd.Flags().IntVar(&categoryCol, "category-col", -1, "category column (-1 matches the description)")

	return cmd
}

func printImportResult(out io.Writer, res importer.Result) {
	fmt.Fprintf(out, "Imported %d of %d rows (%d skipped, %d duplicates, %d errors), balance change %s\n",
		res.Imported, res.TotalRows, res.Skipped, res.Duplicates, res.Errors, res.BalanceChange.StringFixed(2))
	for _, e := range res.RowErrors {
		fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Reason)
	}
}

func newImportsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "imports",
		Short: "Show import history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				logs, err := a.importer.History(ctx, a.user.ID)
				if err != nil {
					return err
				}
				tw := a.table()
				fmt.Fprintln(tw, "WHEN\tFILE\tTOTAL\tIMPORTED\tSKIPPED\tERRORS")
				for _, l := range logs {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
						l.CreatedAt.Local().Format("2006-01-02 15:04"), l.FileName, l.TotalRows, l.Imported, l.Skipped, l.Errors)
				}
				return tw.Flush()
			})
		},
	}
}

func newExportCommand(opts *globalOptions) *cobra.Command {
	var account, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				txns, err := a.ledger.ListTransactions(ctx, a.user.ID, store.TransactionFilter{AccountID: account})
				if err != nil {
					return err
				}

				w := a.out
				if out != "" {
					f, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("creating %s: %w", out, err)
					}
					defer f.Close()
					w = f
				}
				return importer.WriteCSV(w, txns)
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "only this account")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	return cmd
}
