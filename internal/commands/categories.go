package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/category"
)

func newCategoriesCommand(opts *globalOptions) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List transaction categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				catalog := a.ledger.Catalog()
				cats := catalog.All()
				if typ != "" {
					t, err := parseType(typ)
					if err != nil {
						return err
					}
					cats = catalog.ByType(t)
				}
				return printCategories(a, cats)
			})
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "only income or expense categories")

	return cmd
}

func printCategories(a *app, cats []category.Category) error {
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tTYPE")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Type)
	}
	return tw.Flush()
}
