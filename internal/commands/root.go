package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/buildinfo"
)

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	configPath string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "pocketledger",
		Short:   "Personal finance ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./pocketledger.yaml)")

	rootCmd.AddCommand(
		newInitCommand(),
		newServeCommand(opts),
		newAccountCommand(opts),
		newTxnCommand(opts),
		newImportCommand(opts),
		newImportsCommand(opts),
		newExportCommand(opts),
		newGoalCommand(opts),
		newBudgetCommand(opts),
		newCategoriesCommand(opts),
		newVerifyCommand(opts),
	)

	return rootCmd
}
