package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/category"
	"github.com/pocketledger/pocketledger/internal/config"
	"github.com/pocketledger/pocketledger/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var email string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new pocketledger data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name, email)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your display name")
	cmd.Flags().StringVar(&email, "email", "", "your email address")

	return cmd
}

func runInit(out io.Writer, dir, name, email string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Write the category catalog next to the config so it can be edited.
	cfg := config.Default(dir, name)
	cfg.User.Email = email
	cfg.Categories.Path = filepath.Join(dir, "categories.csv")
	if err := category.Default().Save(cfg.Categories.Path); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the database and apply migrations.
	if err := store.Migrate(cfg.Database.Path); err != nil {
		return fmt.Errorf("creating database: %w", err)
	}

	fmt.Fprintf(out, "Initialized pocketledger at %s\n", dir)
	return nil
}
