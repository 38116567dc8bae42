package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/goals"
)

func newGoalCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Track savings goals",
	}
	cmd.AddCommand(
		newGoalCreateCommand(opts),
		newGoalProgressCommand(opts),
		newGoalListCommand(opts),
		newGoalDeleteCommand(opts),
	)
	return cmd
}

func newGoalCreateCommand(opts *globalOptions) *cobra.Command {
	var target, current, deadline, color, icon, category string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a savings goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := goals.GoalInput{Name: args[0], Color: color, Icon: icon, Category: category}
			var err error
			if in.TargetAmount, err = parseMoney("targetAmount", target); err != nil {
				return err
			}
			if in.CurrentAmount, err = parseMoney("currentAmount", current); err != nil {
				return err
			}
			if deadline != "" {
				d, err := parseDate("deadline", deadline)
				if err != nil {
					return err
				}
				in.Deadline = &d
			}

			return opts.run(cmd, func(ctx context.Context, a *app) error {
				g, err := a.goals.Create(ctx, a.user.ID, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Created goal %s (%s) %s/%s %s\n",
					g.Name, g.ID, g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2), g.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "target amount")
	_ = cmd.MarkFlagRequired("target")
	cmd.Flags().StringVar(&current, "current", "0", "amount saved so far")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline as YYYY-MM-DD")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	cmd.Flags().StringVar(&category, "category", "", "category label")

	return cmd
}

func newGoalProgressCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <id> <amount>",
		Short: "Add to (or, with a negative amount, take from) a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoney("amount", args[1])
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				g, err := a.goals.AddProgress(ctx, a.user.ID, args[0], amount)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s: %s/%s %s\n", g.Name, g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2), g.Status)
				return nil
			})
		},
	}
}

func newGoalListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				gs, err := a.goals.List(ctx, a.user.ID)
				if err != nil {
					return err
				}
				tw := a.table()
				fmt.Fprintln(tw, "ID\tNAME\tSAVED\tTARGET\tSTATUS")
				for _, g := range gs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						g.ID, g.Name, g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2), g.Status)
				}
				return tw.Flush()
			})
		},
	}
}

func newGoalDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				if err := a.goals.Delete(ctx, a.user.ID, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted goal %s\n", args[0])
				return nil
			})
		},
	}
}
