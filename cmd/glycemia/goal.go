package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/tracker"
)

func newGoalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage care goals",
	}
	cmd.AddCommand(newGoalAddCmd(a), newGoalListCmd(a), newGoalCompleteCmd(a), newGoalDeleteCmd(a))
	return cmd
}

func newGoalAddCmd(a *app) *cobra.Command {
	var (
		in       tracker.GoalInput
		category string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a goal",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			in.Category = domain.GoalCategory(category)
			g, err := c.AddGoal(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added goal %d: %s (%s)\n", g.ID, g.Description, g.Category.Label())
			return nil
		}),
	}

	cmd.Flags().StringVar(&in.Description, "description", "", "Goal description")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "Due date YYYY-MM-DD (optional)")
	cmd.Flags().StringVar(&category, "category", "", "Category ("+goalCategoryNames()+")")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func goalCategoryNames() string {
	names := make([]string, len(domain.GoalCategories))
	for i, c := range domain.GoalCategories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func newGoalListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals and progress",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			v := tracker.Goals(c.State())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Progress: %d of %d goals completed (%d%%)\n", v.Done, v.Total, v.Percent)

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Pending goals")
			printGoals(out, v.Pending, "No pending goals.")

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Completed goals")
			printGoals(out, v.Completed, "No completed goals.")
			return nil
		}),
	}
}

func printGoals(out io.Writer, goals []domain.Goal, empty string) {
	if len(goals) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	fmt.Fprintln(out, "ID\tGOAL\tCATEGORY\tDUE")
	for _, g := range goals {
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", g.ID, g.Description, g.Category.Label(), orDash(g.DueDate))
	}
}

func newGoalCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a goal completed",
		Args:  cobra.ExactArgs(1),
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			id, err := parseIDArg("goal id", args[0])
			if err != nil {
				return err
			}
			changed, err := c.CompleteGoal(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Goal %d was already completed\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed goal %d\n", id)
			return nil
		}),
	}
}

func newGoalDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			id, err := parseIDArg("goal id", args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := a.confirm(cmd, "Are you sure you want to delete this goal?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := c.DeleteGoal(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %d\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}
