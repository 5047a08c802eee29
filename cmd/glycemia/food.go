package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwulff/glycemia-go/internal/domain"
	"github.com/jwulff/glycemia-go/internal/tracker"
)

func newFoodCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "food",
		Short: "Log food and its effect on glucose",
	}
	cmd.AddCommand(newFoodAddCmd(a), newFoodListCmd(a), newFoodDeleteCmd(a))
	return cmd
}

func newFoodAddCmd(a *app) *cobra.Command {
	var (
		in               tracker.FoodInput
		category, effect string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a food eaten today",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			in.Category = domain.FoodCategory(category)
			in.Effect = domain.Effect(effect)
			f, err := c.AddFood(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added food %d: %s (%s, %s) on %s\n",
				f.ID, f.Name, f.Category.Label(), f.Effect.Label(), f.Date)
			return nil
		}),
	}

	var categories, effects []string
	for _, c := range domain.FoodCategories {
		categories = append(categories, string(c))
	}
	for _, e := range domain.Effects {
		effects = append(effects, string(e))
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Food name")
	cmd.Flags().StringVar(&category, "category", "", "Category ("+strings.Join(categories, ", ")+")")
	cmd.Flags().StringVar(&effect, "effect", "", "Effect on glucose ("+strings.Join(effects, ", ")+")")
	cmd.Flags().StringVar(&in.Note, "note", "", "Optional note")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFoodListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List logged foods, newest first",
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			foods := tracker.Foods(c.State())
			out := cmd.OutOrStdout()
			if len(foods) == 0 {
				fmt.Fprintln(out, "No foods logged.")
				return nil
			}
			fmt.Fprintln(out, "ID\tDATE\tFOOD\tCATEGORY\tEFFECT\tNOTE")
			for _, f := range foods {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\t%s\n",
					f.ID, f.Date, f.Name, f.Category.Label(), f.Effect.Label(), orDash(f.Note))
			}
			return nil
		}),
	}
}

func newFoodDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a food entry",
		Args:  cobra.ExactArgs(1),
		RunE: a.withController(func(cmd *cobra.Command, args []string, c *tracker.Controller) error {
			id, err := parseIDArg("food id", args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := a.confirm(cmd, "Are you sure you want to delete this food?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := c.DeleteFood(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food %d\n", id)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}
