package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
)

func (c *cli) planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show or edit the weekly meal plan",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the meal plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := c.app.MealPlan(cmd.Context())
			if err != nil {
				return err
			}
			recipes, err := c.app.ListRecipes(cmd.Context(), recipe.FilterAll)
			if err != nil {
				return err
			}
			titles := make(map[string]string, len(recipes))
			for _, r := range recipes {
				titles[r.ID] = r.Title
			}

			out := cmd.OutOrStdout()
			days := planner.SortedDays(plan)
			if len(days) == 0 {
				fmt.Fprintln(out, "No meals planned.")
				return nil
			}
			for _, day := range days {
				names := make([]string, 0, len(plan[day]))
				for _, id := range plan[day] {
					if t, ok := titles[id]; ok {
						names = append(names, t)
					} else {
						names = append(names, "(deleted "+id+")")
					}
				}
				fmt.Fprintf(out, "%-10s %s\n", day+":", strings.Join(names, ", "))
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <day> <recipe-id>",
		Short: "Plan a recipe on a day (weekday name or YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.PlanMeal(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned %s on %s\n", args[1], args[0])
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <day> <recipe-id>",
		Short: "Remove one occurrence of a recipe from a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := c.app.UnplanMeal(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%s is not planned on %s", args[1], args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[1], args[0])
			return nil
		},
	}

	quick := &cobra.Command{
		Use:   "quick-add <recipe-id>",
		Short: "Plan a recipe on the first free weekday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := c.app.QuickAdd(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned %s on %s\n", args[0], day)
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove every planned meal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.ClearPlan(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Meal plan cleared")
			return nil
		},
	}

	cmd.AddCommand(show, add, remove, quick, clear)
	return cmd
}
