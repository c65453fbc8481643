package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"meal-planner/internal/shopping"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the shopping list for the current plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.app.ShoppingList(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, view.Summary())
			if len(view.Items) == 0 {
				fmt.Fprintln(out, "Nothing to buy.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, item := range view.Items {
				mark := "[ ]"
				if item.Checked {
					mark = "[x]"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, shopping.FormatQuantity(item.Quantity), item.Unit, item.Name)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <name>",
		Short: "Tick or untick a shopping list item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checked, err := c.app.ToggleChecked(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "unchecked"
			if checked {
				state = "checked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], state)
			return nil
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var toClipboard bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the shopping list as a markdown checklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			checklist, err := c.app.ExportChecklist(cmd.Context())
			if err != nil {
				return err
			}
			if toClipboard {
				if err := clipboard.WriteAll(checklist); err != nil {
					c.logger.Warn("clipboard unavailable", zap.Error(err))
					fmt.Fprintln(cmd.ErrOrStderr(), "Could not copy to clipboard, printing instead.")
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
					return nil
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), checklist)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&toClipboard, "clipboard", "c", false, "Copy the checklist to the system clipboard")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var (
		limit int
		last  bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if last {
				l, err := c.app.LastExport(cmd.Context())
				if err != nil {
					return err
				}
				if l == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No exports yet.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), l.Checklist)
				return nil
			}
			lists, err := c.app.ExportHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(lists) == 0 {
				fmt.Fprintln(out, "No exports yet.")
				return nil
			}
			for _, l := range lists {
				fmt.Fprintf(out, "#%d  %s  (%d items)\n", l.ID, l.CreatedAt.Local().Format("2006-01-02 15:04"), len(l.Items))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of exports to show")
	cmd.Flags().BoolVar(&last, "last", false, "Print the checklist of the latest export")
	return cmd
}

func (c *cli) focusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus",
		Short: "Toggle the high-iron focus of the recipe browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := c.app.ToggleHighIronFocus(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "High-iron focus: %t\n", on)
			return nil
		},
	}
}
