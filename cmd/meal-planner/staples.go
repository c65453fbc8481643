package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) staplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staples",
		Short: "Manage pantry staples hidden from the shopping list",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List staples",
		RunE: func(cmd *cobra.Command, args []string) error {
			staples, err := c.app.Staples(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(staples) == 0 {
				fmt.Fprintln(out, "No staples.")
				return nil
			}
			for _, key := range staples.Slice() {
				fmt.Fprintln(out, key)
			}
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <name>",
		Short: "Mark or unmark an ingredient as a staple",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			isStaple, err := c.app.ToggleStaple(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isStaple {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now a staple\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer a staple\n", args[0])
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:       "show <on|off>",
		Short:     "Include or hide staples in the shopping list",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			on := args[0] == "on"
			if err := c.app.SetShowStaples(cmd.Context(), on); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Show staples: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, toggle, show)
	return cmd
}
