package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"meal-planner/internal/storage"
)

func (c *cli) snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, restore, export or import the whole planner state",
	}

	var force bool
	save := &cobra.Command{
		Use:   "save [name]",
		Short: "Save the current state to the snapshot directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			saved, err := c.app.SaveSnapshot(cmd.Context(), name, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %s\n", saved)
			return nil
		},
	}

	save.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing snapshot")

	restore := &cobra.Command{
		Use:   "restore <name>",
		Short: "Replace the current state with a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.RestoreSnapshot(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored snapshot %s\n", args[0])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := c.app.Snapshots()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DeleteSnapshot(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", args[0])
			return nil
		},
	}

	export := &cobra.Command{
		Use:   "export <file|->",
		Short: "Write the current state as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.app.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal snapshot: %w", err)
			}
			if args[0] == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d recipes to %s\n", len(snap.Recipes), args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the current state with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			snap, err := storage.Decode(data)
			if err != nil {
				return err
			}
			if err := c.app.Restore(cmd.Context(), *snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recipes\n", len(snap.Recipes))
			return nil
		},
	}

	cmd.AddCommand(save, restore, list, del, export, imp)
	return cmd
}
