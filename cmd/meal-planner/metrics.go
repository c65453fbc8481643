package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"meal-planner/internal/metrics"
)

func (c *cli) metricsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show recent activity and process health",
		RunE: func(cmd *cobra.Command, args []string) error {
			activity, err := c.app.DailyActivity(cmd.Context(), days)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tRUNS\tITEMS\tAVG LATENCY")
			for _, d := range activity {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f ms\n", d.Date, d.Runs, d.Items, d.AvgLatencyMS)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			recipes, err := c.app.RecipeCount(cmd.Context())
			if err != nil {
				return err
			}
			h := metrics.GetSysHealth(c.cfg.DatabasePath, c.cfg.SnapshotDir)
			fmt.Fprintf(out, "\nRecipes: %d\n", recipes)
			fmt.Fprintf(out, "Memory: %d MB alloc, %d MB sys, %d GC\nData on disk: %s\n",
				h.AllocMB, h.SysMB, h.NumGC, h.DataDiskSize)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Days of activity to show")

	var olderThan int
	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete old execution metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.CleanupMetrics(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d metrics\n", n)
			return nil
		},
	}
	cleanup.Flags().IntVar(&olderThan, "older-than", 30, "Delete metrics older than this many days")

	cmd.AddCommand(cleanup)
	return cmd
}
