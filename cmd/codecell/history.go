package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if a.hist == nil {
				return fmt.Errorf("run history is unavailable")
			}

			entries, err := a.hist.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}
			for _, e := range entries {
				status := "ok"
				if e.ExitCode != 0 {
					status = fmt.Sprintf("exit %d", e.ExitCode)
				}
				fmt.Printf("%s  %-10s %-8s %dms\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					e.Language, status, e.DurationMs)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate run statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if a.hist == nil {
				return fmt.Errorf("run history is unavailable")
			}

			stats, err := a.hist.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Total runs: %d (%d failed)\n", stats.Total, stats.Failed)
			for lang, n := range stats.ByLanguage {
				fmt.Printf("  %-12s %d\n", lang, n)
			}
			return nil
		},
	}
	cmd.AddCommand(statsCmd)
	return cmd
}
