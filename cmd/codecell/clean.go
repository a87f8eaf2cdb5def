package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/codecell/internal/config"
)

func cleanCmd() *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale temp projects",
		Long:  "Delete window hand-off leftovers older than the retention window.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.store.CleanupOldTempProjects(cmd.Context(), maxAge)
			fmt.Println("Cleaned temp projects older than", maxAge)
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", config.DefaultTempProjectMaxAge, "delete temp projects older than this")
	return cmd
}
