package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func recentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			recents, err := a.store.RecentProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(recents) == 0 {
				fmt.Println("No recent projects.")
				return nil
			}
			for _, r := range recents {
				fmt.Printf("%-20s %-10s %s\n", r.Name, r.Template, r.Path)
			}
			return nil
		},
	}
	return cmd
}
