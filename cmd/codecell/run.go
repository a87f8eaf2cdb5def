package main

import (
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a project's main file",
		Long: `Run a project. Output streams as the process produces it; the command
exits with the run's exit code. Web projects open in the browser
preview instead of a language runtime.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			return a.runProject(cmd.Context(), args[0])
		},
	}
	return cmd
}
