// Package main provides the CodeCell CLI entrypoint.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joss/codecell/internal/tui"
)

var (
	version = "0.1.0"
	pretty  = true
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "codecell",
		Short: "CodeCell - a code playground for quick experiments",
		Long: `CodeCell: create small projects from templates, run them, and keep
the results at hand.

Usage modes:
  codecell              Start the interactive launcher
  codecell <command>    Run a specific command (see below)

Use 'codecell templates list' to see available templates.
Use 'codecell help' for the full command list.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLauncher(cmd)
		},
	}

	// Disable color and spinners when piped.
	pretty = term.IsTerminal(int(os.Stdout.Fd()))

	rootCmd.AddCommand(
		newCmd(),
		openCmd(),
		editCmd(),
		runCmd(),
		recentCmd(),
		templatesCmd(),
		historyCmd(),
		cleanCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runLauncher shows the start screen and acts on the selection.
func runLauncher(cmd *cobra.Command) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.catalog.Reload(cmd.Context()); err != nil {
		a.log.Warn("catalog_reload_failed", nil, err)
	}
	recents, err := a.store.RecentProjects(cmd.Context())
	if err != nil {
		recents = nil
	}

	model, err := tea.NewProgram(tui.NewLauncher(a.catalog.List(), recents)).Run()
	if err != nil {
		return fmt.Errorf("launcher: %w", err)
	}
	choice := model.(tui.Launcher).Choice()
	if choice == nil {
		return nil
	}

	switch {
	case choice.Recent != nil:
		return a.runProject(cmd.Context(), choice.Recent.Path)

	case choice.Template != nil:
		p, ok := a.catalog.Instantiate(choice.Template.ID)
		if !ok {
			return fmt.Errorf("unknown template %q", choice.Template.ID)
		}
		a.ctrl.Store().SetCurrent(&p)
		if !a.ctrl.SaveAs(cmd.Context()) {
			return nil
		}
		saved := a.ctrl.Store().Current()
		fmt.Printf("Created %s project: %s\n", saved.Template, saved.SavedPath)
	}
	return nil
}
