package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/codecell/internal/project"
)

func openCmd() *cobra.Command {
	var fromTemp string
	var newWindow bool

	cmd := &cobra.Command{
		Use:   "open [file]",
		Short: "Show a project's contents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var p *project.Project
			switch {
			case fromTemp != "":
				// Consume a window hand-off: load the temp project and
				// remove it so it cannot be picked up twice.
				p, err = a.store.LoadTempProject(cmd.Context(), fromTemp)
				if err != nil {
					return err
				}
				if err := a.store.DeleteTempProject(cmd.Context(), fromTemp); err != nil {
					a.log.Warn("temp_delete_failed", map[string]any{"id": fromTemp}, err)
				}
				a.ctrl.Store().SetCurrent(p)

			case len(args) == 1:
				p, err = a.openProject(cmd.Context(), args[0])
				if err != nil {
					return err
				}

			default:
				return fmt.Errorf("a file argument or --from-temp is required")
			}

			if newWindow {
				if !a.ctrl.OpenInNewWindow(cmd.Context(), p) {
					return fmt.Errorf("could not open a new window for %q", p.Name)
				}
				return nil
			}

			fmt.Printf("%s (%s)\n", p.Name, p.Template)
			fmt.Printf("  id:      %s\n", p.ID)
			fmt.Printf("  updated: %s\n", p.UpdatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Println("  files:")
			for _, f := range p.Files {
				fmt.Printf("    %-12s %s, %d bytes\n", f.Name, f.Language, len(f.Content))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromTemp, "from-temp", "", "load a handed-off temp project by id")
	cmd.Flags().BoolVar(&newWindow, "new-window", false, "hand the project off to a new window")
	return cmd
}
