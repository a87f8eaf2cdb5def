package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Template commands",
		Long:  "List built-in templates and manage saved custom templates",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.catalog.Reload(cmd.Context()); err != nil {
				return err
			}
			for _, t := range a.catalog.List() {
				kind := "custom"
				if t.IsBuiltIn {
					kind = "built-in"
				}
				fmt.Printf("%s %-14s %-10s %s\n", t.Icon, t.Name, kind, t.ID)
			}
			return nil
		},
	}

	var name, icon string
	saveCmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Save a project as a custom template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.openProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), projectExt)
			}
			if !a.ctrl.SaveAsTemplate(cmd.Context(), name, icon) {
				return fmt.Errorf("could not save template %q", name)
			}
			fmt.Printf("Saved template %q\n", name)
			return nil
		},
	}
	saveCmd.Flags().StringVar(&name, "name", "", "template name (default: file name)")
	saveCmd.Flags().StringVar(&icon, "icon", "📦", "template icon")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a custom template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if !a.ctrl.DeleteCustomTemplate(cmd.Context(), args[0]) {
				return fmt.Errorf("could not delete template %q", args[0])
			}
			fmt.Println("Deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, saveCmd, deleteCmd)
	return cmd
}
