package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/codecell/internal/project"
	"github.com/joss/codecell/internal/template"
)

func newCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "new <template>",
		Short: "Create a project from a template",
		Long: `Create a new project file from a built-in template type (web, node,
python, rust, java, typescript) or a saved custom template id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			name := strings.ToLower(args[0])
			var p project.Project

			if t := project.Type(name); project.Known(t) {
				p = template.Build(t, nil)
			} else {
				if err := a.catalog.Reload(cmd.Context()); err != nil {
					return err
				}
				var ok bool
				p, ok = a.catalog.Instantiate(args[0])
				if !ok {
					return fmt.Errorf("unknown template %q", args[0])
				}
			}

			dest := output
			if dest == "" {
				dest = p.Name + projectExt
			}
			return a.createProject(cmd.Context(), &p, dest)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default <name>"+projectExt+")")
	return cmd
}
