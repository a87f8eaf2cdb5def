package main

import (
	"context"
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/codecell/internal/config"
	"github.com/joss/codecell/internal/editor"
	"github.com/joss/codecell/internal/project"
)

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a project's main file in $EDITOR",
		Long: `Open the project's main file in $EDITOR (vi by default). While the
editor is open, changes on disk are synced into the project and
autosaved in the background; the project is saved once more on exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.openProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			main := p.MainFile()
			if main == nil {
				return fmt.Errorf("project %q has no files", p.Name)
			}

			scratch := filepath.Join(os.TempDir(), "codecell_edit_"+p.ID+"_"+filepath.Base(main.Name))
			if err := os.WriteFile(scratch, []byte(main.Content), 0644); err != nil {
				return fmt.Errorf("stage file: %w", err)
			}
			defer os.Remove(scratch)

			auto := editor.NewAutosaver(a.ctrl, config.GetEnv().AutosaveInterval)
			auto.Start(cmd.Context())
			defer auto.Stop()

			watchCtx, stopWatch := context.WithCancel(cmd.Context())
			defer stopWatch()
			go watchScratch(watchCtx, a.ctrl.Store(), main.Name, scratch)

			if err := launchEditor(scratch); err != nil {
				return err
			}
			stopWatch()
			auto.Stop()

			syncScratch(a.ctrl.Store(), main.Name, scratch)
			if !a.ctrl.Save(cmd.Context()) {
				return fmt.Errorf("could not save %s", p.SavedPath)
			}
			fmt.Printf("Saved %s\n", p.SavedPath)
			return nil
		},
	}
	return cmd
}

// watchScratch polls the scratch file into the dirty store so the
// autosaver sees edits while the external editor is still open.
func watchScratch(ctx context.Context, store *project.Store, fileName, scratch string) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			syncScratch(store, fileName, scratch)
		}
	}
}

func syncScratch(store *project.Store, fileName, scratch string) {
	data, err := os.ReadFile(scratch)
	if err != nil {
		return
	}
	p := store.Current()
	if p == nil {
		return
	}
	if f := p.FileByName(fileName); f != nil && f.Content == string(data) {
		return
	}
	store.UpdateFile(fileName, string(data))
}

func launchEditor(path string) error {
	editorCmd := os.Getenv("EDITOR")
	if editorCmd == "" {
		editorCmd = "vi"
	}
	cmd := osexec.Command(editorCmd, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
