package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	osexec "os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/joss/codecell/internal/config"
	"github.com/joss/codecell/internal/editor"
	"github.com/joss/codecell/internal/events"
	"github.com/joss/codecell/internal/executor"
	"github.com/joss/codecell/internal/history"
	"github.com/joss/codecell/internal/logging"
	"github.com/joss/codecell/internal/preview"
	"github.com/joss/codecell/internal/project"
	"github.com/joss/codecell/internal/session"
	"github.com/joss/codecell/internal/storage"
	"github.com/joss/codecell/internal/template"
	"github.com/joss/codecell/internal/tui"
)

const projectExt = editor.FileExt

// app bundles the wired collaborators every command needs. The editor
// controller owns all project persistence; commands never write project
// files directly.
type app struct {
	paths   *config.Paths
	store   *storage.Manager
	catalog *template.Catalog
	ctrl    *editor.Controller
	bus     *events.Bus
	exec    *executor.Executor
	hist    *history.Store
	log     *logging.Logger
}

func newApp() (*app, error) {
	paths := config.GetPaths()
	store := storage.NewManager(paths)
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	a := &app{
		paths: paths,
		store: store,
		bus:   events.NewBus(),
		log:   logging.New("cli"),
	}
	a.exec = executor.New(a.bus)
	a.catalog = template.NewCatalog(store)
	a.ctrl = editor.NewController(store, promptPicker{}, execWindowing{}, a.catalog)

	// History is a convenience; run without it if the db will not open.
	hist, err := history.Open(paths.HistoryDB)
	if err != nil {
		a.log.Warn("history_unavailable", nil, err)
	} else {
		a.hist = hist
	}
	return a, nil
}

func (a *app) close() {
	a.exec.StopAll()
	if a.hist != nil {
		a.hist.Close()
	}
}

func (a *app) recorder() session.Recorder {
	if a.hist == nil {
		return nil
	}
	return a.hist
}

// promptPicker implements the controller's file dialogs over stdin.
type promptPicker struct{}

func (promptPicker) PickSave(defaultName string) (string, bool) {
	line, ok := promptLine(fmt.Sprintf("Save as [%s]: ", defaultName))
	if !ok {
		return "", false
	}
	if line == "" {
		line = defaultName
	}
	if !strings.HasSuffix(line, projectExt) {
		line += projectExt
	}
	abs, err := filepath.Abs(line)
	if err != nil {
		return "", false
	}
	return abs, true
}

func (promptPicker) PickOpen() (string, bool) {
	line, ok := promptLine("Open file: ")
	if !ok || line == "" {
		return "", false
	}
	abs, err := filepath.Abs(line)
	if err != nil {
		return "", false
	}
	return abs, true
}

// promptLine reads one line from stdin. ok is false on EOF.
func promptLine(prompt string) (string, bool) {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

// execWindowing opens a "window" by re-invoking the binary on the
// handed-off temp project.
type execWindowing struct{}

func (execWindowing) OpenEditor(tempID string) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := osexec.Command(exe, "open", "--from-temp", tempID)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Start()
}

// createProject loads a freshly instantiated project into the
// controller and saves it to dest.
func (a *app) createProject(ctx context.Context, p *project.Project, dest string) error {
	if !strings.HasSuffix(dest, projectExt) {
		dest += projectExt
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	a.ctrl.Store().SetCurrent(p)
	if !a.ctrl.SaveTo(ctx, abs) {
		return fmt.Errorf("could not save project to %s", abs)
	}
	fmt.Printf("Created %s project: %s\n", p.Template, abs)
	return nil
}

// openProject loads a project into the controller, recording it as
// recent, and returns it.
func (a *app) openProject(ctx context.Context, path string) (*project.Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if !a.ctrl.OpenFromPath(ctx, abs) {
		return nil, fmt.Errorf("could not open %s", abs)
	}
	return a.ctrl.Store().Current(), nil
}

// runProject loads a project file and executes its main file, streaming
// output until the run ends. The process exits with the run's code.
func (a *app) runProject(ctx context.Context, path string) error {
	p, err := a.openProject(ctx, path)
	if err != nil {
		return err
	}

	if p.Template == project.TypeWeb {
		return a.previewProject(ctx, p)
	}

	main := p.MainFile()
	if main == nil {
		return fmt.Errorf("project %q has no files", p.Name)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(p.WindowID(), a.exec, a.bus, a.recorder())
	defer sess.Close()

	if pretty {
		return a.runWithView(ctx, sess, p, main)
	}
	return a.runPlain(ctx, sess, p, main)
}

// runWithView streams output through the interactive run view.
func (a *app) runWithView(ctx context.Context, sess *session.Session, p *project.Project, main *project.File) error {
	ch, cancel := a.bus.Subscribe(p.WindowID())
	defer cancel()

	if err := sess.Run(ctx, main.Content, p.Template); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(tui.NewRunView(sess, ch), tea.WithContext(ctx)).Run(); err != nil && ctx.Err() == nil {
		return err
	}
	sess.Stop()
	if r := sess.Snapshot().Result; r != nil && r.ExitCode != 0 {
		os.Exit(r.ExitCode)
	}
	return nil
}

// runPlain streams raw lines for piped output, stderr in red when the
// terminal supports it.
func (a *app) runPlain(ctx context.Context, sess *session.Session, p *project.Project, main *project.File) error {
	ch, cancel := a.bus.Subscribe(p.WindowID())
	defer cancel()

	if err := sess.Run(ctx, main.Content, p.Template); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	errOut := color.New(color.FgRed)
	for {
		select {
		case <-ctx.Done():
			sess.Stop()
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case events.KindOutput:
				if ev.Stream == events.StreamStderr {
					errOut.Fprint(os.Stderr, ev.Line)
				} else {
					fmt.Print(ev.Line)
				}
			case events.KindCompleted:
				if ev.Result.ExitCode != 0 {
					os.Exit(ev.Result.ExitCode)
				}
				return nil
			}
		}
	}
}

// previewProject opens a web project in the browser and blocks until
// interrupted.
func (a *app) previewProject(ctx context.Context, p *project.Project) error {
	v := preview.New()
	defer v.Close()
	if err := v.Open(p); err != nil {
		return err
	}
	fmt.Println("Preview open. Press Ctrl+C to close.")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
