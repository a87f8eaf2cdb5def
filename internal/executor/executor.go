package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/joss/codecell/internal/events"
	"github.com/joss/codecell/internal/logging"
	"github.com/joss/codecell/internal/project"
)

// proc is one tracked child process with the run that owns it.
type proc struct {
	cmd   *osexec.Cmd
	runID string
}

// Executor runs project code out of process, at most one process per
// window. Run is fire-and-forget: results arrive as events on the bus,
// stamped with the caller's run id.
type Executor struct {
	bus    *events.Bus
	runner Runner
	log    *logging.Logger

	mu    sync.Mutex
	procs map[string]proc
}

// New creates an executor publishing to the given bus.
func New(bus *events.Bus) *Executor {
	return NewWithRunner(bus, NewOSRunner())
}

// NewWithRunner creates an executor with a custom Runner (for testing).
func NewWithRunner(bus *events.Bus, runner Runner) *Executor {
	return &Executor{
		bus:    bus,
		runner: runner,
		log:    logging.New("executor"),
		procs:  make(map[string]proc),
	}
}

// Run executes code for a window. It returns a descriptive error
// synchronously when the language has no runnable recipe or the runtime
// is missing; otherwise the process is spawned and output streams over
// the bus, ending with exactly one Completed event carrying runID.
func (e *Executor) Run(ctx context.Context, code, windowID, runID string, lang project.Type) error {
	switch lang {
	case project.TypeNode:
		return e.runInterpreted(ctx, code, windowID, runID, "js", runtimeNode, nil)
	case project.TypeTypescript:
		return e.runInterpreted(ctx, code, windowID, runID, "ts", runtimeNpx, []string{"tsx"})
	case project.TypePython:
		return e.runInterpreted(ctx, code, windowID, runID, "py", runtimePython, nil)
	case project.TypeRust:
		return e.runRust(ctx, code, windowID, runID)
	case project.TypeJava:
		return e.runJava(ctx, code, windowID, runID)
	case project.TypeWeb:
		return fmt.Errorf("web projects run in the preview pane, not a language runtime")
	default:
		return fmt.Errorf("no runtime recipe for template %q", lang)
	}
}

// Stop terminates the running process for a window, if any. Reaping and
// the terminal event are left to the goroutine that spawned it.
func (e *Executor) Stop(windowID string) bool {
	e.mu.Lock()
	p, ok := e.procs[windowID]
	delete(e.procs, windowID)
	e.mu.Unlock()

	if !ok || p.cmd.Process == nil {
		return false
	}
	if err := p.cmd.Process.Kill(); err != nil {
		e.log.Warn("kill_failed", map[string]any{"window": windowID}, err)
		return false
	}
	e.bus.State(windowID, p.runID, false)
	return true
}

// StopAll kills every tracked process. Called on window close and at
// shutdown.
func (e *Executor) StopAll() {
	e.mu.Lock()
	ids := make([]string, 0, len(e.procs))
	for id := range e.procs {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	for _, id := range ids {
		e.Stop(id)
	}
}

func (e *Executor) runInterpreted(ctx context.Context, code, windowID, runID, ext string, info RuntimeInfo, extraArgs []string) error {
	if check := e.CheckRuntime(info); !check.Available {
		return fmt.Errorf("%s", strings.TrimRight(check.InstallHint, "\n"))
	}

	file := e.tempFile(windowID, ext)
	if err := os.WriteFile(file, []byte(code), 0644); err != nil {
		return fmt.Errorf("write source: %w", err)
	}

	args := append(append([]string{}, extraArgs...), file)
	cmd := osexec.CommandContext(ctx, info.Command, args...)
	return e.spawn(cmd, windowID, runID, time.Now(), []string{file})
}

func (e *Executor) runRust(ctx context.Context, code, windowID, runID string) error {
	if check := e.CheckRuntime(runtimeRust); !check.Available {
		return fmt.Errorf("%s", strings.TrimRight(check.InstallHint, "\n"))
	}

	start := time.Now()
	src := e.tempFile(windowID, "rs")
	bin := strings.TrimSuffix(src, ".rs") + "_bin"
	if err := os.WriteFile(src, []byte(code), 0644); err != nil {
		return fmt.Errorf("write source: %w", err)
	}

	_, compileErr, err := e.runner.RunSeparate(ctx, "", "rustc", src, "-o", bin)
	if err != nil {
		// Compile errors are a reported run failure, not a spawn failure.
		os.Remove(src)
		e.bus.Completed(windowID, runID, events.Result{
			Stderr:     string(compileErr),
			ExitCode:   exitCodeOf(err),
			DurationMs: time.Since(start).Milliseconds(),
		})
		e.bus.State(windowID, runID, false)
		return nil
	}

	cmd := osexec.CommandContext(ctx, bin)
	return e.spawn(cmd, windowID, runID, start, []string{src, bin})
}

func (e *Executor) runJava(ctx context.Context, code, windowID, runID string) error {
	for _, info := range []RuntimeInfo{runtimeJavac, runtimeJava} {
		if check := e.CheckRuntime(info); !check.Available {
			return fmt.Errorf("%s", strings.TrimRight(check.InstallHint, "\n"))
		}
	}

	start := time.Now()
	className := extractJavaClassName(code)
	dir := filepath.Join(os.TempDir(), "codecell_java_"+strings.TrimPrefix(windowID, "editor-"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}

	src := filepath.Join(dir, className+".java")
	if err := os.WriteFile(src, []byte(code), 0644); err != nil {
		return fmt.Errorf("write source: %w", err)
	}

	_, compileErr, err := e.runner.RunSeparate(ctx, dir, "javac", src)
	if err != nil {
		os.RemoveAll(dir)
		e.bus.Completed(windowID, runID, events.Result{
			Stderr:     string(compileErr),
			ExitCode:   exitCodeOf(err),
			DurationMs: time.Since(start).Milliseconds(),
		})
		e.bus.State(windowID, runID, false)
		return nil
	}

	cmd := osexec.CommandContext(ctx, "java", className)
	cmd.Dir = dir
	return e.spawn(cmd, windowID, runID, start, []string{dir})
}

// spawn starts cmd, registers it for Stop, and pumps its output to the
// bus until exit. cleanup paths are removed after the terminal event.
func (e *Executor) spawn(cmd *osexec.Cmd, windowID, runID string, start time.Time, cleanup []string) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	e.mu.Lock()
	e.procs[windowID] = proc{cmd: cmd, runID: runID}
	e.mu.Unlock()
	e.bus.State(windowID, runID, true)

	go e.pump(cmd, windowID, runID, start, stdout, stderr, cleanup)
	return nil
}

func (e *Executor) pump(cmd *osexec.Cmd, windowID, runID string, start time.Time, stdout, stderr io.Reader, cleanup []string) {
	var outBuf, errBuf strings.Builder
	var wg sync.WaitGroup

	stream := func(r io.Reader, name string, buf *strings.Builder) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text() + "\n"
			buf.WriteString(line)
			e.bus.Output(windowID, runID, line, name)
		}
	}

	wg.Add(2)
	go stream(stdout, events.StreamStdout, &outBuf)
	go stream(stderr, events.StreamStderr, &errBuf)
	wg.Wait()

	err := cmd.Wait()
	exitCode := 0
	if err != nil {
		exitCode = exitCodeOf(err)
	}

	e.mu.Lock()
	if e.procs[windowID].cmd == cmd {
		delete(e.procs, windowID)
	}
	e.mu.Unlock()

	for _, path := range cleanup {
		os.RemoveAll(path)
	}

	e.bus.Completed(windowID, runID, events.Result{
		Stdout:     outBuf.String(),
		Stderr:     errBuf.String(),
		ExitCode:   exitCode,
		DurationMs: time.Since(start).Milliseconds(),
	})
	e.bus.State(windowID, runID, false)
	e.log.TimedEvent("run_completed", start, map[string]any{
		"window":    windowID,
		"exit_code": exitCode,
	})
}

func (e *Executor) tempFile(windowID, ext string) string {
	id := strings.TrimPrefix(windowID, "editor-")
	return filepath.Join(os.TempDir(), fmt.Sprintf("codecell_%s.%s", id, ext))
}

func exitCodeOf(err error) int {
	if exitErr, ok := err.(*osexec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// extractJavaClassName finds the public class name, defaulting to Main.
// The compiler requires the file name to match it.
func extractJavaClassName(code string) string {
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(trimmed, "public class ")
		if !ok {
			continue
		}
		var name strings.Builder
		for _, r := range rest {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
				name.WriteRune(r)
				continue
			}
			break
		}
		if name.Len() > 0 {
			return name.String()
		}
	}
	return "Main"
}
