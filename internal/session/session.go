// Package session tracks the execution state of a single editor window:
// whether a run is in flight, the accumulated output, and the final
// result. It sits between the UI and the executor, consuming the event
// bus so the executor never has to know about display state.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/joss/codecell/internal/events"
	"github.com/joss/codecell/internal/logging"
	"github.com/joss/codecell/internal/project"
)

// ErrRunning is returned by Run when a run is already in progress for
// the window. Callers treat it as a no-op, not a failure.
var ErrRunning = errors.New("a run is already in progress")

// CodeRunner is the slice of the executor a session needs. runID stamps
// every event the run produces.
type CodeRunner interface {
	Run(ctx context.Context, code, windowID, runID string, lang project.Type) error
	Stop(windowID string) bool
}

// Recorder persists finished runs. Implementations must tolerate
// concurrent calls; a nil recorder disables history.
type Recorder interface {
	RecordRun(windowID string, lang project.Type, r events.Result)
}

// View is a point-in-time snapshot of a session's display state.
type View struct {
	Running bool
	Stdout  string
	Stderr  string
	Result  *events.Result
}

// Session is the execution coordinator for one window. All methods are
// safe for concurrent use.
type Session struct {
	windowID string
	runner   CodeRunner
	recorder Recorder
	log      *logging.Logger

	mu        sync.Mutex
	runID     string // ulid of the active run, "" when none started yet
	stoppedID string // last run the user stopped; guards late state events
	running   bool
	lang      project.Type
	stdout    strings.Builder
	stderr    strings.Builder
	result    *events.Result

	events <-chan events.Event
	cancel func()
	done   chan struct{}
}

// New creates a session for windowID and subscribes it to the bus.
// Close must be called on window teardown.
func New(windowID string, runner CodeRunner, bus *events.Bus, recorder Recorder) *Session {
	ch, cancel := bus.Subscribe(windowID)
	s := &Session{
		windowID: windowID,
		runner:   runner,
		recorder: recorder,
		log:      logging.New("session").WithWindow(windowID),
		events:   ch,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.loop()
	return s
}

// Close unsubscribes from the bus and waits for the event loop to drain.
func (s *Session) Close() {
	s.cancel()
	<-s.done
}

// Run starts a new run. While one is in flight further calls return
// ErrRunning and change nothing. A synchronous executor rejection (bad
// language, missing runtime) becomes the run's terminal result so the
// output pane shows it like any other failure.
func (s *Session) Run(ctx context.Context, code string, lang project.Type) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Debug("run_ignored", map[string]any{"reason": "already running"})
		return ErrRunning
	}
	id := ulid.Make().String()
	s.runID = id
	s.running = true
	s.lang = lang
	s.stdout.Reset()
	s.stderr.Reset()
	s.result = nil
	s.mu.Unlock()

	if err := s.runner.Run(ctx, code, s.windowID, id, lang); err != nil {
		s.mu.Lock()
		if s.runID == id {
			s.running = false
			s.stderr.Reset()
			s.stderr.WriteString(err.Error() + "\n")
			s.result = &events.Result{
				Stderr:   err.Error() + "\n",
				ExitCode: -1,
			}
		}
		s.mu.Unlock()
		s.log.Warn("run_rejected", nil, err)
		return err
	}
	return nil
}

// Stop requests termination of the active run. The session flips to
// not-running immediately rather than waiting for the process to die;
// the eventual terminal result still lands in the output pane.
func (s *Session) Stop() bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return false
	}
	s.stoppedID = s.runID
	s.running = false
	s.mu.Unlock()

	s.runner.Stop(s.windowID)
	s.log.Info("run_stopped", nil)
	return true
}

// Clear wipes the output pane. It is safe mid-run: only the
// accumulators and result are cleared, never the running flag.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stdout.Reset()
	s.stderr.Reset()
	s.result = nil
}

// Running reports whether a run is in flight.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Snapshot returns the current display state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		Running: s.running,
		Stdout:  s.stdout.String(),
		Stderr:  s.stderr.String(),
	}
	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	return v
}

func (s *Session) loop() {
	defer close(s.done)
	for ev := range s.events {
		s.handle(ev)
	}
}

func (s *Session) handle(ev events.Event) {
	s.mu.Lock()

	// Stragglers from a superseded run must not touch the pane or the
	// running flag of the run that replaced it.
	if ev.RunID != s.runID {
		s.mu.Unlock()
		return
	}

	switch ev.Kind {
	case events.KindOutput:
		if ev.Stream == events.StreamStderr {
			s.stderr.WriteString(ev.Line)
		} else {
			s.stdout.WriteString(ev.Line)
		}

	case events.KindCompleted:
		r := *ev.Result
		s.result = &r
		s.running = false
		// The terminal result is authoritative; dropped intermediate
		// events make the accumulators an undercount.
		s.stdout.Reset()
		s.stdout.WriteString(r.Stdout)
		s.stderr.Reset()
		s.stderr.WriteString(r.Stderr)

		if s.recorder != nil {
			lang := s.lang
			s.mu.Unlock()
			s.recorder.RecordRun(s.windowID, lang, r)
			return
		}

	case events.KindState:
		if ev.Running && s.runID == s.stoppedID {
			// Late start notice for a run the user already stopped.
			break
		}
		s.running = ev.Running
	}

	s.mu.Unlock()
}
