package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/codecell/internal/events"
	"github.com/joss/codecell/internal/project"
)

// fakeRunner stands in for the executor; tests drive the bus directly
// using the run ids the session handed out.
type fakeRunner struct {
	mu     sync.Mutex
	runs   []string
	stops  int
	runErr error
}

func (f *fakeRunner) Run(ctx context.Context, code, windowID, runID string, lang project.Type) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, runID)
	return f.runErr
}

func (f *fakeRunner) Stop(windowID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return true
}

func (f *fakeRunner) runID(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[i]
}

func (f *fakeRunner) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs), f.stops
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []events.Result
}

func (f *fakeRecorder) RecordRun(windowID string, lang project.Type, r events.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, r)
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func newTestSession(t *testing.T, runner CodeRunner, recorder Recorder) (*Session, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	s := New("editor-test", runner, bus, recorder)
	t.Cleanup(s.Close)
	return s, bus
}

func TestRunStreamsAndCompletes(t *testing.T) {
	runner := &fakeRunner{}
	s, bus := newTestSession(t, runner, nil)

	require.NoError(t, s.Run(context.Background(), "print(1)", project.TypePython))
	assert.True(t, s.Running())
	id := runner.runID(0)

	bus.Output("editor-test", id, "1\n", events.StreamStdout)
	bus.Output("editor-test", id, "warn\n", events.StreamStderr)
	bus.Completed("editor-test", id, events.Result{Stdout: "1\n", Stderr: "warn\n", ExitCode: 0, DurationMs: 12})
	bus.State("editor-test", id, false)

	require.Eventually(t, func() bool {
		return s.Snapshot().Result != nil
	}, 2*time.Second, 10*time.Millisecond)

	v := s.Snapshot()
	assert.False(t, v.Running)
	assert.Equal(t, "1\n", v.Stdout)
	assert.Equal(t, "warn\n", v.Stderr)
	assert.Equal(t, 0, v.Result.ExitCode)
	assert.Equal(t, int64(12), v.Result.DurationMs)
}

func TestRunWhileRunningIsNoOp(t *testing.T) {
	runner := &fakeRunner{}
	s, _ := newTestSession(t, runner, nil)

	require.NoError(t, s.Run(context.Background(), "a", project.TypeNode))
	err := s.Run(context.Background(), "b", project.TypeNode)
	assert.ErrorIs(t, err, ErrRunning)

	runs, _ := runner.counts()
	assert.Equal(t, 1, runs)
}

func TestSynchronousRejectionBecomesResult(t *testing.T) {
	runner := &fakeRunner{runErr: errors.New("Error: Python is not installed")}
	s, _ := newTestSession(t, runner, nil)

	err := s.Run(context.Background(), "print(1)", project.TypePython)
	require.Error(t, err)

	v := s.Snapshot()
	assert.False(t, v.Running)
	require.NotNil(t, v.Result)
	assert.Equal(t, -1, v.Result.ExitCode)
	assert.Equal(t, int64(0), v.Result.DurationMs)
	assert.Contains(t, v.Stderr, "not installed")
}

func TestStopIsOptimistic(t *testing.T) {
	runner := &fakeRunner{}
	s, bus := newTestSession(t, runner, nil)

	require.NoError(t, s.Run(context.Background(), "while True: pass", project.TypePython))
	require.True(t, s.Stop())
	assert.False(t, s.Running())
	id := runner.runID(0)

	_, stops := runner.counts()
	assert.Equal(t, 1, stops)

	// A late running notice for the stopped run must not resurrect it.
	bus.State("editor-test", id, true)
	bus.Completed("editor-test", id, events.Result{Stderr: "killed\n", ExitCode: -1, DurationMs: 40})

	require.Eventually(t, func() bool {
		return s.Snapshot().Result != nil
	}, 2*time.Second, 10*time.Millisecond)

	v := s.Snapshot()
	assert.False(t, v.Running)
	assert.Contains(t, v.Stderr, "killed")
}

func TestStaleRunEventsDoNotTouchNewerRun(t *testing.T) {
	runner := &fakeRunner{}
	s, bus := newTestSession(t, runner, nil)

	// Run A, stop it, start run B before A's process dies.
	require.NoError(t, s.Run(context.Background(), "while True: pass", project.TypePython))
	idA := runner.runID(0)
	require.True(t, s.Stop())
	require.NoError(t, s.Run(context.Background(), "print(2)", project.TypePython))
	idB := runner.runID(1)
	require.NotEqual(t, idA, idB)
	require.True(t, s.Running())

	// A's reaper finally reports: late output, kill state, terminal result.
	bus.Output("editor-test", idA, "stale\n", events.StreamStdout)
	bus.State("editor-test", idA, false)
	bus.Completed("editor-test", idA, events.Result{Stderr: "killed\n", ExitCode: -1, DurationMs: 40})
	// B makes progress afterwards; once this lands, A's events have been
	// processed (per-window ordering).
	bus.Output("editor-test", idB, "2\n", events.StreamStdout)

	require.Eventually(t, func() bool {
		return s.Snapshot().Stdout == "2\n"
	}, 2*time.Second, 10*time.Millisecond)

	v := s.Snapshot()
	assert.True(t, v.Running, "stale terminal event must not clear run B's running flag")
	assert.Nil(t, v.Result, "stale result must not be displayed as run B's")
	assert.Empty(t, v.Stderr)

	// B's own terminal result still lands normally.
	bus.Completed("editor-test", idB, events.Result{Stdout: "2\n", ExitCode: 0, DurationMs: 5})
	require.Eventually(t, func() bool {
		return s.Snapshot().Result != nil
	}, 2*time.Second, 10*time.Millisecond)
	v = s.Snapshot()
	assert.False(t, v.Running)
	assert.Equal(t, 0, v.Result.ExitCode)
}

func TestStopWithoutRun(t *testing.T) {
	runner := &fakeRunner{}
	s, _ := newTestSession(t, runner, nil)

	assert.False(t, s.Stop())
	_, stops := runner.counts()
	assert.Equal(t, 0, stops)
}

func TestClearKeepsRunningFlag(t *testing.T) {
	runner := &fakeRunner{}
	s, bus := newTestSession(t, runner, nil)

	require.NoError(t, s.Run(context.Background(), "a", project.TypeNode))
	bus.Output("editor-test", runner.runID(0), "partial\n", events.StreamStdout)

	require.Eventually(t, func() bool {
		return s.Snapshot().Stdout != ""
	}, 2*time.Second, 10*time.Millisecond)

	s.Clear()
	v := s.Snapshot()
	assert.True(t, v.Running)
	assert.Empty(t, v.Stdout)
	assert.Empty(t, v.Stderr)
	assert.Nil(t, v.Result)
}

func TestRecorderReceivesCompletedRuns(t *testing.T) {
	runner := &fakeRunner{}
	rec := &fakeRecorder{}
	s, bus := newTestSession(t, runner, rec)

	require.NoError(t, s.Run(context.Background(), "print(1)", project.TypePython))
	bus.Completed("editor-test", runner.runID(0), events.Result{Stdout: "1\n", ExitCode: 0, DurationMs: 5})

	require.Eventually(t, func() bool {
		return rec.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
	_ = s
}

func TestNewRunAfterCompletion(t *testing.T) {
	runner := &fakeRunner{}
	s, bus := newTestSession(t, runner, nil)

	require.NoError(t, s.Run(context.Background(), "a", project.TypeNode))
	bus.Completed("editor-test", runner.runID(0), events.Result{Stdout: "first\n", ExitCode: 0})

	require.Eventually(t, func() bool {
		return !s.Running()
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Run(context.Background(), "b", project.TypeNode))
	v := s.Snapshot()
	assert.True(t, v.Running)
	assert.Empty(t, v.Stdout)
	assert.Nil(t, v.Result)
}
