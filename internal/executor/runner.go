// Package executor spawns language runtimes for project code and streams
// their output back over the event bus, one process per window.
package executor

import (
	"bytes"
	"context"
	osexec "os/exec"
)

// Runner abstracts the command probes and compile steps so tests can run
// without real toolchains installed.
type Runner interface {
	// LookPath reports whether a command exists on PATH.
	LookPath(name string) (string, error)

	// RunSeparate executes a command in dir (empty = inherited) and
	// returns stdout and stderr separately.
	RunSeparate(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
}

// OSRunner implements Runner using os/exec.
type OSRunner struct{}

// NewOSRunner creates a new OS-based command runner.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

func (r *OSRunner) LookPath(name string) (string, error) {
	return osexec.LookPath(name)
}

func (r *OSRunner) RunSeparate(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// MockRunner implements Runner for testing.
type MockRunner struct {
	// Missing lists commands LookPath should report as absent.
	Missing map[string]bool

	// Responses maps command names to canned results.
	Responses map[string]MockResponse

	// Calls records invocations of RunSeparate.
	Calls []MockCall
}

// MockCall records a single command invocation.
type MockCall struct {
	Name string
	Args []string
	Dir  string
}

// MockResponse defines the response for a mocked command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// NewMockRunner creates a new mock runner where every command exists.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Missing:   make(map[string]bool),
		Responses: make(map[string]MockResponse),
	}
}

func (m *MockRunner) LookPath(name string) (string, error) {
	if m.Missing[name] {
		return "", osexec.ErrNotFound
	}
	return "/usr/bin/" + name, nil
}

func (m *MockRunner) RunSeparate(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	m.Calls = append(m.Calls, MockCall{Name: name, Args: args, Dir: dir})
	resp := m.Responses[name]
	return resp.Stdout, resp.Stderr, resp.Err
}
