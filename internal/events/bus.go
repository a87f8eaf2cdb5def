// Package events provides the window-keyed event channel between the
// executor and each editor's execution coordinator.
package events

import "sync"

// Stream identifies an output stream.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// Kind discriminates event payloads.
type Kind string

const (
	KindOutput    Kind = "output"
	KindCompleted Kind = "completed"
	KindState     Kind = "state"
)

// Result is the terminal outcome of one run. Once delivered it is
// authoritative over the streamed accumulators.
type Result struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exitCode"`
	DurationMs int64  `json:"durationMs"`
}

// Event is a single execution event addressed to one window. RunID ties
// the event to the run that produced it so consumers can discard
// stragglers from a superseded run.
type Event struct {
	WindowID string
	RunID    string
	Kind     Kind

	// Output fields (KindOutput)
	Line   string
	Stream string

	// Terminal result (KindCompleted)
	Result *Result

	// Running state (KindState)
	Running bool
}

// subscriberBuffer is sized so a bursty process does not block the
// executor's pump goroutines. Output overflow is dropped, the terminal
// result carries the full output regardless.
const subscriberBuffer = 256

type subscriber struct {
	id int
	ch chan Event
}

// Bus fans execution events out to per-window subscribers. Publishing
// never blocks. A subscriber that falls behind loses intermediate
// output events, never terminal or state events: those shed queued
// events to make room, so the terminal result always lands.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: map[string][]subscriber{}}
}

// Subscribe registers for events addressed to windowID. The returned
// cancel func must be called on window teardown; it closes the channel.
func (b *Bus) Subscribe(windowID string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := subscriber{id: b.nextID, ch: make(chan Event, subscriberBuffer)}
	b.subs[windowID] = append(b.subs[windowID], sub)

	id := sub.id
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[windowID]
		for i, s := range subs {
			if s.id == id {
				b.subs[windowID] = append(subs[:i], subs[i+1:]...)
				close(s.ch)
				return
			}
		}
	}
	return sub.ch, cancel
}

// Publish delivers an event to the subscribers of its window.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs[e.WindowID] {
		if e.Kind == KindOutput {
			select {
			case s.ch <- e:
			default:
			}
			continue
		}
		// Terminal and state events must be delivered: without them a
		// consumer is stuck showing a run that already ended. Shed the
		// oldest queued event until the send fits.
	deliver:
		for {
			select {
			case s.ch <- e:
				break deliver
			default:
				select {
				case <-s.ch:
				default:
				}
			}
		}
	}
}

// Output publishes one line of process output.
func (b *Bus) Output(windowID, runID, line, stream string) {
	b.Publish(Event{WindowID: windowID, RunID: runID, Kind: KindOutput, Line: line, Stream: stream})
}

// Completed publishes the terminal result for a run.
func (b *Bus) Completed(windowID, runID string, r Result) {
	b.Publish(Event{WindowID: windowID, RunID: runID, Kind: KindCompleted, Result: &r})
}

// State publishes a running-state change.
func (b *Bus) State(windowID, runID string, running bool) {
	b.Publish(Event{WindowID: windowID, RunID: runID, Kind: KindState, Running: running})
}
