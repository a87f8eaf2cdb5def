package editor

import (
	"context"
	"sync"
	"time"

	"github.com/joss/codecell/internal/config"
	"github.com/joss/codecell/internal/logging"
)

// Autosaver periodically re-saves a dirty project that already has a
// path on disk. Never-saved projects are left alone: choosing a path is
// the user's call.
type Autosaver struct {
	ctrl     *Controller
	interval time.Duration
	log      *logging.Logger

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// NewAutosaver creates an autosaver for a controller. A non-positive
// interval falls back to the default.
func NewAutosaver(ctrl *Controller, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = config.DefaultAutosaveInterval
	}
	return &Autosaver{
		ctrl:     ctrl,
		interval: interval,
		log:      logging.New("autosave"),
	}
}

// Start launches the timer loop. Calling Start on a running autosaver
// is a no-op; there is never more than one timer per window.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stop != nil {
		return
	}
	a.stop = make(chan struct{})
	a.stopped = make(chan struct{})
	go a.loop(ctx, a.stop, a.stopped)
}

// Stop halts the timer loop and waits for it to exit. Safe to call on
// a stopped autosaver.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	stop, stopped := a.stop, a.stopped
	a.stop, a.stopped = nil, nil
	a.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-stopped
}

func (a *Autosaver) loop(ctx context.Context, stop, stopped chan struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.tick(ctx)
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// tick saves at most once, and only when there is something worth
// saving. Failures are logged and retried on the next tick.
func (a *Autosaver) tick(ctx context.Context) {
	store := a.ctrl.Store()
	p := store.Current()
	if p == nil || p.SavedPath == "" || !store.Dirty() {
		return
	}
	if err := a.ctrl.storage.SaveProjectToPath(ctx, p, p.SavedPath); err != nil {
		a.log.WithProject(p.ID).Warn("autosave_failed", map[string]any{"path": p.SavedPath}, err)
		return
	}
	store.MarkClean()
	a.log.WithProject(p.ID).Debug("autosaved", map[string]any{"path": p.SavedPath})
}
