package editor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/codecell/internal/project"
)

func TestAutosaveSavesDirtyProjectWithPath(t *testing.T) {
	st := newMockStorage()
	c := NewController(st, &stubPicker{}, nil, nil)
	c.NewProject(project.TypePython, nil)
	c.Store().Current().SavedPath = "/tmp/auto.codecell"
	c.Store().UpdateFile("main.py", "print('edit')")

	a := NewAutosaver(c, 20*time.Millisecond)
	a.Start(context.Background())
	defer a.Stop()

	require.Eventually(t, func() bool {
		return !c.Store().Dirty()
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, st.saved, "/tmp/auto.codecell")
}

func TestAutosaveSkipsNeverSavedProject(t *testing.T) {
	st := newMockStorage()
	c := NewController(st, &stubPicker{}, nil, nil)
	c.NewProject(project.TypePython, nil)
	c.Store().UpdateFile("main.py", "print('edit')")

	a := NewAutosaver(c, 20*time.Millisecond)
	a.Start(context.Background())
	defer a.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.True(t, c.Store().Dirty())
	assert.Empty(t, st.saved)
}

func TestAutosaveSkipsCleanProject(t *testing.T) {
	st := newMockStorage()
	c := NewController(st, &stubPicker{}, nil, nil)
	c.NewProject(project.TypePython, nil)
	c.Store().Current().SavedPath = "/tmp/clean.codecell"

	a := NewAutosaver(c, 20*time.Millisecond)
	a.Start(context.Background())
	defer a.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, st.saved)
}

func TestAutosaveStartIsIdempotent(t *testing.T) {
	c := NewController(newMockStorage(), &stubPicker{}, nil, nil)
	a := NewAutosaver(c, time.Hour)

	a.Start(context.Background())
	a.Start(context.Background())
	a.Stop()
	// Second Stop on an already stopped autosaver is safe.
	a.Stop()
}

func TestAutosaveDefaultInterval(t *testing.T) {
	c := NewController(newMockStorage(), &stubPicker{}, nil, nil)
	a := NewAutosaver(c, 0)
	assert.Equal(t, 30*time.Second, a.interval)
}
