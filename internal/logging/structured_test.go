package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New("test").WithOutput(&buf), &buf
}

func decode(t *testing.T, buf *bytes.Buffer) Event {
	t.Helper()
	var e Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	return e
}

func TestInfoEvent(t *testing.T) {
	log, buf := capture(t)

	log.Info("project_saved", map[string]any{"path": "/tmp/x.codecell"})

	e := decode(t, buf)
	assert.Equal(t, LevelInfo, e.Level)
	assert.Equal(t, "test", e.Component)
	assert.Equal(t, "project_saved", e.Event)
	assert.Equal(t, "/tmp/x.codecell", e.Extra["path"])
	assert.NotEmpty(t, e.Timestamp)
}

func TestErrorCarriesMessage(t *testing.T) {
	log, buf := capture(t)

	log.Error("save_failed", nil, errors.New("disk full"))

	e := decode(t, buf)
	assert.Equal(t, LevelError, e.Level)
	assert.Equal(t, "disk full", e.Error)
}

func TestWithWindowAndProject(t *testing.T) {
	log, buf := capture(t)

	log.WithWindow("editor-abc").WithProject("My Note").Warn("autosave_failed", nil, errors.New("io"))

	e := decode(t, buf)
	assert.Equal(t, "editor-abc", e.Window)
	assert.Equal(t, "My Note", e.Project)

	// Derivation must not mutate the parent logger.
	buf.Reset()
	log.Info("plain", nil)
	e = decode(t, buf)
	assert.Empty(t, e.Window)
	assert.Empty(t, e.Project)
}

func TestDebugSuppressedByDefault(t *testing.T) {
	log, buf := capture(t)

	log.Debug("noise", nil)
	assert.Zero(t, buf.Len())
}
