package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvDefaults(t *testing.T) {
	ResetEnv()
	t.Setenv("CODECELL_DATA_DIR", "")
	t.Setenv("CODECELL_AUTOSAVE_INTERVAL", "")
	t.Setenv("CODECELL_DEBUG", "")

	e := GetEnv()
	assert.Empty(t, e.DataDir)
	assert.Equal(t, DefaultAutosaveInterval, e.AutosaveInterval)
	assert.False(t, e.Debug)
}

func TestGetEnvOverrides(t *testing.T) {
	ResetEnv()
	t.Setenv("CODECELL_DATA_DIR", "/tmp/cc")
	t.Setenv("CODECELL_AUTOSAVE_INTERVAL", "5s")
	t.Setenv("CODECELL_DEBUG", "1")

	e := GetEnv()
	assert.Equal(t, "/tmp/cc", e.DataDir)
	assert.Equal(t, 5*time.Second, e.AutosaveInterval)
	assert.True(t, e.Debug)

	ResetEnv()
}

func TestGetDurationDefault(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty", "", DefaultAutosaveInterval},
		{"valid", "45s", 45 * time.Second},
		{"garbage", "soon", DefaultAutosaveInterval},
		{"negative", "-10s", DefaultAutosaveInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CODECELL_TEST_DUR", tt.value)
			got := getDurationDefault("CODECELL_TEST_DUR", DefaultAutosaveInterval)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathsIn(t *testing.T) {
	p := PathsIn("/data/codecell")
	require.NotNil(t, p)

	assert.Equal(t, "/data/codecell", p.Home)
	assert.Equal(t, filepath.Join("/data/codecell", "temp"), p.Temp)
	assert.Equal(t, filepath.Join("/data/codecell", "templates"), p.Templates)
	assert.Equal(t, filepath.Join("/data/codecell", "recent.json"), p.RecentFile)
	assert.Equal(t, filepath.Join("/data/codecell", "history.db"), p.HistoryDB)
}

func TestGetPathsUsesDataDirEnv(t *testing.T) {
	ResetEnv()
	ResetPaths()
	dir := t.TempDir()
	t.Setenv("CODECELL_DATA_DIR", dir)

	p := GetPaths()
	assert.Equal(t, dir, p.Home)

	ResetEnv()
	ResetPaths()
}
