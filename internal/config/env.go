// Package config provides centralized configuration management.
package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultAutosaveInterval is how often dirty projects with a save path are
// flushed to disk.
const DefaultAutosaveInterval = 30 * time.Second

// DefaultTempProjectMaxAge is how long temp hand-off projects are kept.
const DefaultTempProjectMaxAge = 7 * 24 * time.Hour

// Env holds all CodeCell environment variables.
type Env struct {
	// DataDir overrides the data directory (CODECELL_DATA_DIR)
	DataDir string

	// AutosaveInterval overrides the autosave period (CODECELL_AUTOSAVE_INTERVAL)
	AutosaveInterval time.Duration

	// Debug enables verbose logging (CODECELL_DEBUG)
	Debug bool
}

var (
	env     *Env
	envOnce sync.Once
)

// GetEnv returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func GetEnv() *Env {
	envOnce.Do(func() {
		env = &Env{
			DataDir:          os.Getenv("CODECELL_DATA_DIR"),
			AutosaveInterval: getDurationDefault("CODECELL_AUTOSAVE_INTERVAL", DefaultAutosaveInterval),
			Debug:            os.Getenv("CODECELL_DEBUG") == "1",
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getDurationDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Paths holds standard CodeCell directory paths.
type Paths struct {
	// Home is the CodeCell home directory (~/.codecell)
	Home string

	// Temp is the temp project hand-off directory (~/.codecell/temp)
	Temp string

	// Projects is the default save location (~/.codecell/projects)
	Projects string

	// Templates is the custom template directory (~/.codecell/templates)
	Templates string

	// RecentFile is the recent-projects list (~/.codecell/recent.json)
	RecentFile string

	// HistoryDB is the run-history database (~/.codecell/history.db)
	HistoryDB string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home := GetEnv().DataDir
		if home == "" {
			userHome, err := os.UserHomeDir()
			if err != nil {
				userHome = "."
			}
			home = filepath.Join(userHome, ".codecell")
		}
		paths = newPaths(home)
	})
	return paths
}

// ResetPaths resets the cached paths (for testing).
func ResetPaths() {
	pathsOnce = sync.Once{}
	paths = nil
}

func newPaths(home string) *Paths {
	return &Paths{
		Home:       home,
		Temp:       filepath.Join(home, "temp"),
		Projects:   filepath.Join(home, "projects"),
		Templates:  filepath.Join(home, "templates"),
		RecentFile: filepath.Join(home, "recent.json"),
		HistoryDB:  filepath.Join(home, "history.db"),
	}
}

// PathsIn returns a Paths rooted at an explicit directory.
// Used by tests and by callers that manage their own data dir.
func PathsIn(home string) *Paths {
	return newPaths(home)
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
