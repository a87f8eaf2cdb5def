// Package storage persists CodeCell projects, templates, and the recent
// list on the local filesystem.
//
// Layout under the data directory:
//
//	temp/<id>/meta.json    temp hand-off projects, plus loose source files
//	projects/              default save destination for .codecell files
//	templates/<id>.json    user-saved custom templates
//	recent.json            most-recently-used project list
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joss/codecell/internal/config"
	"github.com/joss/codecell/internal/logging"
	"github.com/joss/codecell/internal/project"
)

// RecentLimit caps the recent-projects list.
const RecentLimit = 10

// Manager is the file-backed storage collaborator.
type Manager struct {
	paths *config.Paths
	log   *logging.Logger
}

// NewManager creates a manager over the given paths.
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths, log: logging.New("storage")}
}

// Init creates the directory layout.
func (m *Manager) Init() error {
	for _, dir := range []string{m.paths.Temp, m.paths.Projects, m.paths.Templates} {
		if err := config.EnsureDir(dir); err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
	}
	return nil
}

// --- Project files ---

// SaveProjectToPath writes a project to an explicit path. The saved form
// deliberately omits SavedPath: the file can be moved externally and the
// path is re-derived on load.
func (m *Manager) SaveProjectToPath(ctx context.Context, p *project.Project, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// LoadProjectFromPath reads a project from a path. SavedPath is forced to
// the loading path.
func (m *Manager) LoadProjectFromPath(ctx context.Context, path string) (*project.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewNotFoundError("project", path)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p project.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	p.SavedPath = path
	return &p, nil
}

// --- Temp hand-off projects ---

// SaveTempProject stores a project under temp/<id> for a new editor
// window to pick up. Individual source files are written alongside the
// metadata so external tools can inspect them.
func (m *Manager) SaveTempProject(ctx context.Context, p *project.Project) (string, error) {
	dir := filepath.Join(m.paths.Temp, p.ID)
	if err := config.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode project: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "meta.json"), data, 0644); err != nil {
		return "", fmt.Errorf("write meta: %w", err)
	}

	for _, f := range p.Files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), []byte(f.Content), 0644); err != nil {
			return "", fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	return dir, nil
}

// LoadTempProject loads a temp project by id.
func (m *Manager) LoadTempProject(ctx context.Context, id string) (*project.Project, error) {
	metaPath := filepath.Join(m.paths.Temp, id, "meta.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewNotFoundError("temp project", id)
		}
		return nil, fmt.Errorf("read meta: %w", err)
	}
	var p project.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: temp project %s: %v", ErrCorrupt, id, err)
	}
	return &p, nil
}

// DeleteTempProject removes a temp project by id.
func (m *Manager) DeleteTempProject(ctx context.Context, id string) error {
	dir := filepath.Join(m.paths.Temp, id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(dir)
}

// CleanupOldTempProjects removes temp projects older than maxAge.
// Best-effort: individual failures are logged and skipped.
func (m *Manager) CleanupOldTempProjects(ctx context.Context, maxAge time.Duration) {
	entries, err := os.ReadDir(m.paths.Temp)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(filepath.Join(m.paths.Temp, entry.Name())); err != nil {
				m.log.Warn("temp_cleanup_failed", map[string]any{"id": entry.Name()}, err)
			}
		}
	}
}

// --- Recent projects ---

// RecentProjects returns the recent list, most recent first. A missing
// file is an empty list, not an error.
func (m *Manager) RecentProjects(ctx context.Context) ([]project.RecentProject, error) {
	data, err := os.ReadFile(m.paths.RecentFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read recent list: %w", err)
	}
	var recent []project.RecentProject
	if err := json.Unmarshal(data, &recent); err != nil {
		return nil, fmt.Errorf("%w: recent list: %v", ErrCorrupt, err)
	}
	return recent, nil
}

// AddRecentProject upserts an entry by id: any existing entry is removed,
// the new one is prepended, and the list is capped at RecentLimit.
func (m *Manager) AddRecentProject(ctx context.Context, entry project.RecentProject) error {
	recent, err := m.RecentProjects(ctx)
	if err != nil {
		m.log.Warn("recent_list_reset", nil, err)
		recent = nil
	}

	kept := make([]project.RecentProject, 0, len(recent)+1)
	kept = append(kept, entry)
	for _, r := range recent {
		if r.ID != entry.ID {
			kept = append(kept, r)
		}
	}
	if len(kept) > RecentLimit {
		kept = kept[:RecentLimit]
	}

	data, err := json.MarshalIndent(kept, "", "  ")
	if err != nil {
		return fmt.Errorf("encode recent list: %w", err)
	}
	if err := os.WriteFile(m.paths.RecentFile, data, 0644); err != nil {
		return fmt.Errorf("write recent list: %w", err)
	}
	return nil
}

// --- Custom templates ---

// CustomTemplates returns stored custom templates, newest first. The
// scan is recursive: users may group template files into subdirectories.
// Unreadable or corrupt entries are skipped with a warning.
func (m *Manager) CustomTemplates(ctx context.Context) ([]project.CustomTemplate, error) {
	if _, err := os.Stat(m.paths.Templates); os.IsNotExist(err) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(m.paths.Templates), "**/*.json")
	if err != nil {
		return nil, fmt.Errorf("scan templates dir: %w", err)
	}

	var templates []project.CustomTemplate
	for _, rel := range matches {
		data, err := os.ReadFile(filepath.Join(m.paths.Templates, rel))
		if err != nil {
			m.log.Warn("template_read_failed", map[string]any{"file": rel}, err)
			continue
		}
		var ct project.CustomTemplate
		if err := json.Unmarshal(data, &ct); err != nil {
			m.log.Warn("template_corrupt", map[string]any{"file": rel}, err)
			continue
		}
		templates = append(templates, ct)
	}

	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].CreatedAt.After(templates[j].CreatedAt)
	})
	return templates, nil
}

// SaveCustomTemplate stores a custom template keyed by id.
func (m *Manager) SaveCustomTemplate(ctx context.Context, ct project.CustomTemplate) error {
	if err := config.EnsureDir(m.paths.Templates); err != nil {
		return fmt.Errorf("templates dir: %w", err)
	}
	data, err := json.MarshalIndent(ct, "", "  ")
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	path := filepath.Join(m.paths.Templates, ct.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// DeleteCustomTemplate removes a custom template by id, wherever it
// sits under the templates dir. Deleting a missing template is a no-op.
func (m *Manager) DeleteCustomTemplate(ctx context.Context, id string) error {
	matches, err := doublestar.Glob(os.DirFS(m.paths.Templates), "**/"+id+".json")
	if err != nil {
		return fmt.Errorf("scan templates dir: %w", err)
	}
	for _, rel := range matches {
		if err := os.Remove(filepath.Join(m.paths.Templates, rel)); err != nil {
			return fmt.Errorf("delete template: %w", err)
		}
	}
	return nil
}
