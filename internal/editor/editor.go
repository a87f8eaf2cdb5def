// Package editor implements the persistence façade behind an editor
// window: save, save-as, open, hand-off to new windows, and custom
// template management. Dialog choices and window creation are behind
// interfaces so the logic runs the same under the TUI, the CLI, and
// tests.
package editor

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joss/codecell/internal/logging"
	"github.com/joss/codecell/internal/project"
	"github.com/joss/codecell/internal/template"
)

// FileExt is the on-disk project extension.
const FileExt = ".codecell"

// Storage is the slice of the storage manager the controller needs.
type Storage interface {
	SaveProjectToPath(ctx context.Context, p *project.Project, path string) error
	LoadProjectFromPath(ctx context.Context, path string) (*project.Project, error)
	SaveTempProject(ctx context.Context, p *project.Project) (string, error)
	AddRecentProject(ctx context.Context, entry project.RecentProject) error
	SaveCustomTemplate(ctx context.Context, ct project.CustomTemplate) error
	DeleteCustomTemplate(ctx context.Context, id string) error
}

// FilePicker asks the user for a path. ok is false when the dialog was
// cancelled; cancellation is a silent no-op everywhere it surfaces.
type FilePicker interface {
	PickSave(defaultName string) (path string, ok bool)
	PickOpen() (path string, ok bool)
}

// Windowing opens a new editor window for a temp project id.
type Windowing interface {
	OpenEditor(tempID string) error
}

// Controller drives one window's project lifecycle. It owns the dirty
// store and funnels every persistence operation through Storage.
type Controller struct {
	store   *project.Store
	storage Storage
	picker  FilePicker
	windows Windowing
	catalog *template.Catalog
	log     *logging.Logger
}

// NewController wires a controller. windows may be nil when the host
// cannot spawn windows (plain CLI); OpenInNewWindow then loads in
// place. catalog may be nil when the host keeps no template cache.
func NewController(st Storage, picker FilePicker, windows Windowing, catalog *template.Catalog) *Controller {
	return &Controller{
		store:   project.NewStore(),
		storage: st,
		picker:  picker,
		windows: windows,
		catalog: catalog,
		log:     logging.New("editor"),
	}
}

// Store exposes the dirty-tracking store for the UI layer.
func (c *Controller) Store() *project.Store {
	return c.store
}

// NewProject replaces the current project with a fresh one built from a
// template type.
func (c *Controller) NewProject(t project.Type, cfg *project.WebConfig) *project.Project {
	p := template.Build(t, cfg)
	c.store.SetCurrent(&p)
	c.log.WithProject(p.ID).Info("project_created", map[string]any{"template": string(t)})
	return &p
}

// NewFromCustom replaces the current project with one instantiated from
// a saved custom template.
func (c *Controller) NewFromCustom(ct project.CustomTemplate) *project.Project {
	p := template.FromCustom(ct)
	c.store.SetCurrent(&p)
	c.log.WithProject(p.ID).Info("project_created", map[string]any{"template": "custom:" + ct.ID})
	return &p
}

// Save writes the current project to its known path, or falls through
// to SaveAs when it has never been saved. Returns true only when the
// project actually reached disk.
func (c *Controller) Save(ctx context.Context) bool {
	p := c.store.Current()
	if p == nil {
		return false
	}
	if p.SavedPath == "" {
		return c.SaveAs(ctx)
	}
	return c.writeTo(ctx, p, p.SavedPath, p.Name)
}

// SaveAs asks for a destination and writes the project there. The
// project is renamed after the chosen file name, extension stripped.
// A cancelled dialog changes nothing and returns false.
func (c *Controller) SaveAs(ctx context.Context) bool {
	p := c.store.Current()
	if p == nil {
		return false
	}
	path, ok := c.picker.PickSave(p.Name + FileExt)
	if !ok {
		return false
	}
	return c.writeTo(ctx, p, path, strings.TrimSuffix(filepath.Base(path), FileExt))
}

// SaveTo writes the current project to an explicit destination,
// bypassing the dialog. Hosts that already know the path (CLI flags,
// drag targets) use this instead of SaveAs.
func (c *Controller) SaveTo(ctx context.Context, path string) bool {
	p := c.store.Current()
	if p == nil {
		return false
	}
	return c.writeTo(ctx, p, path, strings.TrimSuffix(filepath.Base(path), FileExt))
}

// writeTo persists p to path under the given name. Name and path are
// committed only after the write succeeds: a failed save must leave the
// project exactly as it was, or the next Save would silently target a
// path the project never reached.
func (c *Controller) writeTo(ctx context.Context, p *project.Project, path, name string) bool {
	prevName, prevPath := p.Name, p.SavedPath
	p.Name, p.SavedPath = name, path
	if err := c.storage.SaveProjectToPath(ctx, p, path); err != nil {
		p.Name, p.SavedPath = prevName, prevPath
		c.log.WithProject(p.ID).Error("save_failed", map[string]any{"path": path}, err)
		return false
	}
	c.store.MarkClean()
	c.recordRecent(ctx, p)
	c.log.WithProject(p.ID).Info("project_saved", map[string]any{"path": path})
	return true
}

// Open asks for a file and loads it into this window. A cancelled
// dialog changes nothing and returns false.
func (c *Controller) Open(ctx context.Context) bool {
	path, ok := c.picker.PickOpen()
	if !ok {
		return false
	}
	return c.OpenFromPath(ctx, path)
}

// OpenFromPath loads a project file into this window and records it in
// the recent list.
func (c *Controller) OpenFromPath(ctx context.Context, path string) bool {
	p, err := c.storage.LoadProjectFromPath(ctx, path)
	if err != nil {
		c.log.Error("open_failed", map[string]any{"path": path}, err)
		return false
	}
	c.store.SetCurrent(p)
	c.recordRecent(ctx, p)
	c.log.WithProject(p.ID).Info("project_opened", map[string]any{"path": path})
	return true
}

// OpenInNewWindow hands a project to a fresh editor window via the temp
// store. Without windowing support the project loads in place instead.
func (c *Controller) OpenInNewWindow(ctx context.Context, p *project.Project) bool {
	if c.windows == nil {
		c.store.SetCurrent(p)
		return true
	}
	id, err := c.storage.SaveTempProject(ctx, p)
	if err != nil {
		c.log.WithProject(p.ID).Error("handoff_failed", nil, err)
		return false
	}
	if err := c.windows.OpenEditor(id); err != nil {
		c.log.WithProject(p.ID).Error("window_open_failed", nil, err)
		return false
	}
	return true
}

// SaveAsTemplate captures the current project's files as a reusable
// custom template.
func (c *Controller) SaveAsTemplate(ctx context.Context, name, icon string) bool {
	p := c.store.Current()
	if p == nil {
		return false
	}
	ct := project.CustomTemplate{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      icon,
		Template:  p.Template,
		WebConfig: p.WebConfig,
		Files:     project.CloneFiles(p.Files),
		CreatedAt: time.Now().UTC(),
	}
	if err := c.storage.SaveCustomTemplate(ctx, ct); err != nil {
		c.log.WithProject(p.ID).Error("template_save_failed", map[string]any{"name": name}, err)
		return false
	}
	c.reloadCatalog(ctx)
	c.log.WithProject(p.ID).Info("template_saved", map[string]any{"name": name})
	return true
}

// DeleteCustomTemplate removes a saved template. Deleting one that no
// longer exists still counts as success.
func (c *Controller) DeleteCustomTemplate(ctx context.Context, id string) bool {
	if err := c.storage.DeleteCustomTemplate(ctx, id); err != nil {
		c.log.Error("template_delete_failed", map[string]any{"id": id}, err)
		return false
	}
	c.reloadCatalog(ctx)
	return true
}

// reloadCatalog refreshes the launcher's template cache after a
// successful template mutation.
func (c *Controller) reloadCatalog(ctx context.Context) {
	if c.catalog == nil {
		return
	}
	if err := c.catalog.Reload(ctx); err != nil {
		c.log.Warn("catalog_reload_failed", nil, err)
	}
}

func (c *Controller) recordRecent(ctx context.Context, p *project.Project) {
	entry := project.RecentProject{
		ID:        p.ID,
		Name:      p.Name,
		Template:  p.Template,
		Path:      p.SavedPath,
		UpdatedAt: time.Now().UTC(),
	}
	if err := c.storage.AddRecentProject(ctx, entry); err != nil {
		// Recency is a convenience; never fail the save over it.
		c.log.WithProject(p.ID).Warn("recent_update_failed", nil, err)
	}
}
