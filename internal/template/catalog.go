package template

import (
	"context"
	"sort"
	"sync"

	"github.com/joss/codecell/internal/project"
)

// QuickTemplate is a named, iconified shortcut in the launcher: either a
// built-in template type or a user-saved custom file set.
type QuickTemplate struct {
	ID        string
	Name      string
	Icon      string
	Type      project.Type
	WebConfig *project.WebConfig
	Files     []project.File
	IsBuiltIn bool
}

// builtins are immutable; the launcher shows them after custom templates.
var builtins = []QuickTemplate{
	{ID: "builtin-web", Name: "HTML/CSS/JS", Icon: "🌐", Type: project.TypeWeb, IsBuiltIn: true},
	{ID: "builtin-node", Name: "Node.js", Icon: "🟢", Type: project.TypeNode, IsBuiltIn: true},
	{ID: "builtin-python", Name: "Python", Icon: "🐍", Type: project.TypePython, IsBuiltIn: true},
	{ID: "builtin-rust", Name: "Rust", Icon: "🦀", Type: project.TypeRust, IsBuiltIn: true},
	{ID: "builtin-java", Name: "Java", Icon: "☕", Type: project.TypeJava, IsBuiltIn: true},
	{ID: "builtin-typescript", Name: "TypeScript", Icon: "🔷", Type: project.TypeTypescript, IsBuiltIn: true},
}

// TemplateSource is the storage surface the catalog reads custom
// templates from.
type TemplateSource interface {
	CustomTemplates(ctx context.Context) ([]project.CustomTemplate, error)
}

// Catalog is the process-wide quick-template cache: built-ins plus custom
// templates loaded from storage. It is read-mostly; Reload refreshes it
// explicitly and staleness across windows is acceptable.
type Catalog struct {
	mu      sync.RWMutex
	source  TemplateSource
	customs []project.CustomTemplate
}

// NewCatalog creates a catalog backed by the given source. A nil source
// yields a built-ins-only catalog.
func NewCatalog(source TemplateSource) *Catalog {
	return &Catalog{source: source}
}

// Reload refreshes the custom template cache from storage.
func (c *Catalog) Reload(ctx context.Context) error {
	if c.source == nil {
		return nil
	}
	customs, err := c.source.CustomTemplates(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(customs, func(i, j int) bool {
		return customs[i].CreatedAt.After(customs[j].CreatedAt)
	})
	c.mu.Lock()
	c.customs = customs
	c.mu.Unlock()
	return nil
}

// List returns quick templates with custom templates sorted before
// built-ins, newest custom first.
func (c *Catalog) List() []QuickTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]QuickTemplate, 0, len(c.customs)+len(builtins))
	for _, ct := range c.customs {
		out = append(out, QuickTemplate{
			ID:        ct.ID,
			Name:      ct.Name,
			Icon:      ct.Icon,
			Type:      ct.Template,
			WebConfig: ct.WebConfig,
			Files:     project.CloneFiles(ct.Files),
		})
	}
	out = append(out, builtins...)
	return out
}

// Custom returns the stored custom template with the given id.
func (c *Catalog) Custom(id string) (project.CustomTemplate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ct := range c.customs {
		if ct.ID == id {
			return ct, true
		}
	}
	return project.CustomTemplate{}, false
}

// Instantiate builds a project from the quick template with the given id.
// Built-ins generate their fixed starter file set; custom templates clone
// their stored files.
func (c *Catalog) Instantiate(id string) (project.Project, bool) {
	for _, b := range builtins {
		if b.ID == id {
			return Build(b.Type, b.WebConfig), true
		}
	}
	if ct, ok := c.Custom(id); ok {
		return FromCustom(ct), true
	}
	return project.Project{}, false
}
