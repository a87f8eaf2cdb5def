// Package preview renders web projects in a real browser page. The
// project's files are staged to a temp directory and index.html is
// loaded from there, so relative references between the files resolve
// exactly as they would from a saved export.
package preview

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/joss/codecell/internal/logging"
	"github.com/joss/codecell/internal/project"
)

// Previewer owns one browser page per process. Open replaces the page
// content; Refresh re-stages and reloads after edits.
type Previewer struct {
	log *logging.Logger

	mu      sync.Mutex
	browser *rod.Browser
	page    *rod.Page
	current *project.Project
	dir     string
}

// New creates a previewer. The browser is launched lazily on first Open.
func New() *Previewer {
	return &Previewer{log: logging.New("preview")}
}

// Open stages the project and loads it in the preview page. Only web
// projects can be previewed.
func (v *Previewer) Open(p *project.Project) error {
	if p.Template != project.TypeWeb {
		return fmt.Errorf("preview supports web projects only, not %q", p.Template)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	dir, err := Stage(p)
	if err != nil {
		return err
	}
	v.cleanupDir()
	v.dir = dir
	v.current = p

	if err := v.connect(); err != nil {
		return err
	}

	url := "file://" + filepath.Join(dir, "index.html")
	if err := v.page.Navigate(url); err != nil {
		return fmt.Errorf("navigate preview: %w", err)
	}
	v.log.WithProject(p.ID).Info("preview_opened", map[string]any{"dir": dir})
	return nil
}

// Refresh re-stages the current project and reloads the page. A refresh
// without a prior Open is a no-op.
func (v *Previewer) Refresh() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.page == nil || v.current == nil {
		return nil
	}
	if _, err := Stage(v.current); err != nil {
		return err
	}
	if err := v.page.Reload(); err != nil {
		return fmt.Errorf("reload preview: %w", err)
	}
	return nil
}

// Close shuts the browser down and removes the staging directory.
func (v *Previewer) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.cleanupDir()
	v.current = nil
	v.page = nil
	if v.browser == nil {
		return nil
	}
	b := v.browser
	v.browser = nil
	return b.Close()
}

func (v *Previewer) connect() error {
	if v.page != nil {
		return nil
	}
	url, err := launcher.New().Headless(false).Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		return fmt.Errorf("open preview page: %w", err)
	}
	v.browser = browser
	v.page = page
	return nil
}

func (v *Previewer) cleanupDir() {
	if v.dir != "" {
		os.RemoveAll(v.dir)
		v.dir = ""
	}
}

// Stage writes the project's files into its preview staging directory
// and returns the directory path. The directory is stable per project
// so reloads keep the same URL.
func Stage(p *project.Project) (string, error) {
	dir := filepath.Join(os.TempDir(), "codecell_preview_"+p.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create preview dir: %w", err)
	}
	for _, f := range p.Files {
		path := filepath.Join(dir, filepath.Base(f.Name))
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return "", fmt.Errorf("stage %s: %w", f.Name, err)
		}
	}
	return dir, nil
}
