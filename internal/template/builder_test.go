package template

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/codecell/internal/project"
)

func TestBuildFileFidelity(t *testing.T) {
	tests := []struct {
		template project.Type
		files    []string
		langs    []string
	}{
		{project.TypeWeb, []string{"index.html", "style.css", "script.js"}, []string{"html", "css", "javascript"}},
		{project.TypeNode, []string{"index.js"}, []string{"javascript"}},
		{project.TypePython, []string{"main.py"}, []string{"python"}},
		{project.TypeRust, []string{"main.rs"}, []string{"rust"}},
		{project.TypeJava, []string{"Main.java"}, []string{"java"}},
		{project.TypeTypescript, []string{"index.ts"}, []string{"typescript"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.template), func(t *testing.T) {
			p := Build(tt.template, nil)

			require.Len(t, p.Files, len(tt.files))
			for i, f := range p.Files {
				assert.Equal(t, tt.files[i], f.Name)
				assert.Equal(t, tt.langs[i], f.Language)
				assert.NotEmpty(t, f.Content)
			}
			assert.Equal(t, "Untitled", p.Name)
			assert.NotEmpty(t, p.ID)
			assert.Empty(t, p.SavedPath)
		})
	}
}

func TestBuildUnknownTemplate(t *testing.T) {
	p := Build(project.Type("cobol"), nil)
	assert.Empty(t, p.Files)
	assert.Equal(t, project.Type("cobol"), p.Template)
}

func TestBuildWebConfigDefaults(t *testing.T) {
	p := Build(project.TypeWeb, nil)
	require.NotNil(t, p.WebConfig)
	assert.Equal(t, "html", p.WebConfig.Markup)

	cfg := &project.WebConfig{Markup: "html", Styling: "css", Script: "ts", Framework: "react"}
	p = Build(project.TypeWeb, cfg)
	assert.Equal(t, "react", p.WebConfig.Framework)

	p = Build(project.TypeNode, cfg)
	assert.Nil(t, p.WebConfig, "non-web projects carry no web config")
}

func TestBuildAssignsUniqueIDs(t *testing.T) {
	a := Build(project.TypePython, nil)
	b := Build(project.TypePython, nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestFromCustomCloneIsolation(t *testing.T) {
	ct := project.CustomTemplate{
		ID:       "ct-1",
		Name:     "My Starter",
		Template: project.TypeNode,
		Files:    []project.File{{Name: "index.js", Content: "original", Language: "javascript"}},
	}

	a := FromCustom(ct)
	b := FromCustom(ct)

	a.Files[0].Content = "mutated"

	assert.Equal(t, "original", b.Files[0].Content)
	assert.Equal(t, "original", ct.Files[0].Content)
	assert.NotEqual(t, a.ID, b.ID)
}

// --- Catalog tests ---

type fakeSource struct {
	templates []project.CustomTemplate
	err       error
}

func (f *fakeSource) CustomTemplates(ctx context.Context) ([]project.CustomTemplate, error) {
	return f.templates, f.err
}

func TestCatalogListBuiltinsOnly(t *testing.T) {
	c := NewCatalog(nil)
	require.NoError(t, c.Reload(context.Background()))

	list := c.List()
	require.Len(t, list, 6)
	for _, qt := range list {
		assert.True(t, qt.IsBuiltIn)
	}
}

func TestCatalogCustomSortedFirst(t *testing.T) {
	older := project.CustomTemplate{ID: "old", Name: "Old", CreatedAt: time.Now().Add(-time.Hour)}
	newer := project.CustomTemplate{ID: "new", Name: "New", CreatedAt: time.Now()}
	c := NewCatalog(&fakeSource{templates: []project.CustomTemplate{older, newer}})
	require.NoError(t, c.Reload(context.Background()))

	list := c.List()
	require.Len(t, list, 8)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
	assert.True(t, list[2].IsBuiltIn)
}

func TestCatalogReloadError(t *testing.T) {
	src := &fakeSource{err: errors.New("disk")}
	c := NewCatalog(src)
	assert.Error(t, c.Reload(context.Background()))

	// The cache is left untouched on failure.
	assert.Len(t, c.List(), 6)
}

func TestCatalogInstantiate(t *testing.T) {
	ct := project.CustomTemplate{
		ID:       "ct-1",
		Template: project.TypePython,
		Files:    []project.File{{Name: "main.py", Content: "custom", Language: "python"}},
	}
	c := NewCatalog(&fakeSource{templates: []project.CustomTemplate{ct}})
	require.NoError(t, c.Reload(context.Background()))

	p, ok := c.Instantiate("builtin-python")
	require.True(t, ok)
	assert.Equal(t, "main.py", p.Files[0].Name)
	assert.Contains(t, p.Files[0].Content, "Hello, CodeCell!")

	p, ok = c.Instantiate("ct-1")
	require.True(t, ok)
	assert.Equal(t, "custom", p.Files[0].Content)

	_, ok = c.Instantiate("nope")
	assert.False(t, ok)
}
