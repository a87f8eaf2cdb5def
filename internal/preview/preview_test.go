package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/codecell/internal/project"
)

func webProject() *project.Project {
	return &project.Project{
		ID:       "prev1",
		Template: project.TypeWeb,
		Files: []project.File{
			{Name: "index.html", Content: "<html></html>", Language: "html"},
			{Name: "style.css", Content: "body {}", Language: "css"},
			{Name: "script.js", Content: "console.log('hi')", Language: "javascript"},
		},
	}
}

func TestStageWritesAllFiles(t *testing.T) {
	p := webProject()
	dir, err := Stage(p)
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	for _, f := range p.Files {
		data, err := os.ReadFile(filepath.Join(dir, f.Name))
		require.NoError(t, err)
		assert.Equal(t, f.Content, string(data))
	}
}

func TestStageIsStablePerProject(t *testing.T) {
	p := webProject()
	dir1, err := Stage(p)
	require.NoError(t, err)
	defer os.RemoveAll(dir1)

	p.Files[0].Content = "<html><body>v2</body></html>"
	dir2, err := Stage(p)
	require.NoError(t, err)

	assert.Equal(t, dir1, dir2)
	data, err := os.ReadFile(filepath.Join(dir2, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "v2")
}

func TestStageSanitizesFileNames(t *testing.T) {
	p := &project.Project{
		ID:       "prev2",
		Template: project.TypeWeb,
		Files:    []project.File{{Name: "../escape.html", Content: "x", Language: "html"}},
	}
	dir, err := Stage(p)
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	_, err = os.Stat(filepath.Join(dir, "escape.html"))
	assert.NoError(t, err)
}

func TestOpenRejectsNonWebProject(t *testing.T) {
	v := New()
	err := v.Open(&project.Project{ID: "x", Template: project.TypePython})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "web projects only")
}

func TestRefreshWithoutOpenIsNoOp(t *testing.T) {
	v := New()
	assert.NoError(t, v.Refresh())
	assert.NoError(t, v.Close())
}
