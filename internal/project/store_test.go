package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject() *Project {
	return &Project{
		ID:       "p-1",
		Name:     "Untitled",
		Template: TypePython,
		Files: []File{
			{Name: "main.py", Content: "print('hi')\n", Language: "python"},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestSetCurrentResetsDirty(t *testing.T) {
	s := NewStore()
	s.SetCurrent(sampleProject())

	assert.False(t, s.Dirty())
	require.NotNil(t, s.Current())
	assert.Equal(t, "p-1", s.Current().ID)
}

func TestDirtyRoundTrip(t *testing.T) {
	s := NewStore()
	s.SetCurrent(sampleProject())
	original := s.Current().Files[0].Content

	assert.False(t, s.Dirty())

	ok := s.UpdateFile("main.py", "print('changed')\n")
	assert.True(t, ok)
	assert.True(t, s.Dirty())

	// Editing back to the snapshot content makes it clean again.
	s.UpdateFile("main.py", original)
	assert.False(t, s.Dirty())
}

func TestUpdateFileRecomputesAcrossAllFiles(t *testing.T) {
	s := NewStore()
	p := sampleProject()
	p.Files = append(p.Files, File{Name: "util.py", Content: "x = 1\n", Language: "python"})
	s.SetCurrent(p)

	s.UpdateFile("util.py", "x = 2\n")
	require.True(t, s.Dirty())

	// Touching an unrelated file must not mask util.py's change.
	s.UpdateFile("main.py", "print('hi')\n")
	assert.True(t, s.Dirty())

	s.UpdateFile("util.py", "x = 1\n")
	assert.False(t, s.Dirty())
}

func TestUpdateFileNoOps(t *testing.T) {
	s := NewStore()
	assert.False(t, s.UpdateFile("main.py", "x"), "no project loaded")

	s.SetCurrent(sampleProject())
	assert.False(t, s.UpdateFile("missing.py", "x"), "unknown file")
	assert.False(t, s.Dirty())
}

func TestUpdateFileBumpsUpdatedAt(t *testing.T) {
	s := NewStore()
	p := sampleProject()
	p.UpdatedAt = time.Now().Add(-time.Hour)
	before := p.UpdatedAt
	s.SetCurrent(p)

	s.UpdateFile("main.py", "pass\n")
	assert.True(t, s.Current().UpdatedAt.After(before))
}

func TestMarkCleanIdempotent(t *testing.T) {
	s := NewStore()
	s.SetCurrent(sampleProject())
	s.UpdateFile("main.py", "print('edited')\n")
	require.True(t, s.Dirty())

	s.MarkClean()
	assert.False(t, s.Dirty())
	first := s.LastSavedAt()
	assert.False(t, first.IsZero())

	assert.NotPanics(t, func() { s.MarkClean() })
	assert.False(t, s.Dirty())
}

func TestSetCurrentNilEmptiesSnapshot(t *testing.T) {
	s := NewStore()
	s.SetCurrent(sampleProject())
	s.UpdateFile("main.py", "edited")

	s.SetCurrent(nil)
	assert.Nil(t, s.Current())
	assert.False(t, s.Dirty())
}

func TestCloneFilesIsolation(t *testing.T) {
	src := []File{{Name: "a.js", Content: "1", Language: "javascript"}}
	dst := CloneFiles(src)
	dst[0].Content = "2"

	assert.Equal(t, "1", src[0].Content)
}

func TestWindowID(t *testing.T) {
	p := sampleProject()
	assert.Equal(t, "editor-p-1", p.WindowID())
}

func TestFileLookups(t *testing.T) {
	p := &Project{
		Template: TypeWeb,
		Files: []File{
			{Name: "index.html", Language: "html"},
			{Name: "style.css", Language: "css"},
			{Name: "script.js", Language: "javascript"},
		},
	}

	require.NotNil(t, p.FileByLanguage("css"))
	assert.Equal(t, "style.css", p.FileByLanguage("css").Name)
	assert.Nil(t, p.FileByLanguage("rust"))
	assert.Equal(t, "index.html", p.MainFile().Name)

	empty := &Project{}
	assert.Nil(t, empty.MainFile())
}
