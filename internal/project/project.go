// Package project defines the core CodeCell entities: projects, their files,
// and the per-window dirty-tracking store.
package project

import "time"

// Type identifies a project template.
type Type string

const (
	TypeWeb        Type = "web"
	TypeNode       Type = "node"
	TypePython     Type = "python"
	TypeRust       Type = "rust"
	TypeJava       Type = "java"
	TypeTypescript Type = "typescript"
)

// Types lists all built-in template types.
var Types = []Type{TypeWeb, TypeNode, TypePython, TypeRust, TypeJava, TypeTypescript}

// Known reports whether t is a built-in template type.
func Known(t Type) bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}

// WebConfig describes the sub-choices of a web project. Kept as an open
// record: only html/css/js and html/css/ts+framework combinations are
// produced today.
type WebConfig struct {
	Markup    string `json:"markup"`
	Styling   string `json:"styling"`
	Script    string `json:"script"`
	Framework string `json:"framework"`
}

// File is a single editable source file inside a project. Order within
// Project.Files is significant: tab order, and for web projects the
// role-based lookup by Language.
type File struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// Project is the unit of work: a set of source files plus metadata.
// SavedPath is never persisted inside the file; it is re-derived from the
// path the project was loaded from, since files can be moved externally.
type Project struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Template  Type       `json:"template"`
	WebConfig *WebConfig `json:"webConfig,omitempty"`
	Files     []File     `json:"files"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	SavedPath string     `json:"-"`
}

// WindowID returns the window identity used to route execution events
// for this project.
func (p *Project) WindowID() string {
	return "editor-" + p.ID
}

// FileByName returns the named file, or nil.
func (p *Project) FileByName(name string) *File {
	for i := range p.Files {
		if p.Files[i].Name == name {
			return &p.Files[i]
		}
	}
	return nil
}

// FileByLanguage returns the first file with the given language, or nil.
// Web projects look up their markup/styling/script roles this way.
func (p *Project) FileByLanguage(lang string) *File {
	for i := range p.Files {
		if p.Files[i].Language == lang {
			return &p.Files[i]
		}
	}
	return nil
}

// MainFile returns the executable unit: by convention the first file.
func (p *Project) MainFile() *File {
	if len(p.Files) == 0 {
		return nil
	}
	return &p.Files[0]
}

// CloneFiles returns a deep copy of a file slice. Custom templates and
// projects built from them must never share backing storage.
func CloneFiles(files []File) []File {
	out := make([]File, len(files))
	copy(out, files)
	return out
}

// RecentProject is the denormalized listing entry kept by the storage
// collaborator, most-recently-used first.
type RecentProject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Template  Type      `json:"template"`
	Path      string    `json:"path"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomTemplate is a user-saved template: a files snapshot captured at
// save time, never regenerated from the template type.
type CustomTemplate struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	Template  Type       `json:"template"`
	WebConfig *WebConfig `json:"webConfig,omitempty"`
	Files     []File     `json:"files"`
	CreatedAt time.Time  `json:"createdAt"`
}
