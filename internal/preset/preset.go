// Package preset loads roadmap templates from JSON files. A preset
// bundles one tag group, its tags, and a tree of todo templates that the
// store copies into a user's own rows on initialization.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"planner/internal/apperr"
	"planner/internal/models"
)

// Tag is a tag template inside a preset.
type Tag struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// TagGroup is the tag group template a preset creates on initialization.
type TagGroup struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// TodoTemplate is one node of a preset's todo tree. TagNames reference
// the preset's tag templates by name; Children nest recursively.
type TodoTemplate struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	TagNames    []string       `json:"tag_names,omitempty"`
	Children    []TodoTemplate `json:"children,omitempty"`
}

// Preset is the root structure of a preset file.
type Preset struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	TagGroup    TagGroup       `json:"tag_group"`
	Tags        []Tag          `json:"tags"`
	Todos       []TodoTemplate `json:"todos"`
}

// Info is the summary returned when listing presets.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	TagCount    int    `json:"tag_count"`
	TodoCount   int    `json:"todo_count"`
}

// InitializeResult reports what a preset instantiation created.
type InitializeResult struct {
	PresetName   string `json:"preset_name"`
	TagGroupID   string `json:"tag_group_id"`
	TagsCreated  int    `json:"tags_created"`
	TodosCreated int    `json:"todos_created"`
}

// Library reads presets from a directory of <name>.json files.
type Library struct {
	dir string
}

// NewLibrary returns a library rooted at dir. The directory may be
// missing; List then reports no presets.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// List returns summaries for every readable preset, optionally filtered
// by category. Files that fail to parse or validate are skipped.
func (l *Library) List(category string) ([]Info, error) {
	entries, err := os.ReadDir(l.dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read presets dir: %w", err)
	}

	infos := []Info{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		p, err := l.load(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		infos = append(infos, Info{
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			TagCount:    len(p.Tags),
			TodoCount:   CountTodos(p.Todos),
		})
	}
	return infos, nil
}

// Get loads a preset by name, the file name without the .json suffix.
func (l *Library) Get(name string) (*Preset, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return nil, apperr.NotFound("preset not found: %s", name)
	}
	path := filepath.Join(l.dir, name+".json")
	if _, err := os.Stat(path); err != nil {
		return nil, apperr.NotFound("preset not found: %s", name)
	}
	return l.load(path)
}

func (l *Library) load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset %s: %w", path, err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}
	return &p, nil
}

func (p *Preset) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("missing name")
	}
	if strings.TrimSpace(p.TagGroup.Name) == "" {
		return fmt.Errorf("missing tag group name")
	}
	if p.TagGroup.Color != "" && !models.ValidColor(p.TagGroup.Color) {
		return fmt.Errorf("tag group color %q is not #RRGGBB", p.TagGroup.Color)
	}
	for _, t := range p.Tags {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("tag with empty name")
		}
		if !models.ValidColor(t.Color) {
			return fmt.Errorf("tag %s color %q is not #RRGGBB", t.Name, t.Color)
		}
	}
	return validateTodos(p.Todos)
}

func validateTodos(todos []TodoTemplate) error {
	for _, t := range todos {
		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("todo with empty title")
		}
		if err := validateTodos(t.Children); err != nil {
			return err
		}
	}
	return nil
}

// CountTodos counts template nodes across the whole tree.
func CountTodos(todos []TodoTemplate) int {
	count := len(todos)
	for _, t := range todos {
		count += CountTodos(t.Children)
	}
	return count
}
