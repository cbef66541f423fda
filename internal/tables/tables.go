// Package tables provides the table layouts, numbered 1..N in file name
// order. Layouts are YAML or JSON documents decoded into plain maps.
package tables

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-pinball/internal/field"
)

//go:embed data/*.yaml data/*.json
var embedded embed.FS

// Table is one decoded layout.
type Table struct {
	Name   string
	File   string
	Layout field.Layout
}

// Source is an ordered, read-only set of tables.
type Source struct {
	tables []Table
}

// Embedded returns the tables shipped with the binary.
func Embedded() (*Source, error) {
	return load(embedded, "data")
}

// LoadDir reads every .yaml, .yml and .json file in dir.
func LoadDir(dir string) (*Source, error) {
	return load(os.DirFS(dir), ".")
}

func load(fsys fs.FS, dir string) (*Source, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("tables: read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("tables: no tables in %s", dir)
	}

	src := &Source{tables: make([]Table, 0, len(names))}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("tables: read %s: %w", name, err)
		}
		layout, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("tables: %s: %w", name, err)
		}
		src.tables = append(src.tables, Table{
			Name:   layout.String("name", strings.TrimSuffix(name, path.Ext(name))),
			File:   name,
			Layout: layout,
		})
	}
	return src, nil
}

// Decode parses one YAML or JSON layout document.
func Decode(data []byte) (field.Layout, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	m, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("layout is not a mapping")
	}
	layout := field.Layout(m)
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return layout, nil
}

// normalize converts decoder output into string-keyed maps all the way down.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}

// NumberOfLevels returns how many tables there are.
func (s *Source) NumberOfLevels() int {
	return len(s.tables)
}

// Layout returns the layout for a 1-based level.
func (s *Source) Layout(level int) (field.Layout, error) {
	t, err := s.Table(level)
	if err != nil {
		return nil, err
	}
	return t.Layout, nil
}

// Table returns the table for a 1-based level.
func (s *Source) Table(level int) (Table, error) {
	if level < 1 || level > len(s.tables) {
		return Table{}, fmt.Errorf("tables: level %d out of range 1..%d", level, len(s.tables))
	}
	return s.tables[level-1], nil
}

// Name returns the display name of a level, or "" when out of range.
func (s *Source) Name(level int) string {
	t, err := s.Table(level)
	if err != nil {
		return ""
	}
	return t.Name
}
