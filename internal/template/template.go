// Package template provides named layouts that can replace or merge into a
// board. Built-ins are embedded; user layouts are parsed from YAML or JSON.
package template

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"coachboard/internal/board"
)

//go:embed layouts/*.yaml
var layoutsFS embed.FS

var ErrUnknown = errors.New("unknown template")

// Template is a full {players, strokes} layout.
type Template struct {
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Entities    []board.Entity     `json:"players" yaml:"players"`
	Annotations []board.Annotation `json:"strokes,omitempty" yaml:"strokes,omitempty"`
}

// Parse reads a layout from YAML or JSON. The result must contain at least
// one player or stroke.
func Parse(data []byte) (Template, error) {
	var t Template
	unmarshal := yaml.Unmarshal
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("parse layout: %w", err)
	}
	if len(t.Entities) == 0 && len(t.Annotations) == 0 {
		return Template{}, errors.New("parse layout: no players or strokes")
	}
	for i := range t.Annotations {
		if t.Annotations[i].Kind == "" {
			t.Annotations[i].Kind = board.KindRoute
		}
	}
	return t, nil
}

// FromBoard captures a board's current content as a template.
func FromBoard(b *board.Board) Template {
	c := b.Content()
	return Template{Name: b.Name, Entities: c.Entities, Annotations: c.Annotations}
}

// JSON encodes the template for the clipboard.
func (t Template) JSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// YAML encodes the template in the on-disk layout format.
func (t Template) YAML() ([]byte, error) {
	return yaml.Marshal(t)
}

// List returns the built-in templates sorted by name.
func List() ([]Template, error) {
	entries, err := layoutsFS.ReadDir("layouts")
	if err != nil {
		return nil, fmt.Errorf("read layouts: %w", err)
	}
	out := make([]Template, 0, len(entries))
	for _, e := range entries {
		t, err := load(e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Template) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Names lists built-in template names.
func Names() []string {
	ts, err := List()
	if err != nil {
		return nil
	}
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}

// Get returns the built-in template with the given name.
func Get(name string) (Template, error) {
	ts, err := List()
	if err != nil {
		return Template{}, err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, t := range ts {
		if t.Name == want {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %s", ErrUnknown, name)
}

func load(file string) (Template, error) {
	data, err := layoutsFS.ReadFile(path.Join("layouts", file))
	if err != nil {
		return Template{}, fmt.Errorf("read layout %s: %w", file, err)
	}
	t, err := Parse(data)
	if err != nil {
		return Template{}, fmt.Errorf("%s: %w", file, err)
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(file, path.Ext(file))
	}
	return t, nil
}
