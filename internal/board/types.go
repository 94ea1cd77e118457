// Package board is the in-memory document model: players, strokes and the
// per-board undo history.
package board

import (
	"strings"
	"unicode/utf8"

	"coachboard/internal/geom"
)

const (
	DefaultRadius     = 28.0
	DefaultLabel      = "X"
	MaxLabelLen       = 4
	MaxTextLen        = 40
	MinStrokeDistance = 6.0
)

const DefaultLayer Layer = "base"

// Surface is the logical size of the field every board is drawn on.
var Surface = geom.Pt(1200, 700)

// Class is the side a player belongs to.
type Class string

const (
	ClassOffense Class = "O"
	ClassDefense Class = "D"
	ClassSpecial Class = "S"
)

// ParseClass maps user input onto a Class, defaulting to offense.
func ParseClass(s string) Class {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "D", "DEF", "DEFENSE":
		return ClassDefense
	case "S", "SPECIAL", "ST":
		return ClassSpecial
	default:
		return ClassOffense
	}
}

// Layer tags objects into visibility groups.
type Layer string

type Kind string

const (
	KindRoute Kind = "route"
	KindBlock Kind = "block"
	KindText  Kind = "text"
)

// Entity is a player on the field.
type Entity struct {
	ID     string     `json:"id" yaml:"id,omitempty"`
	Pos    geom.Point `json:"pos" yaml:"pos"`
	Radius float64    `json:"r" yaml:"r,omitempty"`
	Label  string     `json:"label" yaml:"label"`
	Class  Class      `json:"side" yaml:"side"`
	Layer  Layer      `json:"layer" yaml:"layer,omitempty"`
}

// Annotation is either a polyline (route or block) or a text label.
type Annotation struct {
	ID     string       `json:"id" yaml:"id,omitempty"`
	Layer  Layer        `json:"layer" yaml:"layer,omitempty"`
	Kind   Kind         `json:"kind" yaml:"kind"`
	Points []geom.Point `json:"points,omitempty" yaml:"points,omitempty"`
	At     geom.Point   `json:"at,omitempty" yaml:"at,omitempty"`
	Text   string       `json:"text,omitempty" yaml:"text,omitempty"`
}

func (a *Annotation) IsPolyline() bool {
	return a.Kind == KindRoute || a.Kind == KindBlock
}

// Renderable reports whether the annotation has anything to draw. Polylines
// need at least two points; shorter ones stay stored but inert.
func (a *Annotation) Renderable() bool {
	if a.Kind == KindText {
		return a.Text != ""
	}
	return len(a.Points) >= 2
}

// Stencil is a preset label and class used when dropping players.
type Stencil struct {
	Label string `json:"label" yaml:"label"`
	Class Class  `json:"side" yaml:"side"`
}

// NormalizeLabel uppercases and truncates a player label, falling back to
// DefaultLabel when empty.
func NormalizeLabel(s string, max int) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultLabel
	}
	return truncate(s, max)
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
