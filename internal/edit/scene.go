package edit

import (
	"coachboard/internal/board"
	"coachboard/internal/geom"
)

// Scene is the read-only state a renderer draws from. Hidden layers are
// already filtered out.
type Scene struct {
	Name        string
	Entities    []board.Entity
	Annotations []board.Annotation
	SelectedID  string
	View        geom.View
	Hidden      []board.Layer
}

// Scene copies what a renderer needs from the current board.
func (e *Engine) Scene(view geom.View) Scene {
	s := Scene{View: view, Hidden: e.Visibility.Hidden()}
	if e.board == nil {
		return s
	}
	s.Name = e.board.Name
	s.SelectedID = e.board.SelectedID
	content := e.board.Content()
	for _, p := range content.Entities {
		if e.Visibility.Visible(p.Layer) {
			s.Entities = append(s.Entities, p)
		}
	}
	for _, a := range content.Annotations {
		if e.Visibility.Visible(a.Layer) {
			s.Annotations = append(s.Annotations, a)
		}
	}
	return s
}

// Empty reports whether there is nothing to draw.
func (s Scene) Empty() bool {
	return len(s.Entities) == 0 && len(s.Annotations) == 0
}

// Bounds returns the logical bounding box of everything in the scene,
// including player radii. ok is false for an empty scene.
func (s Scene) Bounds() (lo, hi geom.Point, ok bool) {
	grow := func(p geom.Point, r float64) {
		if !ok {
			lo, hi, ok = geom.Pt(p.X-r, p.Y-r), geom.Pt(p.X+r, p.Y+r), true
			return
		}
		lo.X, lo.Y = min(lo.X, p.X-r), min(lo.Y, p.Y-r)
		hi.X, hi.Y = max(hi.X, p.X+r), max(hi.Y, p.Y+r)
	}
	for _, p := range s.Entities {
		grow(p.Pos, p.Radius)
	}
	for _, a := range s.Annotations {
		if a.Kind == board.KindText {
			grow(a.At, 0)
			continue
		}
		for _, pt := range a.Points {
			grow(pt, 0)
		}
	}
	return lo, hi, ok
}
