package board

import (
	"slices"

	"coachboard/internal/history"
)

// Snapshot is a deep copy of a board's content. Selection and view state are
// not part of it.
type Snapshot struct {
	Entities    []Entity
	Annotations []Annotation
}

func (b *Board) capture() Snapshot {
	return Snapshot{
		Entities:    cloneEntities(b.Entities),
		Annotations: cloneAnnotations(b.Annotations),
	}
}

func (b *Board) restore(s Snapshot) {
	b.Entities = s.Entities
	b.Annotations = s.Annotations
	b.SelectedID = ""
	b.touch()
}

// Snapshot records the current content so the next mutation can be undone.
func (b *Board) Snapshot() {
	b.history.Record(b.capture())
}

// Undo restores the most recent snapshot. It returns false when there is
// nothing to undo.
func (b *Board) Undo() bool {
	prev, ok := b.history.Undo(b.capture())
	if !ok {
		return false
	}
	b.restore(prev)
	return true
}

func (b *Board) Redo() bool {
	next, ok := b.history.Redo(b.capture())
	if !ok {
		return false
	}
	b.restore(next)
	return true
}

func (b *Board) History() *history.History[Snapshot] {
	return b.history
}

// Content returns a copy of the board's current content.
func (b *Board) Content() Snapshot {
	return b.capture()
}

func cloneEntities(in []Entity) []Entity {
	return slices.Clone(in)
}

func cloneAnnotations(in []Annotation) []Annotation {
	if in == nil {
		return nil
	}
	out := make([]Annotation, len(in))
	for i, a := range in {
		a.Points = slices.Clone(a.Points)
		out[i] = a
	}
	return out
}
