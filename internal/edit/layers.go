package edit

import (
	"slices"

	"coachboard/internal/board"
)

// Visibility tracks which layers are shown. Layers never mentioned are
// visible.
type Visibility struct {
	hidden map[board.Layer]bool
}

func (v *Visibility) Visible(l board.Layer) bool {
	return !v.hidden[l]
}

func (v *Visibility) Set(l board.Layer, visible bool) {
	if v.hidden == nil {
		v.hidden = make(map[board.Layer]bool)
	}
	if visible {
		delete(v.hidden, l)
		return
	}
	v.hidden[l] = true
}

func (v *Visibility) Toggle(l board.Layer) bool {
	v.Set(l, !v.Visible(l))
	return v.Visible(l)
}

// Hidden returns the hidden layers in sorted order.
func (v *Visibility) Hidden() []board.Layer {
	out := make([]board.Layer, 0, len(v.hidden))
	for l := range v.hidden {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Layers lists every layer used on b, in first-use order.
func Layers(b *board.Board) []board.Layer {
	var out []board.Layer
	add := func(l board.Layer) {
		if !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	add(board.DefaultLayer)
	for _, e := range b.Entities {
		add(e.Layer)
	}
	for _, a := range b.Annotations {
		add(a.Layer)
	}
	return out
}
