package board

import (
	"time"

	"github.com/google/uuid"
)

// Record is the persisted form of a board.
type Record struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Entities    []Entity     `json:"players"`
	Annotations []Annotation `json:"strokes"`
	Media       []string     `json:"media,omitempty"`
}

func (b *Board) Record() Record {
	return Record{
		ID:          b.ID,
		Name:        b.Name,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Entities:    cloneEntities(b.Entities),
		Annotations: cloneAnnotations(b.Annotations),
		Media:       append([]string(nil), b.Media...),
	}
}

// FromRecord rebuilds a board with an empty history. Missing ids, layers
// and radii are filled in.
func FromRecord(r Record, limits Limits) *Board {
	b := New(r.Name, limits)
	if r.ID != "" {
		b.ID = r.ID
	}
	if !r.CreatedAt.IsZero() {
		b.CreatedAt = r.CreatedAt
	}
	if !r.UpdatedAt.IsZero() {
		b.UpdatedAt = r.UpdatedAt
	}
	b.Entities = cloneEntities(r.Entities)
	b.Annotations = cloneAnnotations(r.Annotations)
	b.Media = append([]string(nil), r.Media...)
	b.fillDefaults()
	return b
}

func (b *Board) fillDefaults() {
	for i := range b.Entities {
		e := &b.Entities[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Radius <= 0 {
			e.Radius = b.limits.Radius
		}
		if e.Layer == "" {
			e.Layer = DefaultLayer
		}
		if e.Class == "" {
			e.Class = ClassOffense
		}
		e.Label = NormalizeLabel(e.Label, b.limits.MaxLabelLen)
	}
	for i := range b.Annotations {
		a := &b.Annotations[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.Layer == "" {
			a.Layer = DefaultLayer
		}
		if a.Kind == "" {
			a.Kind = KindRoute
		}
	}
}
