package board

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"coachboard/internal/geom"
	"coachboard/internal/history"
)

// Limits bounds user-supplied values on a board.
type Limits struct {
	Radius          float64
	MaxLabelLen     int
	MaxTextLen      int
	MinStrokeDist   float64
	HistoryCapacity int
}

func DefaultLimits() Limits {
	return Limits{
		Radius:          DefaultRadius,
		MaxLabelLen:     MaxLabelLen,
		MaxTextLen:      MaxTextLen,
		MinStrokeDist:   MinStrokeDistance,
		HistoryCapacity: history.DefaultCapacity,
	}
}

// Board is one named diagram.
type Board struct {
	ID          string
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Entities    []Entity
	Annotations []Annotation
	SelectedID  string
	Media       []string

	limits  Limits
	history *history.History[Snapshot]
}

func New(name string, limits Limits) *Board {
	now := time.Now().UTC()
	return &Board{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		limits:    limits,
		history:   history.New[Snapshot](limits.HistoryCapacity),
	}
}

func (b *Board) Limits() Limits {
	return b.limits
}

func (b *Board) touch() {
	b.UpdatedAt = time.Now().UTC()
}

func (b *Board) Entity(id string) *Entity {
	for i := range b.Entities {
		if b.Entities[i].ID == id {
			return &b.Entities[i]
		}
	}
	return nil
}

func (b *Board) Annotation(id string) *Annotation {
	for i := range b.Annotations {
		if b.Annotations[i].ID == id {
			return &b.Annotations[i]
		}
	}
	return nil
}

// AddEntity places a new player. The label is normalized.
func (b *Board) AddEntity(pos geom.Point, label string, class Class, layer Layer) *Entity {
	if class == "" {
		class = ClassOffense
	}
	if layer == "" {
		layer = DefaultLayer
	}
	b.Entities = append(b.Entities, Entity{
		ID:     uuid.NewString(),
		Pos:    pos,
		Radius: b.limits.Radius,
		Label:  NormalizeLabel(label, b.limits.MaxLabelLen),
		Class:  class,
		Layer:  layer,
	})
	b.touch()
	return &b.Entities[len(b.Entities)-1]
}

// MoveEntity sets a player's position. Unknown ids are ignored.
func (b *Board) MoveEntity(id string, pos geom.Point) bool {
	e := b.Entity(id)
	if e == nil {
		return false
	}
	e.Pos = pos
	b.touch()
	return true
}

// StartStroke creates a polyline seeded with one point.
func (b *Board) StartStroke(kind Kind, at geom.Point, layer Layer) *Annotation {
	if kind != KindBlock {
		kind = KindRoute
	}
	if layer == "" {
		layer = DefaultLayer
	}
	b.Annotations = append(b.Annotations, Annotation{
		ID:     uuid.NewString(),
		Layer:  layer,
		Kind:   kind,
		Points: []geom.Point{at},
	})
	b.touch()
	return &b.Annotations[len(b.Annotations)-1]
}

// AddAnnotationPoint appends p to a polyline when it is farther than the
// minimum stroke distance from the last point.
func (b *Board) AddAnnotationPoint(id string, p geom.Point) bool {
	a := b.Annotation(id)
	if a == nil || !a.IsPolyline() {
		return false
	}
	if n := len(a.Points); n > 0 {
		d := b.limits.MinStrokeDist
		if a.Points[n-1].Dist2(p) <= d*d {
			return false
		}
	}
	a.Points = append(a.Points, p)
	b.touch()
	return true
}

// AddTextAnnotation stores a text label. Empty text is ignored.
func (b *Board) AddTextAnnotation(at geom.Point, text string, layer Layer) *Annotation {
	text = truncate(text, b.limits.MaxTextLen)
	if text == "" {
		return nil
	}
	if layer == "" {
		layer = DefaultLayer
	}
	b.Annotations = append(b.Annotations, Annotation{
		ID:    uuid.NewString(),
		Layer: layer,
		Kind:  KindText,
		At:    at,
		Text:  text,
	})
	b.touch()
	return &b.Annotations[len(b.Annotations)-1]
}

// SetSelection selects an entity, or clears the selection for "" or an
// unknown id.
func (b *Board) SetSelection(id string) {
	if id != "" && b.Entity(id) == nil {
		id = ""
	}
	b.SelectedID = id
}

func (b *Board) Selected() *Entity {
	if b.SelectedID == "" {
		return nil
	}
	return b.Entity(b.SelectedID)
}

func (b *Board) Clear() {
	b.Entities = nil
	b.Annotations = nil
	b.SelectedID = ""
	b.touch()
}

// ReplaceAll swaps in new content, copying the inputs. Missing ids, radii
// and layers are filled in.
func (b *Board) ReplaceAll(entities []Entity, annotations []Annotation) {
	b.Entities = cloneEntities(entities)
	b.Annotations = cloneAnnotations(annotations)
	b.fillDefaults()
	b.SetSelection(b.SelectedID)
	b.touch()
}

// Merge appends content under fresh ids so it cannot collide with what is
// already on the board.
func (b *Board) Merge(entities []Entity, annotations []Annotation) {
	for _, e := range entities {
		e.ID = uuid.NewString()
		b.Entities = append(b.Entities, e)
	}
	for _, a := range cloneAnnotations(annotations) {
		a.ID = uuid.NewString()
		b.Annotations = append(b.Annotations, a)
	}
	b.fillDefaults()
	b.touch()
}

// AttachMedia records an external blob reference.
func (b *Board) AttachMedia(id string) {
	if !slices.Contains(b.Media, id) {
		b.Media = append(b.Media, id)
		b.touch()
	}
}

func (b *Board) DetachMedia(id string) bool {
	i := slices.Index(b.Media, id)
	if i < 0 {
		return false
	}
	b.Media = slices.Delete(b.Media, i, i+1)
	b.touch()
	return true
}
