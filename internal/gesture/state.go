// Package gesture interprets raw pointer streams as drags, strokes, pans and
// pinch zooms.
package gesture

import "coachboard/internal/geom"

// State is the current gesture. Exactly one of the types below.
type State interface {
	Name() string
	gesture()
}

type Idle struct{}

// Dragging moves a player with one contact.
type Dragging struct {
	Contact  int
	EntityID string
}

// DrawingStroke grows a route or block with one contact.
type DrawingStroke struct {
	Contact      int
	AnnotationID string
}

// Panning moves the camera by the contact's displacement since Start.
type Panning struct {
	Contact        int
	Start          geom.Point
	StartTranslate geom.Point
	// Tap is set for touch pans that should act as a select-tool tap when
	// released without moving.
	Tap bool
}

// Pinching zooms with two contacts. Each move scales relative to the
// distance at pinch start and zooms around the current midpoint.
type Pinching struct {
	A, B       int
	StartDist  float64
	StartScale float64
}

func (Idle) Name() string          { return "idle" }
func (Dragging) Name() string      { return "dragging" }
func (DrawingStroke) Name() string { return "drawing" }
func (Panning) Name() string       { return "panning" }
func (Pinching) Name() string      { return "pinching" }

func (Idle) gesture()          {}
func (Dragging) gesture()      {}
func (DrawingStroke) gesture() {}
func (Panning) gesture()       {}
func (Pinching) gesture()      {}

type EventType int

const (
	Down EventType = iota
	Move
	Up
	Cancel
	Wheel
)

type PointerKind int

const (
	Mouse PointerKind = iota
	Touch
	Pen
)

// Event is one raw pointer event in device coordinates.
type Event struct {
	Type EventType
	ID   int
	Kind PointerKind
	Pos  geom.Point
	// Factor is the zoom multiplier for Wheel events.
	Factor float64
}
