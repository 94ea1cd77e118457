package edit

import (
	"github.com/rs/zerolog"

	"coachboard/internal/board"
	"coachboard/internal/geom"
)

// DefaultHitTolerance is added to a player's radius when hit testing so
// touch input does not need to land exactly inside the circle.
const DefaultHitTolerance = 8.0

// Prompter asks the user for annotation text. ok is false when cancelled.
type Prompter func(at geom.Point) (text string, ok bool)

// Engine applies tool-dependent edits to one board at a time.
type Engine struct {
	board *board.Board

	tool      Tool
	stencil   board.Stencil
	dropMode  bool
	layer     board.Layer
	tolerance float64

	Visibility Visibility
	Prompt     Prompter

	dragID     string
	dragOffset geom.Point
	strokeID   string
	textAt     *geom.Point

	log zerolog.Logger
}

func NewEngine(b *board.Board, log zerolog.Logger) *Engine {
	return &Engine{
		board:     b,
		stencil:   board.Stencil{Label: board.DefaultLabel, Class: board.ClassOffense},
		layer:     board.DefaultLayer,
		tolerance: DefaultHitTolerance,
		log:       log.With().Str("component", "edit").Logger(),
	}
}

func (e *Engine) Board() *board.Board { return e.board }

// SetBoard retargets the engine and drops any gesture in progress.
func (e *Engine) SetBoard(b *board.Board) {
	e.End()
	e.textAt = nil
	e.board = b
}

func (e *Engine) Tool() Tool { return e.tool }

// SetTool switches tools and clears the selection.
func (e *Engine) SetTool(t Tool) {
	e.tool = t
	e.textAt = nil
	if e.board != nil {
		e.board.SetSelection("")
	}
}

func (e *Engine) Stencil() board.Stencil { return e.stencil }

func (e *Engine) SetStencil(s board.Stencil) {
	if s.Class == "" {
		s.Class = board.ClassOffense
	}
	e.stencil = s
}

func (e *Engine) DropMode() bool         { return e.dropMode }
func (e *Engine) SetDropMode(on bool)    { e.dropMode = on }
func (e *Engine) Layer() board.Layer     { return e.layer }
func (e *Engine) SetTolerance(t float64) { e.tolerance = t }

// SetLayer picks the layer new objects are placed on.
func (e *Engine) SetLayer(l board.Layer) {
	if l == "" {
		l = board.DefaultLayer
	}
	e.layer = l
}

// Dragging returns the id of the player being dragged.
func (e *Engine) Dragging() string { return e.dragID }

// Drawing returns the id of the stroke being drawn.
func (e *Engine) Drawing() string { return e.strokeID }

// HitEntity returns the topmost visible player within radius+tolerance of w.
func (e *Engine) HitEntity(w geom.Point) *board.Entity {
	if e.board == nil {
		return nil
	}
	ents := e.board.Entities
	for i := len(ents) - 1; i >= 0; i-- {
		p := &ents[i]
		if !e.Visibility.Visible(p.Layer) {
			continue
		}
		if w.Dist(p.Pos) <= p.Radius+e.tolerance {
			return p
		}
	}
	return nil
}

// Begin dispatches a pointer-down at logical point w according to the
// current tool.
func (e *Engine) Begin(w geom.Point) Outcome {
	if e.board == nil {
		return OutcomeNone
	}
	e.End()

	switch e.tool {
	case ToolSelect:
		if hit := e.HitEntity(w); hit != nil {
			e.board.Snapshot()
			e.board.SetSelection(hit.ID)
			e.dragID = hit.ID
			e.dragOffset = w.Sub(hit.Pos)
			return OutcomeDrag
		}
		if e.dropMode {
			e.board.Snapshot()
			p := e.board.AddEntity(w, e.stencil.Label, e.stencil.Class, e.layer)
			e.board.SetSelection(p.ID)
			e.log.Debug().Str("id", p.ID).Str("label", p.Label).Msg("dropped player")
			return OutcomePlaced
		}
		e.board.SetSelection("")
		return OutcomeNone

	case ToolRoute, ToolBlock:
		kind := board.KindRoute
		if e.tool == ToolBlock {
			kind = board.KindBlock
		}
		e.board.Snapshot()
		s := e.board.StartStroke(kind, w, e.layer)
		e.strokeID = s.ID
		return OutcomeStroke

	case ToolText:
		if e.Prompt != nil {
			text, ok := e.Prompt(w)
			if !ok || e.CommitTextAt(w, text) == nil {
				return OutcomeNone
			}
			return OutcomeText
		}
		at := w
		e.textAt = &at
		return OutcomeTextPending
	}
	return OutcomeNone
}

// Tap handles a press and release that never moved. Tapping a player only
// selects it, so it leaves history alone; anything else behaves like Begin
// followed by End.
func (e *Engine) Tap(w geom.Point) Outcome {
	if e.board == nil {
		return OutcomeNone
	}
	if e.tool == ToolSelect {
		if hit := e.HitEntity(w); hit != nil {
			e.End()
			e.board.SetSelection(hit.ID)
			return OutcomeNone
		}
	}
	out := e.Begin(w)
	e.End()
	return out
}

// Continue handles a pointer-move at w for the gesture started by Begin.
func (e *Engine) Continue(w geom.Point) {
	if e.board == nil {
		return
	}
	switch {
	case e.dragID != "":
		e.board.MoveEntity(e.dragID, w.Sub(e.dragOffset))
	case e.strokeID != "":
		e.board.AddAnnotationPoint(e.strokeID, w)
	}
}

// End finishes the current gesture. Partial strokes stay on the board.
func (e *Engine) End() {
	e.dragID = ""
	e.dragOffset = geom.Point{}
	e.strokeID = ""
}

// PendingText returns the point a text annotation is waiting for.
func (e *Engine) PendingText() (geom.Point, bool) {
	if e.textAt == nil {
		return geom.Point{}, false
	}
	return *e.textAt, true
}

// CommitText places text at the pending point.
func (e *Engine) CommitText(text string) *board.Annotation {
	at, ok := e.PendingText()
	e.textAt = nil
	if !ok {
		return nil
	}
	return e.CommitTextAt(at, text)
}

func (e *Engine) CancelText() {
	e.textAt = nil
}

// CommitTextAt snapshots and adds a text annotation. Empty text is ignored.
func (e *Engine) CommitTextAt(at geom.Point, text string) *board.Annotation {
	if e.board == nil || text == "" {
		return nil
	}
	e.board.Snapshot()
	return e.board.AddTextAnnotation(at, text, e.layer)
}

// AddStencilEntity places a stencil player at the centre of the surface.
func (e *Engine) AddStencilEntity() *board.Entity {
	if e.board == nil {
		return nil
	}
	e.board.Snapshot()
	p := e.board.AddEntity(board.Surface.Scale(0.5), e.stencil.Label, e.stencil.Class, e.layer)
	e.board.SetSelection(p.ID)
	return p
}

// Clear empties the board as one undoable step.
func (e *Engine) Clear() {
	if e.board == nil {
		return
	}
	e.End()
	e.board.Snapshot()
	e.board.Clear()
}

func (e *Engine) Undo() bool {
	if e.board == nil {
		return false
	}
	e.End()
	return e.board.Undo()
}

func (e *Engine) Redo() bool {
	if e.board == nil {
		return false
	}
	e.End()
	return e.board.Redo()
}

// ApplyLayout replaces the board content with a template layout, or merges
// it in when merge is set. Either way it is one undoable step.
func (e *Engine) ApplyLayout(entities []board.Entity, annotations []board.Annotation, merge bool) {
	if e.board == nil {
		return
	}
	e.End()
	e.board.Snapshot()
	if merge {
		e.board.Merge(entities, annotations)
		return
	}
	e.board.ReplaceAll(entities, annotations)
}
