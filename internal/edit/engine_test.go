package edit

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachboard/internal/board"
	"coachboard/internal/geom"
)

func newEngine(t *testing.T) (*Engine, *board.Board) {
	t.Helper()
	b := board.New("test", board.DefaultLimits())
	return NewEngine(b, zerolog.Nop()), b
}

func TestHitEntity_TopmostWins(t *testing.T) {
	e, b := newEngine(t)
	first := b.AddEntity(geom.Pt(100, 100), "A", "", "").ID
	second := b.AddEntity(geom.Pt(100, 100), "B", "", "").ID

	hit := e.HitEntity(geom.Pt(100, 100))
	require.NotNil(t, hit)
	assert.Equal(t, second, hit.ID)
	assert.NotEqual(t, first, hit.ID)
}

func TestHitEntity_Tolerance(t *testing.T) {
	e, b := newEngine(t)
	b.AddEntity(geom.Pt(0, 0), "A", "", "")

	// radius 28 + tolerance 8
	assert.NotNil(t, e.HitEntity(geom.Pt(36, 0)))
	assert.Nil(t, e.HitEntity(geom.Pt(36.5, 0)))
}

func TestHitEntity_SkipsHiddenLayers(t *testing.T) {
	e, b := newEngine(t)
	under := b.AddEntity(geom.Pt(0, 0), "A", "", "base").ID
	b.AddEntity(geom.Pt(0, 0), "B", "", "defense")

	e.Visibility.Set("defense", false)
	hit := e.HitEntity(geom.Pt(0, 0))
	require.NotNil(t, hit)
	assert.Equal(t, under, hit.ID)

	e.Visibility.Set("base", false)
	assert.Nil(t, e.HitEntity(geom.Pt(0, 0)))
}

func TestBegin_SelectDragKeepsGrabOffset(t *testing.T) {
	e, b := newEngine(t)
	p := b.AddEntity(geom.Pt(100, 100), "QB", "", "")
	id := p.ID

	assert.Equal(t, OutcomeDrag, e.Begin(geom.Pt(110, 95)))
	assert.Equal(t, id, b.SelectedID)
	assert.Equal(t, id, e.Dragging())

	e.Continue(geom.Pt(210, 195))
	assert.Equal(t, geom.Pt(200, 200), b.Entity(id).Pos)
	e.End()
	assert.Empty(t, e.Dragging())
}

func TestBegin_DragSnapshotsAndClearsRedo(t *testing.T) {
	e, b := newEngine(t)
	b.Snapshot()
	b.AddEntity(geom.Pt(100, 100), "QB", "", "")
	b.Snapshot()
	b.AddEntity(geom.Pt(300, 300), "WR", "", "")
	require.True(t, e.Undo())
	require.True(t, b.History().CanRedo())
	undos := b.History().UndoLen()

	assert.Equal(t, OutcomeDrag, e.Begin(geom.Pt(100, 100)))
	assert.Equal(t, undos+1, b.History().UndoLen())
	assert.False(t, b.History().CanRedo())
	e.End()
}

func TestBegin_DragSnapshotsOncePerGesture(t *testing.T) {
	e, b := newEngine(t)
	b.AddEntity(geom.Pt(0, 0), "A", "", "")

	e.Begin(geom.Pt(0, 0))
	for i := 1; i <= 20; i++ {
		e.Continue(geom.Pt(float64(i*10), 0))
	}
	e.End()
	assert.Equal(t, 1, b.History().UndoLen())
}

func TestBegin_SelectMissClearsSelection(t *testing.T) {
	e, b := newEngine(t)
	p := b.AddEntity(geom.Pt(0, 0), "A", "", "")
	b.SetSelection(p.ID)

	assert.Equal(t, OutcomeNone, e.Begin(geom.Pt(500, 500)))
	assert.Empty(t, b.SelectedID)
	assert.Len(t, b.Entities, 1)
}

func TestBegin_DropModePlacesStencil(t *testing.T) {
	e, b := newEngine(t)
	e.SetDropMode(true)
	e.SetStencil(board.Stencil{Label: "mlb", Class: board.ClassDefense})

	assert.Equal(t, OutcomePlaced, e.Begin(geom.Pt(40, 50)))
	require.Len(t, b.Entities, 1)
	assert.Equal(t, "MLB", b.Entities[0].Label)
	assert.Equal(t, board.ClassDefense, b.Entities[0].Class)
	assert.Equal(t, geom.Pt(40, 50), b.Entities[0].Pos)
	assert.Equal(t, 1, b.History().UndoLen())

	require.True(t, e.Undo())
	assert.Empty(t, b.Entities)
}

func TestBegin_StrokeFiltersPoints(t *testing.T) {
	e, b := newEngine(t)
	e.SetTool(ToolRoute)

	assert.Equal(t, OutcomeStroke, e.Begin(geom.Pt(0, 0)))
	id := e.Drawing()
	require.NotEmpty(t, id)

	e.Continue(geom.Pt(2, 2))
	e.Continue(geom.Pt(4, 4))
	assert.Len(t, b.Annotation(id).Points, 1)

	e.Continue(geom.Pt(10, 0))
	assert.Len(t, b.Annotation(id).Points, 2)

	e.End()
	e.Continue(geom.Pt(100, 100))
	assert.Len(t, b.Annotation(id).Points, 2)
	assert.Equal(t, 1, b.History().UndoLen())
}

func TestBegin_BlockTool(t *testing.T) {
	e, b := newEngine(t)
	e.SetTool(ToolBlock)
	e.Begin(geom.Pt(0, 0))
	e.End()

	require.Len(t, b.Annotations, 1)
	assert.Equal(t, board.KindBlock, b.Annotations[0].Kind)
	assert.False(t, b.Annotations[0].Renderable(), "tap leaves an inert stroke")
}

func TestBegin_TextPendingThenCommit(t *testing.T) {
	e, b := newEngine(t)
	e.SetTool(ToolText)

	assert.Equal(t, OutcomeTextPending, e.Begin(geom.Pt(20, 30)))
	at, ok := e.PendingText()
	require.True(t, ok)
	assert.Equal(t, geom.Pt(20, 30), at)

	a := e.CommitText("Mike")
	require.NotNil(t, a)
	assert.Equal(t, "Mike", a.Text)
	assert.Equal(t, geom.Pt(20, 30), a.At)
	assert.Len(t, b.Annotations, 1)
	_, ok = e.PendingText()
	assert.False(t, ok)
	assert.Nil(t, e.CommitText("again"))
}

func TestBegin_TextPrompt(t *testing.T) {
	e, b := newEngine(t)
	e.SetTool(ToolText)

	e.Prompt = func(geom.Point) (string, bool) { return "", false }
	assert.Equal(t, OutcomeNone, e.Begin(geom.Pt(0, 0)))
	assert.Empty(t, b.Annotations)
	assert.Equal(t, 0, b.History().UndoLen())

	e.Prompt = func(geom.Point) (string, bool) { return "Sam", true }
	assert.Equal(t, OutcomeText, e.Begin(geom.Pt(0, 0)))
	assert.Len(t, b.Annotations, 1)
	assert.Equal(t, 1, b.History().UndoLen())
}

func TestSetToolClearsSelection(t *testing.T) {
	e, b := newEngine(t)
	p := b.AddEntity(geom.Pt(0, 0), "A", "", "")
	b.SetSelection(p.ID)

	e.SetTool(ToolRoute)
	assert.Empty(t, b.SelectedID)
	assert.Equal(t, "route", e.Tool().String())
	assert.Equal(t, ToolBlock, ParseTool("BLOCK"))
}

func TestDragOfRemovedEntityIsNoop(t *testing.T) {
	e, b := newEngine(t)
	b.AddEntity(geom.Pt(0, 0), "A", "", "")
	e.Begin(geom.Pt(0, 0))

	b.Clear()
	assert.NotPanics(t, func() { e.Continue(geom.Pt(50, 50)) })
	assert.Empty(t, b.Entities)
	assert.Equal(t, 1, b.History().UndoLen(), "only the press snapshots")
}

func TestTapSelectsWithoutHistory(t *testing.T) {
	e, b := newEngine(t)
	b.Snapshot()
	b.AddEntity(geom.Pt(300, 300), "A", "", "")
	require.True(t, e.Undo())
	p := b.AddEntity(geom.Pt(0, 0), "B", "", "")

	assert.Equal(t, OutcomeNone, e.Tap(geom.Pt(0, 0)))
	assert.Equal(t, p.ID, b.SelectedID)
	assert.True(t, b.History().CanRedo())
	assert.Equal(t, 0, b.History().UndoLen())
	assert.Empty(t, e.Dragging())
}

func TestAddEntityThenDragUndoRedo(t *testing.T) {
	e, b := newEngine(t)
	e.SetDropMode(true)
	e.SetStencil(board.Stencil{Label: "QB"})

	require.Equal(t, OutcomePlaced, e.Begin(geom.Pt(100, 100)))
	e.End()
	id := b.Entities[0].ID

	require.Equal(t, OutcomeDrag, e.Begin(geom.Pt(100, 100)))
	e.Continue(geom.Pt(300, 150))
	e.End()
	assert.Equal(t, geom.Pt(300, 150), b.Entity(id).Pos)

	require.True(t, e.Undo())
	assert.Equal(t, geom.Pt(100, 100), b.Entity(id).Pos)

	require.True(t, e.Redo())
	assert.Equal(t, geom.Pt(300, 150), b.Entity(id).Pos)
}

func TestApplyLayout(t *testing.T) {
	e, b := newEngine(t)
	b.AddEntity(geom.Pt(0, 0), "OLD", "", "")
	layout := []board.Entity{{ID: "c", Pos: geom.Pt(600, 350), Label: "C", Radius: 28, Layer: board.DefaultLayer, Class: board.ClassOffense}}

	e.ApplyLayout(layout, nil, false)
	require.Len(t, b.Entities, 1)
	assert.Equal(t, "C", b.Entities[0].Label)

	e.ApplyLayout(layout, nil, true)
	assert.Len(t, b.Entities, 2)

	require.True(t, e.Undo())
	require.True(t, e.Undo())
	require.Len(t, b.Entities, 1)
	assert.Equal(t, "OLD", b.Entities[0].Label)
}

func TestClearAndAddStencilEntity(t *testing.T) {
	e, b := newEngine(t)
	p := e.AddStencilEntity()
	require.NotNil(t, p)
	assert.Equal(t, geom.Pt(600, 350), p.Pos)
	assert.Equal(t, p.ID, b.SelectedID)

	e.Clear()
	assert.Empty(t, b.Entities)
	require.True(t, e.Undo())
	assert.Len(t, b.Entities, 1)
}

func TestScene_FiltersHiddenLayers(t *testing.T) {
	e, b := newEngine(t)
	b.AddEntity(geom.Pt(0, 0), "A", "", "base")
	b.AddEntity(geom.Pt(50, 50), "B", "", "defense")
	b.StartStroke(board.KindRoute, geom.Pt(0, 0), "defense")
	e.Visibility.Toggle("defense")

	s := e.Scene(*geom.NewView(0.5, 3))
	assert.Len(t, s.Entities, 1)
	assert.Empty(t, s.Annotations)
	assert.Equal(t, []board.Layer{"defense"}, s.Hidden)
	assert.Equal(t, []board.Layer{"base", "defense"}, Layers(b))

	lo, hi, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, geom.Pt(-28, -28), lo)
	assert.Equal(t, geom.Pt(28, 28), hi)
}

func TestNilBoardIsSafe(t *testing.T) {
	e := NewEngine(nil, zerolog.Nop())
	assert.Equal(t, OutcomeNone, e.Begin(geom.Pt(0, 0)))
	assert.Nil(t, e.HitEntity(geom.Pt(0, 0)))
	assert.False(t, e.Undo())
	assert.True(t, e.Scene(geom.View{Scale: 1}).Empty())
}
