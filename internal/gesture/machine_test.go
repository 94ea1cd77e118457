package gesture

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachboard/internal/board"
	"coachboard/internal/edit"
	"coachboard/internal/geom"
)

type fixture struct {
	m      *Machine
	view   *geom.View
	engine *edit.Engine
	board  *board.Board
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	b := board.New("test", board.DefaultLimits())
	e := edit.NewEngine(b, zerolog.Nop())
	v := geom.NewView(0.25, 4)
	return fixture{m: New(v, e, zerolog.Nop()), view: v, engine: e, board: b}
}

func down(id int, kind PointerKind, x, y float64) Event {
	return Event{Type: Down, ID: id, Kind: kind, Pos: geom.Pt(x, y)}
}

func move(id int, x, y float64) Event {
	return Event{Type: Move, ID: id, Pos: geom.Pt(x, y)}
}

func up(id int, x, y float64) Event {
	return Event{Type: Up, ID: id, Pos: geom.Pt(x, y)}
}

func TestMouseDragMovesPlayer(t *testing.T) {
	f := newFixture(t)
	p := f.board.AddEntity(geom.Pt(100, 100), "QB", "", "")
	id := p.ID

	s := f.m.Handle(down(1, Mouse, 100, 100))
	require.IsType(t, Dragging{}, s)
	assert.Equal(t, id, s.(Dragging).EntityID)
	assert.True(t, f.m.Busy())

	f.m.Handle(move(1, 300, 150))
	assert.Equal(t, geom.Pt(300, 150), f.board.Entity(id).Pos)

	assert.IsType(t, Idle{}, f.m.Handle(up(1, 300, 150)))
	assert.Empty(t, f.engine.Dragging())
}

func TestDragHonoursView(t *testing.T) {
	f := newFixture(t)
	p := f.board.AddEntity(geom.Pt(100, 100), "QB", "", "")
	f.view.Scale = 2
	f.view.Translate = geom.Pt(50, 0)

	// logical (100,100) is at device (250,200)
	require.IsType(t, Dragging{}, f.m.Handle(down(1, Mouse, 250, 200)))
	f.m.Handle(move(1, 270, 220))
	assert.Equal(t, geom.Pt(110, 110), f.board.Entity(p.ID).Pos)
}

func TestDrawStroke(t *testing.T) {
	f := newFixture(t)
	f.engine.SetTool(edit.ToolRoute)

	s := f.m.Handle(down(1, Pen, 0, 0))
	require.IsType(t, DrawingStroke{}, s)
	id := s.(DrawingStroke).AnnotationID

	f.m.Handle(move(1, 3, 3))
	f.m.Handle(move(1, 20, 0))
	f.m.Handle(move(1, 40, 0))
	f.m.Handle(up(1, 40, 0))

	assert.Len(t, f.board.Annotation(id).Points, 3)
	assert.IsType(t, Idle{}, f.m.State())
	assert.Equal(t, 1, f.board.History().UndoLen())
}

func TestTouchPansInSelectTool(t *testing.T) {
	f := newFixture(t)
	p := f.board.AddEntity(geom.Pt(100, 100), "QB", "", "")

	require.IsType(t, Panning{}, f.m.Handle(down(7, Touch, 100, 100)))
	f.m.Handle(move(7, 130, 80))
	assert.Equal(t, geom.Pt(30, -20), f.view.Translate)
	assert.Equal(t, geom.Pt(100, 100), f.board.Entity(p.ID).Pos, "one finger pans instead of moving players")

	f.m.Handle(up(7, 130, 80))
	assert.IsType(t, Idle{}, f.m.State())
	assert.Equal(t, geom.Pt(30, -20), f.view.Translate)
}

func TestTouchTapSelects(t *testing.T) {
	f := newFixture(t)
	p := f.board.AddEntity(geom.Pt(100, 100), "QB", "", "")

	f.m.Handle(down(7, Touch, 100, 100))
	f.m.Handle(move(7, 103, 102))
	f.m.Handle(up(7, 103, 102))

	assert.Equal(t, p.ID, f.board.SelectedID)
	assert.Equal(t, geom.Point{}, f.view.Translate)
	assert.Equal(t, 0, f.board.History().UndoLen())
}

func TestTouchDrawsWithRouteTool(t *testing.T) {
	f := newFixture(t)
	f.engine.SetTool(edit.ToolBlock)
	assert.IsType(t, DrawingStroke{}, f.m.Handle(down(3, Touch, 10, 10)))
}

func TestPanModifierOverridesTool(t *testing.T) {
	f := newFixture(t)
	f.engine.SetTool(edit.ToolRoute)
	f.m.SetPanModifier(true)

	require.IsType(t, Panning{}, f.m.Handle(down(1, Mouse, 0, 0)))
	f.m.Handle(move(1, -40, 25))
	f.m.Handle(up(1, -40, 25))

	assert.Equal(t, geom.Pt(-40, 25), f.view.Translate)
	assert.Empty(t, f.board.Annotations)
}

func TestPinchZoomKeepsMidpointAnchor(t *testing.T) {
	f := newFixture(t)
	anchor := geom.Pt(500, 500)

	f.m.Handle(down(1, Touch, 450, 500))
	s := f.m.Handle(down(2, Touch, 550, 500))
	require.IsType(t, Pinching{}, s)
	assert.Equal(t, 100.0, s.(Pinching).StartDist)
	assert.Equal(t, 1.0, s.(Pinching).StartScale)

	f.m.Handle(move(1, 400, 500))
	assert.InDelta(t, 1.5, f.view.Scale, 1e-9)
	before := f.view.ToLogical(anchor)
	f.m.Handle(move(2, 600, 500))

	assert.InDelta(t, 2.0, f.view.Scale, 1e-9)
	after := f.view.ToLogical(anchor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestPinchZoomsAroundCurrentMidpoint(t *testing.T) {
	f := newFixture(t)
	f.m.Handle(down(1, Touch, 100, 100))
	f.m.Handle(down(2, Touch, 200, 100))

	f.m.Handle(move(1, 100, 300))
	mid := geom.Pt(150, 300)
	before := f.view.ToLogical(mid)
	f.m.Handle(move(2, 200, 300))

	assert.InDelta(t, 1.0, f.view.Scale, 1e-9)
	after := f.view.ToLogical(mid)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestPinchClampsScale(t *testing.T) {
	f := newFixture(t)
	f.m.Handle(down(1, Touch, 0, 0))
	f.m.Handle(down(2, Touch, 10, 0))
	f.m.Handle(move(2, 1000, 0))
	assert.Equal(t, 4.0, f.view.Scale)
}

func TestSecondContactDuringDragStartsPinch(t *testing.T) {
	f := newFixture(t)
	p := f.board.AddEntity(geom.Pt(100, 100), "QB", "", "")

	require.IsType(t, Dragging{}, f.m.Handle(down(1, Mouse, 100, 100)))
	f.m.Handle(move(1, 120, 100))
	require.IsType(t, Pinching{}, f.m.Handle(down(2, Touch, 300, 100)))
	assert.Empty(t, f.engine.Dragging())

	// moving contact 1 now zooms instead of dragging
	f.m.Handle(move(1, 0, 100))
	assert.Equal(t, geom.Pt(120, 100), f.board.Entity(p.ID).Pos)
}

func TestSecondContactIgnoredWhileDrawing(t *testing.T) {
	f := newFixture(t)
	f.engine.SetTool(edit.ToolRoute)
	f.m.Handle(down(1, Touch, 0, 0))
	assert.IsType(t, DrawingStroke{}, f.m.Handle(down(2, Touch, 100, 100)))
	assert.Equal(t, 1.0, f.view.Scale)
}

func TestLiftingOnePinchContactGoesIdle(t *testing.T) {
	f := newFixture(t)
	p := f.board.AddEntity(geom.Pt(100, 100), "QB", "", "")

	f.m.Handle(down(1, Touch, 100, 100))
	f.m.Handle(down(2, Touch, 200, 100))
	assert.IsType(t, Idle{}, f.m.Handle(up(2, 200, 100)))
	assert.Equal(t, 1, f.m.Contacts())

	// the remaining finger neither pans nor drags
	translate := f.view.Translate
	f.m.Handle(move(1, 400, 400))
	assert.Equal(t, translate, f.view.Translate)
	assert.Equal(t, geom.Pt(100, 100), f.board.Entity(p.ID).Pos)

	f.m.Handle(up(1, 400, 400))
	assert.Equal(t, 0, f.m.Contacts())
	assert.IsType(t, Idle{}, f.m.State())
}

func TestCancelKeepsPartialStroke(t *testing.T) {
	f := newFixture(t)
	f.engine.SetTool(edit.ToolRoute)
	f.m.Handle(down(1, Mouse, 0, 0))
	f.m.Handle(move(1, 50, 0))

	assert.IsType(t, Idle{}, f.m.Handle(Event{Type: Cancel}))
	assert.Empty(t, f.engine.Drawing())
	assert.Equal(t, 0, f.m.Contacts())
	require.Len(t, f.board.Annotations, 1)
	assert.Len(t, f.board.Annotations[0].Points, 2)

	// later moves do nothing
	f.m.Handle(move(1, 100, 0))
	assert.Len(t, f.board.Annotations[0].Points, 2)
}

func TestWheelZoomsAroundPointer(t *testing.T) {
	f := newFixture(t)
	anchor := geom.Pt(300, 200)
	before := f.view.ToLogical(anchor)

	f.m.Handle(Event{Type: Wheel, Pos: anchor, Factor: 1.25})
	assert.InDelta(t, 1.25, f.view.Scale, 1e-9)
	after := f.view.ToLogical(anchor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestSetViewDropsGesture(t *testing.T) {
	f := newFixture(t)
	f.engine.SetTool(edit.ToolRoute)
	f.m.Handle(down(1, Mouse, 0, 0))
	require.True(t, f.m.Busy())

	other := geom.NewView(0.5, 3)
	f.m.SetView(other)
	assert.False(t, f.m.Busy())
	assert.Same(t, other, f.m.View())
}

func TestUnknownContactEventsIgnored(t *testing.T) {
	f := newFixture(t)
	assert.IsType(t, Idle{}, f.m.Handle(move(9, 10, 10)))
	assert.IsType(t, Idle{}, f.m.Handle(up(9, 10, 10)))
}
