package workspace

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachboard/internal/board"
	"coachboard/internal/edit"
	"coachboard/internal/geom"
	"coachboard/internal/gesture"
	"coachboard/internal/registry"
	"coachboard/internal/store"
	"coachboard/internal/template"
)

func newWorkspace(t *testing.T) (*Workspace, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	reg := registry.New(registry.Options{KV: mem, Blobs: mem.BlobStore(), Log: zerolog.Nop()})
	return New(Options{Registry: reg, MinScale: 0.5, MaxScale: 3, Log: zerolog.Nop()}), mem
}

func mouse(typ gesture.EventType, x, y float64) gesture.Event {
	return gesture.Event{Type: typ, ID: 1, Kind: gesture.Mouse, Pos: geom.Pt(x, y)}
}

func TestSwitchBoard_RefusedMidGesture(t *testing.T) {
	w, _ := newWorkspace(t)
	first := w.Board()
	p := first.AddEntity(geom.Pt(100, 100), "QB", board.ClassOffense, "")
	second, err := w.NewBoard("Defense")
	require.NoError(t, err)
	require.NoError(t, w.SwitchBoard(first.ID))

	w.Handle(mouse(gesture.Down, 100, 100))
	w.Handle(mouse(gesture.Move, 150, 100))
	assert.ErrorIs(t, w.SwitchBoard(second.ID), ErrGestureActive)
	assert.ErrorIs(t, w.NextBoard(), ErrGestureActive)

	w.Handle(mouse(gesture.Up, 150, 100))
	require.NoError(t, w.SwitchBoard(second.ID))
	assert.Same(t, second, w.Engine().Board())
	assert.Equal(t, geom.Pt(150, 100), first.Entity(p.ID).Pos)
}

func TestViewsArePerBoard(t *testing.T) {
	w, _ := newWorkspace(t)
	first := w.Board()
	w.Zoom(geom.Pt(0, 0), 2)
	assert.Equal(t, 2.0, w.View().Scale)

	_, err := w.NewBoard("")
	require.NoError(t, err)
	assert.Equal(t, 1.0, w.View().Scale)
	assert.Same(t, w.View(), w.Machine().View())

	require.NoError(t, w.SwitchBoard(first.ID))
	assert.Equal(t, 2.0, w.View().Scale)
	assert.Same(t, w.View(), w.Machine().View())
}

func TestZoomClampsToConfiguredRange(t *testing.T) {
	w, _ := newWorkspace(t)
	w.Zoom(geom.Pt(0, 0), 10)
	assert.Equal(t, 3.0, w.View().Scale)
	w.ResetView()
	assert.Equal(t, 1.0, w.View().Scale)
}

func TestZoomIgnoredWhileDrawing(t *testing.T) {
	w, _ := newWorkspace(t)
	w.Engine().SetTool(edit.ToolRoute)
	w.Handle(mouse(gesture.Down, 10, 10))
	w.Zoom(geom.Pt(0, 0), 2)
	w.Pan(geom.Pt(5, 5))
	assert.Equal(t, 1.0, w.View().Scale)
	assert.Equal(t, geom.Point{}, w.View().Translate)
}

func TestHandle_SavesAfterGesture(t *testing.T) {
	ctx := context.Background()
	w, mem := newWorkspace(t)
	w.Engine().SetTool(edit.ToolRoute)

	w.Handle(mouse(gesture.Down, 10, 10))
	w.Handle(mouse(gesture.Move, 60, 10))
	w.Flush()
	_, err := mem.Get(ctx, registry.StorageKey)
	assert.ErrorIs(t, err, store.ErrNotFound, "nothing is written mid-gesture")

	w.Handle(mouse(gesture.Up, 60, 10))
	w.Flush()

	loaded := registry.New(registry.Options{KV: mem, Log: zerolog.Nop()})
	require.NoError(t, loaded.Load(ctx))
	require.Len(t, loaded.Current().Annotations, 1)
	assert.Len(t, loaded.Current().Annotations[0].Points, 2)
}

func TestUndoRedo(t *testing.T) {
	w, _ := newWorkspace(t)
	w.Engine().SetDropMode(true)
	w.Handle(mouse(gesture.Down, 300, 300))
	w.Handle(mouse(gesture.Up, 300, 300))
	require.Len(t, w.Board().Entities, 1)

	assert.True(t, w.Undo())
	assert.Empty(t, w.Board().Entities)
	assert.True(t, w.Redo())
	assert.Len(t, w.Board().Entities, 1)
	assert.False(t, w.Redo())
}

func TestApplyTemplate(t *testing.T) {
	w, _ := newWorkspace(t)
	w.AddStencilEntity()

	require.NoError(t, w.ApplyTemplate("i-formation", false))
	assert.Len(t, w.Board().Entities, 11)

	require.NoError(t, w.ApplyTemplate("4-3-defense", true))
	assert.Len(t, w.Board().Entities, 22)

	assert.ErrorIs(t, w.ApplyTemplate("wishbone", false), template.ErrUnknown)

	require.True(t, w.Undo())
	require.True(t, w.Undo())
	assert.Len(t, w.Board().Entities, 1)
}

func TestCopyPasteLayout(t *testing.T) {
	w, _ := newWorkspace(t)
	w.Board().AddEntity(geom.Pt(1, 1), "WR", "", "")
	data, err := w.CopyLayout()
	require.NoError(t, err)

	_, err = w.NewBoard("")
	require.NoError(t, err)
	require.NoError(t, w.PasteLayout(data))
	require.Len(t, w.Board().Entities, 1)
	assert.Equal(t, "WR", w.Board().Entities[0].Label)

	assert.Error(t, w.PasteLayout([]byte("not a layout")))
	assert.Len(t, w.Board().Entities, 1)
}

func TestCommitText(t *testing.T) {
	w, _ := newWorkspace(t)
	w.Engine().SetTool(edit.ToolText)
	w.Handle(mouse(gesture.Down, 40, 40))
	w.Handle(mouse(gesture.Up, 40, 40))

	at, ok := w.Engine().PendingText()
	require.True(t, ok)
	assert.Equal(t, geom.Pt(40, 40), at)

	a := w.CommitText("Hot read")
	require.NotNil(t, a)
	assert.Equal(t, board.KindText, a.Kind)
}

func TestLayers(t *testing.T) {
	w, _ := newWorkspace(t)
	w.Engine().SetLayer("motion")
	w.AddStencilEntity()
	assert.Equal(t, []board.Layer{board.DefaultLayer, "motion"}, w.Layers())

	assert.False(t, w.ToggleLayer("motion"))
	assert.Empty(t, w.Scene().Entities)
	assert.True(t, w.ToggleLayer("motion"))
	assert.Len(t, w.Scene().Entities, 1)
}

func TestBoardLifecycle(t *testing.T) {
	ctx := context.Background()
	w, mem := newWorkspace(t)
	first := w.Board()
	require.NoError(t, w.RenameBoard("Install"))
	dup, err := w.DuplicateBoard()
	require.NoError(t, err)
	assert.Equal(t, "Install copy", dup.Name)
	assert.Same(t, dup, w.Engine().Board())

	require.NoError(t, w.DeleteBoard(ctx))
	assert.Same(t, first, w.Board())
	assert.Same(t, first, w.Engine().Board())
	assert.NotContains(t, w.views, dup.ID)

	w.Flush()
	other := New(Options{Registry: registry.New(registry.Options{KV: mem, Log: zerolog.Nop()}), Log: zerolog.Nop()})
	require.NoError(t, other.Load(ctx))
	assert.Equal(t, "Install", other.Board().Name)
	assert.Same(t, other.Board(), other.Engine().Board())
}

func TestAttachMedia(t *testing.T) {
	ctx := context.Background()
	w, _ := newWorkspace(t)
	id, err := w.AttachMedia(ctx, []byte("clip"))
	require.NoError(t, err)
	assert.Equal(t, []string{id}, w.Board().Media)

	data, err := w.Registry().Media(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("clip"), data)
}

func TestAddPlanItem(t *testing.T) {
	w, _ := newWorkspace(t)
	require.NoError(t, w.AddPlanItem("walkthrough", 12))
	w.Flush()

	plan := w.Registry().Plan()
	require.Len(t, plan, 1)
	assert.Equal(t, w.Board().ID, plan[0].BoardID)
	assert.Equal(t, 12, plan[0].Minutes)
}
