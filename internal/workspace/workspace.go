// Package workspace is the application context shared by the front ends: the
// board registry, one view per board, and the edit engine and gesture
// machine bound to the current board.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"coachboard/internal/board"
	"coachboard/internal/edit"
	"coachboard/internal/geom"
	"coachboard/internal/gesture"
	"coachboard/internal/registry"
	"coachboard/internal/template"
)

// ErrGestureActive is returned when switching boards mid-drag, mid-draw or
// mid-pinch.
var ErrGestureActive = errors.New("finish the current gesture first")

type Options struct {
	Registry  *registry.Registry
	MinScale  float64
	MaxScale  float64
	Tolerance float64
	Log       zerolog.Logger
}

type Workspace struct {
	reg     *registry.Registry
	views   map[string]*geom.View
	engine  *edit.Engine
	machine *gesture.Machine

	minScale, maxScale float64
	saved              map[string]time.Time

	log zerolog.Logger
}

func New(opts Options) *Workspace {
	reg := opts.Registry
	if reg == nil {
		reg = registry.New(registry.Options{Log: opts.Log})
	}
	w := &Workspace{
		reg:      reg,
		views:    make(map[string]*geom.View),
		minScale: opts.MinScale,
		maxScale: opts.MaxScale,
		saved:    make(map[string]time.Time),
		log:      opts.Log.With().Str("component", "workspace").Logger(),
	}
	b := reg.Current()
	w.engine = edit.NewEngine(b, opts.Log)
	if opts.Tolerance > 0 {
		w.engine.SetTolerance(opts.Tolerance)
	}
	w.machine = gesture.New(w.viewFor(b.ID), w.engine, opts.Log)
	w.markSaved()
	return w
}

func (w *Workspace) Registry() *registry.Registry { return w.reg }
func (w *Workspace) Engine() *edit.Engine         { return w.engine }
func (w *Workspace) Machine() *gesture.Machine    { return w.machine }
func (w *Workspace) Board() *board.Board          { return w.reg.Current() }

// View returns the current board's view.
func (w *Workspace) View() *geom.View { return w.viewFor(w.reg.Current().ID) }

func (w *Workspace) viewFor(id string) *geom.View {
	v, ok := w.views[id]
	if !ok {
		v = geom.NewView(w.minScale, w.maxScale)
		w.views[id] = v
	}
	return v
}

// Scene is what a renderer draws for the current board.
func (w *Workspace) Scene() edit.Scene {
	return w.engine.Scene(*w.View())
}

// Load reads persisted boards and binds the current one.
func (w *Workspace) Load(ctx context.Context) error {
	err := w.reg.Load(ctx)
	w.views = make(map[string]*geom.View)
	w.retarget()
	w.markSaved()
	return err
}

func (w *Workspace) retarget() {
	b := w.reg.Current()
	w.engine.SetBoard(b)
	w.machine.SetView(w.viewFor(b.ID))
}

// Handle feeds one pointer event through the gesture machine. Content is
// saved once the gesture that changed it is over.
func (w *Workspace) Handle(ev gesture.Event) gesture.State {
	s := w.machine.Handle(ev)
	if !w.machine.Busy() {
		w.autosave()
	}
	return s
}

func (w *Workspace) autosave() {
	b := w.reg.Current()
	if w.saved[b.ID].Equal(b.UpdatedAt) {
		return
	}
	w.save()
}

func (w *Workspace) save() {
	w.reg.Save(context.Background())
	w.markSaved()
}

func (w *Workspace) markSaved() {
	clear(w.saved)
	for _, b := range w.reg.Boards() {
		w.saved[b.ID] = b.UpdatedAt
	}
}

// Flush waits for pending saves.
func (w *Workspace) Flush() { w.reg.Flush() }

func (w *Workspace) switchTo(fn func() error) error {
	if w.machine.Busy() {
		return ErrGestureActive
	}
	if err := fn(); err != nil {
		return err
	}
	w.retarget()
	return nil
}

// SwitchBoard makes id current. Pan and zoom are kept per board.
func (w *Workspace) SwitchBoard(id string) error {
	return w.switchTo(func() error { return w.reg.Switch(id) })
}

func (w *Workspace) NextBoard() error {
	return w.switchTo(func() error { w.reg.Next(); return nil })
}

func (w *Workspace) PrevBoard() error {
	return w.switchTo(func() error { w.reg.Prev(); return nil })
}

// NewBoard creates a board, switches to it and saves.
func (w *Workspace) NewBoard(name string) (*board.Board, error) {
	var b *board.Board
	err := w.switchTo(func() error { b = w.reg.Create(name); return nil })
	if err != nil {
		return nil, err
	}
	w.save()
	return b, nil
}

func (w *Workspace) DuplicateBoard() (*board.Board, error) {
	var b *board.Board
	err := w.switchTo(func() error {
		var err error
		b, err = w.reg.Duplicate(w.reg.Current().ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	w.save()
	return b, nil
}

// DeleteBoard removes the current board along with its view.
func (w *Workspace) DeleteBoard(ctx context.Context) error {
	id := w.reg.Current().ID
	err := w.switchTo(func() error { return w.reg.Delete(ctx, id) })
	if err != nil {
		return err
	}
	delete(w.views, id)
	w.save()
	return nil
}

func (w *Workspace) RenameBoard(name string) error {
	if err := w.reg.Rename(w.reg.Current().ID, name); err != nil {
		return err
	}
	w.save()
	return nil
}

func (w *Workspace) Undo() bool {
	if w.machine.Busy() {
		return false
	}
	ok := w.engine.Undo()
	w.autosave()
	return ok
}

func (w *Workspace) Redo() bool {
	if w.machine.Busy() {
		return false
	}
	ok := w.engine.Redo()
	w.autosave()
	return ok
}

func (w *Workspace) Clear() {
	w.machine.Reset()
	w.engine.Clear()
	w.autosave()
}

// AddStencilEntity drops the current stencil at the centre of the field.
func (w *Workspace) AddStencilEntity() *board.Entity {
	p := w.engine.AddStencilEntity()
	w.autosave()
	return p
}

func (w *Workspace) CommitText(text string) *board.Annotation {
	a := w.engine.CommitText(text)
	w.autosave()
	return a
}

// ApplyTemplate replaces the board with a built-in layout, or merges it in.
func (w *Workspace) ApplyTemplate(name string, merge bool) error {
	t, err := template.Get(name)
	if err != nil {
		return err
	}
	w.applyLayout(t, merge)
	return nil
}

// PasteLayout merges a YAML or JSON layout, typically from the clipboard.
func (w *Workspace) PasteLayout(data []byte) error {
	t, err := template.Parse(data)
	if err != nil {
		return err
	}
	w.applyLayout(t, true)
	return nil
}

func (w *Workspace) applyLayout(t template.Template, merge bool) {
	w.machine.Reset()
	w.engine.ApplyLayout(t.Entities, t.Annotations, merge)
	w.autosave()
	w.log.Debug().Str("template", t.Name).Bool("merge", merge).Msg("applied layout")
}

// CopyLayout encodes the current board as JSON.
func (w *Workspace) CopyLayout() ([]byte, error) {
	return template.FromBoard(w.reg.Current()).JSON()
}

// ToggleLayer flips a layer's visibility and reports whether it is now shown.
func (w *Workspace) ToggleLayer(l board.Layer) bool {
	return w.engine.Visibility.Toggle(l)
}

// Layers lists the layers in use on the current board.
func (w *Workspace) Layers() []board.Layer {
	return edit.Layers(w.reg.Current())
}

// AttachMedia stores data and links it to the current board.
func (w *Workspace) AttachMedia(ctx context.Context, data []byte) (string, error) {
	id, err := w.reg.AttachMedia(ctx, w.reg.Current().ID, data)
	if err != nil {
		return "", fmt.Errorf("attach media: %w", err)
	}
	w.save()
	return id, nil
}

// Zoom scales the current view about a device point. It is ignored while a
// gesture owns the view.
func (w *Workspace) Zoom(anchor geom.Point, factor float64) {
	if w.machine.Busy() {
		return
	}
	w.View().ZoomBy(anchor, factor)
}

func (w *Workspace) Pan(d geom.Point) {
	if w.machine.Busy() {
		return
	}
	w.View().PanBy(d)
}

func (w *Workspace) ResetView() {
	if w.machine.Busy() {
		return
	}
	w.View().Reset()
}

// AddPlanItem appends the current board to the practice plan.
func (w *Workspace) AddPlanItem(note string, minutes int) error {
	if err := w.reg.AddPlanItem(w.reg.Current().ID, note, minutes); err != nil {
		return err
	}
	w.save()
	return nil
}
