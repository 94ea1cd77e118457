package gesture

import (
	"github.com/rs/zerolog"

	"coachboard/internal/edit"
	"coachboard/internal/geom"
)

// TapSlop is how far (device px) a touch may travel and still count as a tap.
const TapSlop = 10.0

// Machine owns the active contacts and the current State. All input goes
// through Handle.
type Machine struct {
	view   *geom.View
	engine *edit.Engine

	contacts map[int]geom.Point
	order    []int
	state    State

	panModifier bool

	log zerolog.Logger
}

func New(view *geom.View, engine *edit.Engine, log zerolog.Logger) *Machine {
	return &Machine{
		view:     view,
		engine:   engine,
		contacts: make(map[int]geom.Point),
		state:    Idle{},
		log:      log.With().Str("component", "gesture").Logger(),
	}
}

func (m *Machine) State() State { return m.state }

func (m *Machine) View() *geom.View { return m.view }

// Contacts returns how many pointers are down.
func (m *Machine) Contacts() int { return len(m.contacts) }

// Busy reports whether a gesture that edits content or zooms is underway.
func (m *Machine) Busy() bool {
	switch m.state.(type) {
	case Dragging, DrawingStroke, Pinching:
		return true
	}
	return false
}

// SetPanModifier mirrors a held space bar: new contacts pan regardless of
// tool.
func (m *Machine) SetPanModifier(on bool) { m.panModifier = on }

func (m *Machine) PanModifier() bool { return m.panModifier }

// SetView points the machine at another board's view and drops any gesture.
func (m *Machine) SetView(v *geom.View) {
	m.Reset()
	m.view = v
}

// Reset forgets all contacts and returns to Idle.
func (m *Machine) Reset() {
	m.engine.End()
	clear(m.contacts)
	m.order = m.order[:0]
	m.setState(Idle{})
}

// Handle applies one event and returns the resulting state.
func (m *Machine) Handle(ev Event) State {
	switch ev.Type {
	case Down:
		m.down(ev)
	case Move:
		m.move(ev)
	case Up:
		m.up(ev)
	case Cancel:
		m.Reset()
	case Wheel:
		if _, idle := m.state.(Idle); idle && ev.Factor > 0 {
			m.view.ZoomBy(ev.Pos, ev.Factor)
		}
	}
	return m.state
}

func (m *Machine) setState(s State) {
	if m.state != nil && m.state.Name() != s.Name() {
		m.log.Trace().Str("from", m.state.Name()).Str("to", s.Name()).Msg("gesture transition")
	}
	m.state = s
}

func (m *Machine) down(ev Event) {
	if _, known := m.contacts[ev.ID]; !known {
		m.order = append(m.order, ev.ID)
	}
	m.contacts[ev.ID] = ev.Pos

	if len(m.contacts) == 1 {
		m.begin(ev)
		return
	}

	// second contact: only pinch when the tool is not drawing
	if len(m.contacts) == 2 && !m.panModifier && m.engine.Tool().Selecting() {
		switch m.state.(type) {
		case Idle, Dragging, Panning:
			m.engine.End()
			m.startPinch()
		}
	}
}

func (m *Machine) begin(ev Event) {
	if m.panModifier || (ev.Kind == Touch && m.engine.Tool().Selecting()) {
		m.setState(Panning{
			Contact:        ev.ID,
			Start:          ev.Pos,
			StartTranslate: m.view.Translate,
			Tap:            !m.panModifier,
		})
		return
	}

	switch m.engine.Begin(m.view.ToLogical(ev.Pos)) {
	case edit.OutcomeDrag:
		m.setState(Dragging{Contact: ev.ID, EntityID: m.engine.Dragging()})
	case edit.OutcomeStroke:
		m.setState(DrawingStroke{Contact: ev.ID, AnnotationID: m.engine.Drawing()})
	default:
		m.setState(Idle{})
	}
}

func (m *Machine) startPinch() {
	a, b := m.order[0], m.order[1]
	pa, pb := m.contacts[a], m.contacts[b]
	m.setState(Pinching{
		A:          a,
		B:          b,
		StartDist:  pa.Dist(pb),
		StartScale: m.view.Scale,
	})
}

func (m *Machine) move(ev Event) {
	if _, known := m.contacts[ev.ID]; !known {
		return
	}
	m.contacts[ev.ID] = ev.Pos

	switch s := m.state.(type) {
	case Dragging:
		if ev.ID == s.Contact {
			m.engine.Continue(m.view.ToLogical(ev.Pos))
		}
	case DrawingStroke:
		if ev.ID == s.Contact {
			m.engine.Continue(m.view.ToLogical(ev.Pos))
		}
	case Panning:
		if ev.ID == s.Contact {
			m.view.Translate = s.StartTranslate.Add(ev.Pos.Sub(s.Start))
		}
	case Pinching:
		if ev.ID != s.A && ev.ID != s.B {
			return
		}
		pa, pb := m.contacts[s.A], m.contacts[s.B]
		if s.StartDist <= 0 {
			return
		}
		m.view.ZoomAt(geom.Mid(pa, pb), s.StartScale*pa.Dist(pb)/s.StartDist)
	}
}

func (m *Machine) up(ev Event) {
	pos, known := m.contacts[ev.ID]
	if !known {
		return
	}
	delete(m.contacts, ev.ID)
	for i, id := range m.order {
		if id == ev.ID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	switch s := m.state.(type) {
	case Dragging:
		if ev.ID == s.Contact {
			m.engine.End()
			m.setState(Idle{})
		}
	case DrawingStroke:
		if ev.ID == s.Contact {
			m.engine.End()
			m.setState(Idle{})
		}
	case Panning:
		if ev.ID == s.Contact {
			if s.Tap && pos.Dist(s.Start) <= TapSlop {
				m.view.Translate = s.StartTranslate
				m.engine.Tap(m.view.ToLogical(s.Start))
			}
			m.setState(Idle{})
		}
	case Pinching:
		// the remaining contact does not resume anything; it has to lift
		// and come back down
		if ev.ID == s.A || ev.ID == s.B {
			m.setState(Idle{})
		}
	}

	if len(m.contacts) == 0 {
		m.engine.End()
		m.setState(Idle{})
	}
}
