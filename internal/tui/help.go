package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var helpLines = []string{
	"CoachBoard Help",
	"===============",
	"",
	"Mouse:",
	"------",
	"  Left drag        Use the current tool (drag a player, draw, place text)",
	"  Right/Alt drag   Pan the field",
	"  Wheel            Zoom about the pointer",
	"",
	"Keyboard pointer:",
	"-----------------",
	"  h/←/j/↓/k/↑/l/→  Move cursor (pans instead when pan mode is on)",
	"  Shift+h/j/k/l    Move cursor 4x faster",
	"  Enter            Press at cursor; a drag or stroke follows the cursor",
	"                   until Enter again, Esc cancels it",
	"",
	"Tools:",
	"------",
	"  s                Select: drag players, click empty field to add",
	"  r                Route tool",
	"  b                Block tool",
	"  t                Text tool",
	"  d                Toggle drop mode (place players with any tool)",
	"",
	"Players:",
	"--------",
	"  a                Add stencil player at the field centre",
	"  e                Edit stencil label",
	"  c                Cycle stencil side (O, D, S)",
	"  g                Set active layer",
	"  1-9              Toggle layer visibility",
	"",
	"Boards:",
	"-------",
	"  { / }            Previous / next board",
	"  N                New board",
	"  R                Rename board",
	"  D                Duplicate board",
	"  X                Delete board",
	"  C                Clear board",
	"  T                Apply a template (Enter replaces, m merges)",
	"  P                Add board to practice plan (\"10 note\")",
	"",
	"View:",
	"-----",
	"  z/Space          Toggle pan mode",
	"  +/-              Zoom in/out",
	"  0                Reset view",
	"",
	"Files:",
	"------",
	"  S                Export PNG",
	"  E                Export text picture",
	"  M                Attach media file",
	"  y / p            Copy / paste layout via clipboard",
	"",
	"General:",
	"--------",
	"  u / U            Undo / redo",
	"  Esc              Clear selection and pan mode",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "?", "esc", "q":
		m.help = false
	}
	return m, nil
}

func (m Model) helpView() string {
	visible := max(m.height-1, 1)
	if m.height < 1 {
		visible = len(helpLines)
	}

	start := min(m.helpScroll, max(len(helpLines)-visible, 0))
	end := min(start+visible, len(helpLines))

	status := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		start+1, end, len(helpLines))
	return strings.Join(helpLines[start:end], "\n") + "\n" + statusStyle.Render(status)
}
