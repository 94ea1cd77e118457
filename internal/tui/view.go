package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var inputPrompts = map[InputOperation]string{
	InputExportPNG:    "Export PNG as",
	InputExportTXT:    "Export text as",
	InputRenameBoard:  "Rename board",
	InputNewBoard:     "New board name",
	InputStencilLabel: "Stencil label",
	InputLayer:        "Active layer",
	InputAttachMedia:  "Media file",
	InputPlanNote:     "Plan item (minutes note)",
}

var confirmPrompts = map[ConfirmAction]string{
	ConfirmQuit:          "Quit CoachBoard?",
	ConfirmClearBoard:    "Clear every player and drawing on this board?",
	ConfirmDeleteBoard:   "Delete this board?",
	ConfirmOverwriteFile: "File exists. Overwrite?",
}

func (m Model) View() string {
	if m.help {
		return m.helpView()
	}
	width, height := m.canvasSize()

	var lines []string
	if m.mode == ModeTemplates {
		lines = m.templateLines(width, height)
	} else {
		lines = Render(m.ws.Scene(), width, height)
		m.overlayPendingText(lines)
		if m.mode == ModeNormal || m.mode == ModeGesture {
			overlay(lines, m.cursorX, m.cursorY, "█")
		}
	}

	var b strings.Builder
	b.WriteString(m.renderTabs(width))
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	b.WriteString(m.statusLine(width))
	return b.String()
}

// overlay writes s over lines[row] starting at col, clipped to the line.
func overlay(lines []string, col, row int, s string) {
	if row < 0 || row >= len(lines) || col < 0 {
		return
	}
	line := []rune(lines[row])
	for i, r := range s {
		if col+i < len(line) {
			line[col+i] = r
		}
	}
	lines[row] = string(line)
}

func (m Model) overlayPendingText(lines []string) {
	if m.mode != ModeTextInput {
		return
	}
	at, ok := m.ws.Engine().PendingText()
	if !ok {
		return
	}
	col, row := cellAt(m.ws.View().ToDevice(at))
	overlay(lines, col, row, m.textInput+"_")
}

func (m Model) renderTabs(width int) string {
	reg := m.ws.Registry()
	tabs := make([]string, 0, len(reg.Boards()))
	for i, b := range reg.Boards() {
		name := fmt.Sprintf("%d:%s", i+1, b.Name)
		if i == reg.CurrentIndex() {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return lipgloss.NewStyle().MaxWidth(width).Render(row)
}

func (m Model) templateLines(width, height int) []string {
	lines := []string{"Templates (Enter replaces, m merges, Esc cancels)", strings.Repeat("─", width)}
	for i, name := range m.templates {
		if i == m.selectedTemplate {
			lines = append(lines, selectedStyle.Render("> "+name))
		} else {
			lines = append(lines, "  "+name)
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines[:height]
}

func (m Model) statusLine(width int) string {
	var text string
	switch m.mode {
	case ModeInput:
		text = fmt.Sprintf("%s: %s█  (Enter to confirm, Esc to cancel)", inputPrompts[m.inputOp], m.inputText)
	case ModeTextInput:
		text = "Text: " + m.textInput + "█  (Enter to place, Esc to cancel)"
	case ModeConfirm:
		text = confirmPrompts[m.confirmAction] + " (y/n)"
	case ModeGesture:
		text = fmt.Sprintf("%s: hjkl to move, Enter to release, Esc to cancel", m.ws.Machine().State().Name())
	default:
		text = m.summary()
	}

	style := statusStyle
	switch {
	case m.errorMessage != "":
		text += " | " + m.errorMessage
		style = errorStyle
	case m.successMessage != "":
		text += " | " + m.successMessage
		style = successStyle
	}
	return style.MaxWidth(width).Render(text)
}

func (m Model) summary() string {
	eng := m.ws.Engine()
	st := eng.Stencil()
	parts := []string{
		strings.ToUpper(eng.Tool().String()),
		fmt.Sprintf("%s/%s", st.Label, st.Class),
		"layer " + string(eng.Layer()),
		fmt.Sprintf("%.0f%%", m.ws.View().Scale*100),
	}
	if eng.DropMode() {
		parts = append(parts, "DROP")
	}
	if m.panMode {
		parts = append(parts, "PAN")
	}
	if hidden := eng.Visibility.Hidden(); len(hidden) > 0 {
		parts = append(parts, fmt.Sprintf("%d hidden", len(hidden)))
	}
	parts = append(parts, "? help")
	return strings.Join(parts, " | ")
}
