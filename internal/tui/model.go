// Package tui is the terminal front end: mouse and keys become gesture
// events, and the current board is drawn as a character raster.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"coachboard/internal/board"
	"coachboard/internal/config"
	"coachboard/internal/edit"
	"coachboard/internal/gesture"
	"coachboard/internal/template"
	"coachboard/internal/workspace"
)

const mouseID = 1

type Options struct {
	Workspace *workspace.Workspace
	Config    *config.Config
	// SaveErrors delivers background save failures for the status line.
	SaveErrors <-chan error
	Log        zerolog.Logger
}

type Model struct {
	ws         *workspace.Workspace
	cfg        *config.Config
	saveErrors <-chan error
	log        zerolog.Logger

	width      int
	height     int
	cursorX    int
	cursorY    int
	mode       Mode
	help       bool
	helpScroll int
	panMode    bool

	pointerDown bool
	rightPan    bool

	inputOp   InputOperation
	inputText string
	textInput string

	templates        []string
	selectedTemplate int

	confirmAction ConfirmAction
	pendingOp     InputOperation
	pendingPath   string

	errorMessage   string
	successMessage string
}

type saveErrMsg struct{ err error }

func New(opts Options) Model {
	ws := opts.Workspace
	if ws == nil {
		ws = workspace.New(workspace.Options{Log: opts.Log})
	}
	return Model{
		ws:         ws,
		cfg:        opts.Config,
		saveErrors: opts.SaveErrors,
		log:        opts.Log.With().Str("component", "tui").Logger(),
	}
}

// Run starts the terminal program and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(
		New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

func waitForSaveError(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return saveErrMsg{err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForSaveError(m.saveErrors)
}

func (m Model) confirmations() bool {
	return m.cfg == nil || m.cfg.Confirmations
}

// canvasSize is the board area: the terminal minus the tab bar and status
// line.
func (m Model) canvasSize() (int, int) {
	width, height := m.width, m.height
	if width < 1 {
		width = 80
	}
	if height < 1 {
		height = 24
	}
	return width, max(height-tabBarHeight-statusHeight, 1)
}

func (m *Model) ensureCursorInBounds() {
	width, height := m.canvasSize()
	m.cursorX = min(max(m.cursorX, 0), width-1)
	m.cursorY = min(max(m.cursorY, 0), height-1)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case saveErrMsg:
		m.errorMessage = "save failed: " + msg.err.Error()
		return m, waitForSaveError(m.saveErrors)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.help {
			return m.handleHelpKey(msg)
		}
		switch m.mode {
		case ModeGesture:
			return m.handleGestureKey(msg)
		case ModeTextInput:
			return m.handleTextInputKey(msg)
		case ModeInput:
			return m.handleInputKey(msg)
		case ModeTemplates:
			return m.handleTemplateKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

func (m *Model) pointer(typ gesture.EventType, col, row int) {
	m.ws.Handle(gesture.Event{Type: typ, ID: mouseID, Kind: gesture.Mouse, Pos: deviceAt(col, row)})
}

// syncMode enters text input when a text-tool tap left a pending point.
func (m *Model) syncMode() {
	if _, ok := m.ws.Engine().PendingText(); ok && m.mode == ModeNormal {
		m.mode = ModeTextInput
		m.textInput = ""
	}
}

func (m *Model) setPanMode(on bool) {
	m.panMode = on
	m.ws.Machine().SetPanModifier(on)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.help || m.mode != ModeNormal {
		return m, nil
	}
	col, row := msg.X, msg.Y-tabBarHeight

	switch msg.Type {
	case tea.MouseWheelUp:
		m.ws.Handle(gesture.Event{Type: gesture.Wheel, Pos: deviceAt(col, row), Factor: zoomStep})
	case tea.MouseWheelDown:
		m.ws.Handle(gesture.Event{Type: gesture.Wheel, Pos: deviceAt(col, row), Factor: 1 / zoomStep})
	case tea.MouseLeft, tea.MouseRight:
		if m.pointerDown {
			m.pointer(gesture.Move, col, row)
			break
		}
		// right button or alt-drag pans whatever the tool
		if msg.Type == tea.MouseRight || msg.Alt {
			m.rightPan = true
			m.ws.Machine().SetPanModifier(true)
		}
		m.pointerDown = true
		m.pointer(gesture.Down, col, row)
	case tea.MouseMotion:
		if m.pointerDown {
			m.pointer(gesture.Move, col, row)
		}
	case tea.MouseRelease:
		if !m.pointerDown {
			break
		}
		m.pointer(gesture.Up, col, row)
		m.pointerDown = false
		if m.rightPan {
			m.rightPan = false
			m.ws.Machine().SetPanModifier(m.panMode)
		}
	}

	m.cursorX, m.cursorY = col, row
	m.ensureCursorInBounds()
	m.syncMode()
	return m, nil
}

// pressAtCursor clicks at the keyboard cursor. If the press starts a drag
// or a stroke the pointer stays down until Enter.
func (m *Model) pressAtCursor() {
	m.pointer(gesture.Down, m.cursorX, m.cursorY)
	if m.ws.Machine().Busy() {
		m.mode = ModeGesture
		return
	}
	m.pointer(gesture.Up, m.cursorX, m.cursorY)
	m.syncMode()
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""
	ws := m.ws
	eng := ws.Engine()

	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m.confirm(ConfirmQuit)
	case "esc":
		m.setPanMode(false)
		eng.Board().SetSelection("")
	case "?":
		m.help = true
		m.helpScroll = 0

	case "s":
		eng.SetTool(edit.ToolSelect)
	case "r":
		eng.SetTool(edit.ToolRoute)
	case "b":
		eng.SetTool(edit.ToolBlock)
	case "t":
		eng.SetTool(edit.ToolText)
	case "d":
		eng.SetDropMode(!eng.DropMode())
	case "a":
		ws.AddStencilEntity()
	case "c":
		st := eng.Stencil()
		st.Class = nextClass(st.Class)
		eng.SetStencil(st)
	case "e":
		m.startInput(InputStencilLabel, eng.Stencil().Label)
	case "g":
		m.startInput(InputLayer, string(eng.Layer()))

	case "u":
		if !ws.Undo() {
			m.errorMessage = "nothing to undo"
		}
	case "U":
		if !ws.Redo() {
			m.errorMessage = "nothing to redo"
		}
	case "C":
		return m.confirm(ConfirmClearBoard)

	case "{":
		m.reportErr(ws.PrevBoard())
	case "}":
		m.reportErr(ws.NextBoard())
	case "N":
		m.startInput(InputNewBoard, "")
	case "R":
		m.startInput(InputRenameBoard, ws.Board().Name)
	case "D":
		if b, err := ws.DuplicateBoard(); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = "duplicated as " + b.Name
		}
	case "X":
		return m.confirm(ConfirmDeleteBoard)
	case "P":
		m.startInput(InputPlanNote, "")

	case "z", " ":
		m.setPanMode(!m.panMode)
	case "+", "=":
		ws.Zoom(m.canvasCentre(), zoomStep)
	case "-", "_":
		ws.Zoom(m.canvasCentre(), 1/zoomStep)
	case "0":
		ws.ResetView()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.toggleLayer(int(key[0] - '1'))

	case "T":
		m.templates = template.Names()
		m.selectedTemplate = 0
		m.mode = ModeTemplates
	case "S":
		m.startInput(InputExportPNG, ws.Board().Name)
	case "E":
		m.startInput(InputExportTXT, ws.Board().Name)
	case "M":
		m.startInput(InputAttachMedia, "")
	case "y":
		m.copyLayout()
	case "p":
		m.pasteLayout()

	case "enter":
		m.pressAtCursor()
	default:
		if isDirection(key) {
			m.handleNavigation(key, m.getMoveSpeed(key))
		}
	}
	return m, nil
}

func (m *Model) reportErr(err error) {
	if err != nil {
		m.errorMessage = err.Error()
	}
}

func nextClass(c board.Class) board.Class {
	switch c {
	case board.ClassOffense:
		return board.ClassDefense
	case board.ClassDefense:
		return board.ClassSpecial
	default:
		return board.ClassOffense
	}
}

func (m *Model) toggleLayer(i int) {
	layers := m.ws.Layers()
	if i < 0 || i >= len(layers) {
		m.errorMessage = fmt.Sprintf("no layer %d", i+1)
		return
	}
	if m.ws.ToggleLayer(layers[i]) {
		m.successMessage = fmt.Sprintf("layer %s shown", layers[i])
	} else {
		m.successMessage = fmt.Sprintf("layer %s hidden", layers[i])
	}
}

func (m *Model) copyLayout() {
	data, err := m.ws.CopyLayout()
	if err == nil {
		err = writeClipboardText(string(data))
	}
	if err != nil {
		m.errorMessage = "copy failed: " + err.Error()
		return
	}
	m.successMessage = "board copied"
}

func (m *Model) pasteLayout() {
	text, err := readClipboardText()
	if err != nil {
		m.errorMessage = "clipboard unavailable: " + err.Error()
		return
	}
	if err := m.ws.PasteLayout([]byte(cleanClipboardText(text))); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.successMessage = "layout pasted"
}

func (m Model) handleGestureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "enter":
		m.pointer(gesture.Up, m.cursorX, m.cursorY)
		m.mode = ModeNormal
	case "esc":
		_, dragging := m.ws.Machine().State().(gesture.Dragging)
		m.ws.Handle(gesture.Event{Type: gesture.Cancel, ID: mouseID})
		if dragging {
			// drop the snapshot the press took
			m.ws.Undo()
		}
		m.mode = ModeNormal
	default:
		if isDirection(key) {
			m.handleCursorMove(key, m.getMoveSpeed(key))
			m.pointer(gesture.Move, m.cursorX, m.cursorY)
		}
	}
	return m, nil
}

func (m Model) handleTextInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.ws.CommitText(m.textInput) == nil {
			m.ws.Engine().CancelText()
		}
		m.mode = ModeNormal
		m.textInput = ""
	case tea.KeyEsc:
		m.ws.Engine().CancelText()
		m.mode = ModeNormal
		m.textInput = ""
	default:
		m.textInput = editLine(m.textInput, msg, m.ws.Registry().Limits().MaxTextLen)
	}
	return m, nil
}

// editLine applies a single-line editing key to s.
func editLine(s string, msg tea.KeyMsg, maxLen int) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(s); len(r) > 0 {
			return string(r[:len(r)-1])
		}
	case tea.KeySpace:
		s += " "
	case tea.KeyRunes:
		s += string(msg.Runes)
	}
	if r := []rune(s); maxLen > 0 && len(r) > maxLen {
		s = string(r[:maxLen])
	}
	return s
}

func (m *Model) startInput(op InputOperation, initial string) {
	m.mode = ModeInput
	m.inputOp = op
	m.inputText = initial
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = ModeNormal
		return m.submitInput()
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.inputText = ""
	default:
		m.inputText = editLine(m.inputText, msg, 0)
	}
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	ws := m.ws
	text := strings.TrimSpace(m.inputText)
	m.inputText = ""

	switch m.inputOp {
	case InputExportPNG, InputExportTXT:
		ext := ".png"
		if m.inputOp == InputExportTXT {
			ext = ".txt"
		}
		path, err := m.exportPath(text, ext)
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		if _, err := os.Stat(path); err == nil && m.confirmations() {
			m.pendingOp, m.pendingPath = m.inputOp, path
			m.mode = ModeConfirm
			m.confirmAction = ConfirmOverwriteFile
			return m, nil
		}
		m.export(m.inputOp, path)

	case InputNewBoard:
		if _, err := ws.NewBoard(text); err != nil {
			m.errorMessage = err.Error()
		}
	case InputRenameBoard:
		m.reportErr(ws.RenameBoard(text))
	case InputStencilLabel:
		st := ws.Engine().Stencil()
		st.Label = board.NormalizeLabel(text, ws.Registry().Limits().MaxLabelLen)
		ws.Engine().SetStencil(st)
	case InputLayer:
		ws.Engine().SetLayer(board.Layer(text))
	case InputAttachMedia:
		m.attachMedia(text)
	case InputPlanNote:
		minutes, note := parsePlanNote(text)
		if err := ws.AddPlanItem(note, minutes); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = fmt.Sprintf("added to plan (%d min total)", ws.Registry().PlanMinutes())
		}
	}
	return m, nil
}

// parsePlanNote splits "10 inside zone" into minutes and note.
func parsePlanNote(s string) (int, string) {
	first, rest, _ := strings.Cut(strings.TrimSpace(s), " ")
	if n, err := strconv.Atoi(first); err == nil {
		return n, strings.TrimSpace(rest)
	}
	return 0, strings.TrimSpace(s)
}

func (m *Model) attachMedia(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		m.errorMessage = "media import failed: " + err.Error()
		return
	}
	if _, err := m.ws.AttachMedia(context.Background(), data); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.successMessage = fmt.Sprintf("attached %d bytes", len(data))
}

func (m *Model) export(op InputOperation, path string) {
	var err error
	if op == InputExportTXT {
		err = m.exportVisualTXT(path)
	} else {
		err = m.exportPNG(path)
	}
	if err != nil {
		m.log.Warn().Err(err).Str("path", path).Msg("export failed")
		m.errorMessage = "export failed: " + err.Error()
		return
	}
	m.successMessage = "exported " + path
}

func (m Model) handleTemplateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.selectedTemplate < len(m.templates)-1 {
			m.selectedTemplate++
		}
	case "k", "up":
		if m.selectedTemplate > 0 {
			m.selectedTemplate--
		}
	case "enter", "m":
		m.mode = ModeNormal
		if len(m.templates) == 0 {
			return m, nil
		}
		name := m.templates[m.selectedTemplate]
		if err := m.ws.ApplyTemplate(name, msg.String() == "m"); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = "applied " + name
		}
	case "esc", "q":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m Model) confirm(action ConfirmAction) (tea.Model, tea.Cmd) {
	if !m.confirmations() {
		return m.runConfirmed(action)
	}
	m.mode = ModeConfirm
	m.confirmAction = action
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		return m.runConfirmed(m.confirmAction)
	case "n", "N", "esc":
		m.mode = ModeNormal
	}
	return m, nil
}

func (m Model) runConfirmed(action ConfirmAction) (tea.Model, tea.Cmd) {
	switch action {
	case ConfirmQuit:
		m.ws.Flush()
		return m, tea.Quit
	case ConfirmClearBoard:
		m.ws.Clear()
	case ConfirmDeleteBoard:
		err := m.ws.DeleteBoard(context.Background())
		if errors.Is(err, workspace.ErrGestureActive) {
			m.errorMessage = err.Error()
		} else if err != nil {
			m.errorMessage = "delete failed: " + err.Error()
		}
	case ConfirmOverwriteFile:
		m.export(m.pendingOp, m.pendingPath)
		m.pendingPath = ""
	}
	return m, nil
}
