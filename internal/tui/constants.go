package tui

type Mode int

const (
	ModeNormal Mode = iota
	// ModeGesture holds a keyboard-driven pointer down: hjkl moves it,
	// Enter releases it.
	ModeGesture
	ModeTextInput
	ModeInput
	ModeTemplates
	ModeConfirm
)

type InputOperation int

const (
	InputExportPNG InputOperation = iota
	InputExportTXT
	InputRenameBoard
	InputNewBoard
	InputStencilLabel
	InputLayer
	InputAttachMedia
	InputPlanNote
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmClearBoard
	ConfirmDeleteBoard
	ConfirmOverwriteFile
)

const (
	// zoomStep is the factor applied per wheel notch or +/- press.
	zoomStep = 1.1
	// panStep is how far one hjkl press pans, in device pixels.
	panStep = 2 * CellWidth

	tabBarHeight = 1
	statusHeight = 1
)
