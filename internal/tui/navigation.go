package tui

import "coachboard/internal/geom"

func isDirection(key string) bool {
	switch key {
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		return true
	}
	return false
}

func (m *Model) handleNavigation(key string, speed int) {
	if m.panMode {
		m.handlePan(key, speed)
		return
	}
	m.handleCursorMove(key, speed)
}

// handlePan moves the camera so the field slides opposite to the key.
func (m *Model) handlePan(key string, speed int) {
	step := float64(speed) * panStep
	var d geom.Point
	switch key {
	case "h", "left", "H", "shift+left":
		d.X = step
	case "l", "right", "L", "shift+right":
		d.X = -step
	case "k", "up", "K", "shift+up":
		d.Y = step
	case "j", "down", "J", "shift+down":
		d.Y = -step
	}
	m.ws.Pan(d)
}

func (m *Model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
}

func (m *Model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

func (m *Model) canvasCentre() geom.Point {
	w, h := m.canvasSize()
	return geom.Pt(float64(w*CellWidth)/2, float64(h*CellHeight)/2)
}
