package tui

import (
	"fmt"
	"os"
	"strings"

	"coachboard/internal/render"
)

// exportVisualTXT writes the board exactly as it appears in the terminal,
// without the cursor.
func (m *Model) exportVisualTXT(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	width, height := m.canvasSize()
	for _, line := range Render(m.ws.Scene(), width, height) {
		if _, err := fmt.Fprintln(file, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) exportPNG(filename string) error {
	return render.SavePNG(filename, m.ws.Scene(), render.Options{})
}

// exportPath resolves a user-entered name against the export directory and
// adds ext when missing.
func (m *Model) exportPath(name, ext string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	if m.cfg == nil {
		return name, nil
	}
	return m.cfg.ExportPath(name)
}
