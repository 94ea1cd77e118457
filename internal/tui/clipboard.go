package tui

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// cleanClipboardText drops RTF markup and control characters and normalizes
// line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	text = stripRTF(text)
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := strings.ReplaceAll(result.String(), "\r\n", "\n")
	return strings.ReplaceAll(normalized, "\r", "\n")
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

// stripRTF keeps the plain text of an RTF document. Anything else is
// returned unchanged.
func stripRTF(text string) string {
	if !isRTF(text) {
		return text
	}
	var result strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{', '}':
			continue
		case '\\':
			if i+1 >= len(runes) {
				continue
			}
			next := runes[i+1]
			switch {
			case isLetter(next):
				// control word, optionally followed by one space
				i++
				for i < len(runes) && isLetter(runes[i]) || i < len(runes) && (runes[i] == '-' || runes[i] >= '0' && runes[i] <= '9') {
					i++
				}
				if i < len(runes) && runes[i] != ' ' {
					i--
				}
			case next == '\\' || next == '{' || next == '}' || next == '\n' || next == '\r' || next == '\t':
				result.WriteRune(next)
				i++
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
