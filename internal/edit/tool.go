// Package edit turns logical pointer positions into board mutations: hit
// testing, dragging players, drawing strokes and placing text.
package edit

import "strings"

type Tool int

const (
	ToolSelect Tool = iota
	ToolRoute
	ToolBlock
	ToolText
)

func (t Tool) String() string {
	switch t {
	case ToolRoute:
		return "route"
	case ToolBlock:
		return "block"
	case ToolText:
		return "text"
	default:
		return "select"
	}
}

// ParseTool maps a name onto a Tool, defaulting to select.
func ParseTool(s string) Tool {
	switch strings.ToLower(s) {
	case "route":
		return ToolRoute
	case "block":
		return ToolBlock
	case "text":
		return ToolText
	default:
		return ToolSelect
	}
}

// Selecting reports whether the tool manipulates existing objects rather than
// creating strokes. Gestures treat these tools as pan/pinch capable.
func (t Tool) Selecting() bool {
	return t == ToolSelect
}

// Outcome describes what a pointer-down started.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeDrag
	OutcomeStroke
	OutcomePlaced
	OutcomeText
	OutcomeTextPending
)
