package tui

import (
	"math"
	"strings"

	"coachboard/internal/board"
	"coachboard/internal/edit"
	"coachboard/internal/geom"
	"coachboard/internal/render"
)

// CellWidth and CellHeight are the device pixels one terminal cell stands
// for. At scale 1 the field is 150x44 cells.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

type grid [][]rune

func newGrid(width, height int) grid {
	width, height = max(width, 1), max(height, 1)
	g := make(grid, height)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", width))
	}
	return g
}

func (g grid) set(x, y int, r rune) {
	if y >= 0 && y < len(g) && x >= 0 && x < len(g[y]) {
		g[y][x] = r
	}
}

func (g grid) text(x, y int, s string) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r)
	}
}

func (g grid) lines() []string {
	out := make([]string, len(g))
	for i, row := range g {
		out[i] = string(row)
	}
	return out
}

// line draws a cell-space segment with Bresenham.
func (g grid) line(x0, y0, x1, y1 int, r rune) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		g.set(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// cellAt maps a device point onto the cell containing it.
func cellAt(d geom.Point) (int, int) {
	return int(math.Floor(d.X / CellWidth)), int(math.Floor(d.Y / CellHeight))
}

// deviceAt is the device point at the centre of a cell.
func deviceAt(col, row int) geom.Point {
	return geom.Pt((float64(col)+0.5)*CellWidth, (float64(row)+0.5)*CellHeight)
}

type painter struct {
	g    grid
	view geom.View
}

func (p painter) cell(w geom.Point) (int, int) {
	return cellAt(p.view.ToDevice(w))
}

func (p painter) segment(a, b geom.Point, r rune) {
	x0, y0 := p.cell(a)
	x1, y1 := p.cell(b)
	p.g.line(x0, y0, x1, y1, r)
}

// Render draws a scene into width x height terminal cells.
func Render(s edit.Scene, width, height int) []string {
	p := painter{g: newGrid(width, height), view: s.View}
	p.field()
	for _, a := range s.Annotations {
		if !a.Renderable() {
			continue
		}
		if a.Kind == board.KindText {
			x, y := p.cell(a.At)
			p.g.text(x, y, a.Text)
			continue
		}
		p.stroke(a)
	}
	for _, e := range s.Entities {
		p.player(e, s.SelectedID != "" && e.ID == s.SelectedID)
	}
	return p.g.lines()
}

func (p painter) field() {
	m := render.FieldMargin
	left, top := m, m
	right, bottom := board.Surface.X-m, board.Surface.Y-m

	for x := left + 120; x < right; x += 120 {
		p.segment(geom.Pt(x, top), geom.Pt(x, bottom), ':')
	}
	mid := (left + right) / 2
	p.segment(geom.Pt(mid, top), geom.Pt(mid, bottom), '|')

	// line of scrimmage, dashed
	y := (top + bottom) / 2
	x0, row := p.cell(geom.Pt(mid-240, y))
	x1, _ := p.cell(geom.Pt(mid+240, y))
	for x := x0; x <= x1; x += 2 {
		p.g.set(x, row, '-')
	}

	p.segment(geom.Pt(left, top), geom.Pt(right, top), '-')
	p.segment(geom.Pt(left, bottom), geom.Pt(right, bottom), '-')
	p.segment(geom.Pt(left, top), geom.Pt(left, bottom), '|')
	p.segment(geom.Pt(right, top), geom.Pt(right, bottom), '|')
	for _, c := range []geom.Point{{X: left, Y: top}, {X: right, Y: top}, {X: left, Y: bottom}, {X: right, Y: bottom}} {
		x, y := p.cell(c)
		p.g.set(x, y, '+')
	}
}

func (p painter) stroke(a board.Annotation) {
	r := '*'
	if a.Kind == board.KindBlock {
		r = '='
	}
	for i := 1; i < len(a.Points); i++ {
		p.segment(a.Points[i-1], a.Points[i], r)
	}

	n := len(a.Points)
	from, to := p.view.ToDevice(a.Points[n-2]), p.view.ToDevice(a.Points[n-1])
	x, y := cellAt(to)
	p.g.set(x, y, endMark(a.Kind, to.Sub(from)))
}

// endMark picks the glyph for a stroke's last cell: an arrow for routes, a
// bar across the direction of travel for blocks.
func endMark(kind board.Kind, d geom.Point) rune {
	horizontal := math.Abs(d.X)/CellWidth >= math.Abs(d.Y)/CellHeight
	switch {
	case kind == board.KindBlock && horizontal:
		return '|'
	case kind == board.KindBlock:
		return '-'
	case horizontal && d.X >= 0:
		return '>'
	case horizontal:
		return '<'
	case d.Y >= 0:
		return 'v'
	default:
		return '^'
	}
}

func (p painter) player(e board.Entity, selected bool) {
	rx := e.Radius * p.view.Scale / CellWidth
	ry := e.Radius * p.view.Scale / CellHeight
	if rx >= 3 && ry >= 1.5 {
		for i := 0; i < 48; i++ {
			t := float64(i) / 48 * 2 * math.Pi
			pt := e.Pos.Add(geom.Pt(math.Cos(t), math.Sin(t)).Scale(e.Radius))
			x, y := p.cell(pt)
			p.g.set(x, y, 'o')
		}
	}

	open, close := brackets(e.Class)
	if selected {
		open, close = '#', '#'
	}
	token := string(open) + e.Label + string(close)
	x, y := p.cell(e.Pos)
	p.g.text(x-len([]rune(token))/2, y, token)
}

func brackets(c board.Class) (rune, rune) {
	switch c {
	case board.ClassDefense:
		return '{', '}'
	case board.ClassSpecial:
		return '<', '>'
	default:
		return '(', ')'
	}
}
