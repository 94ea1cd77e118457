// Package render draws a board scene onto a raster image: the field, then
// strokes, then players on top.
package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"

	"coachboard/internal/board"
	"coachboard/internal/edit"
	"coachboard/internal/geom"
)

var ErrEmpty = errors.New("nothing to export")

const (
	FieldMargin = 80.0
	hashInset   = 190.0

	routeWidth   = 5.0
	blockWidth   = 7.0
	arrowLen     = 18.0
	arrowSpread  = math.Pi / 7
	labelSize    = 22.0
	textSize     = 20.0
	outlineWidth = 3.0
	selectWidth  = 5.0
)

type Options struct {
	// Scale multiplies the logical surface size. Zero means 1.
	Scale float64
	// NoField skips the turf and yard lines.
	NoField bool
	// Empty allows exporting a scene with nothing on it.
	Empty bool
}

// Image renders s. The canvas covers the playing surface and grows to fit
// anything placed outside it.
func Image(s edit.Scene, opts Options) (image.Image, error) {
	dc, err := draw(s, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG renders s and encodes it as PNG.
func WritePNG(w io.Writer, s edit.Scene, opts Options) error {
	dc, err := draw(s, opts)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG renders s to a PNG file.
func SavePNG(filename string, s edit.Scene, opts Options) error {
	dc, err := draw(s, opts)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}

// Extent returns the logical rectangle an export covers.
func Extent(s edit.Scene) (lo, hi geom.Point) {
	lo, hi = geom.Point{}, board.Surface
	if blo, bhi, ok := s.Bounds(); ok {
		const pad = 20.0
		lo = geom.Pt(min(lo.X, blo.X-pad), min(lo.Y, blo.Y-pad))
		hi = geom.Pt(max(hi.X, bhi.X+pad), max(hi.Y, bhi.Y+pad))
	}
	return lo, hi
}

func draw(s edit.Scene, opts Options) (*gg.Context, error) {
	if s.Empty() && !opts.Empty {
		return nil, ErrEmpty
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	lo, hi := Extent(s)
	w := int(math.Ceil((hi.X - lo.X) * scale))
	h := int(math.Ceil((hi.Y - lo.Y) * scale))

	labelFace, err := loadFace(gomonobold.TTF, labelSize)
	if err != nil {
		return nil, err
	}
	textFace, err := loadFace(gomono.TTF, textSize)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(w, h)
	dc.Scale(scale, scale)
	dc.Translate(-lo.X, -lo.Y)

	if opts.NoField {
		dc.SetRGB(1, 1, 1)
		dc.Clear()
	} else {
		drawField(dc, lo, hi)
	}
	for _, a := range s.Annotations {
		if !a.Renderable() {
			continue
		}
		if a.Kind == board.KindText {
			dc.SetFontFace(textFace)
			drawText(dc, a, !opts.NoField)
			continue
		}
		drawStroke(dc, a)
	}
	dc.SetFontFace(labelFace)
	for _, p := range s.Entities {
		drawPlayer(dc, p, s.SelectedID != "" && p.ID == s.SelectedID)
	}
	return dc, nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func drawField(dc *gg.Context, lo, hi geom.Point) {
	dc.SetHexColor("#0b3a22")
	dc.DrawRectangle(lo.X, lo.Y, hi.X-lo.X, hi.Y-lo.Y)
	dc.Fill()

	top, left := FieldMargin, FieldMargin
	right, bottom := board.Surface.X-FieldMargin, board.Surface.Y-FieldMargin
	midX, midY := (left+right)/2, (top+bottom)/2

	dc.SetRGBA(1, 1, 1, 0.65)
	dc.SetLineWidth(4)
	dc.DrawRectangle(left, top, right-left, bottom-top)
	dc.Stroke()

	dc.SetLineWidth(3)
	dc.DrawLine(midX, top, midX, bottom)
	dc.Stroke()

	dc.SetLineWidth(2)
	for x := left; x <= right; x += 60 {
		dc.DrawLine(x, top+hashInset, x, top+hashInset+14)
		dc.DrawLine(x, bottom-hashInset, x, bottom-hashInset-14)
	}
	dc.Stroke()

	dc.SetRGBA(1, 1, 1, 0.35)
	for x := left; x <= right; x += 120 {
		dc.DrawLine(x, top, x, bottom)
	}
	dc.Stroke()

	// line of scrimmage guide
	dc.SetRGBA(1, 1, 1, 0.5)
	dc.SetDash(10, 10)
	dc.DrawLine(midX-240, midY, midX+240, midY)
	dc.Stroke()
	dc.SetDash()
}

func drawStroke(dc *gg.Context, a board.Annotation) {
	width := routeWidth
	if a.Kind == board.KindBlock {
		width = blockWidth
	}
	dc.SetRGBA(0, 0, 0, 0.85)
	dc.SetLineWidth(width)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	dc.MoveTo(a.Points[0].X, a.Points[0].Y)
	for _, p := range a.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()

	if a.Kind == board.KindRoute {
		n := len(a.Points)
		drawArrowHead(dc, a.Points[n-2], a.Points[n-1])
	}
}

// drawArrowHead fills a triangle at to pointing away from from.
func drawArrowHead(dc *gg.Context, from, to geom.Point) {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	dc.SetRGBA(0, 0, 0, 0.9)
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-arrowLen*math.Cos(angle-arrowSpread), to.Y-arrowLen*math.Sin(angle-arrowSpread))
	dc.LineTo(to.X-arrowLen*math.Cos(angle+arrowSpread), to.Y-arrowLen*math.Sin(angle+arrowSpread))
	dc.ClosePath()
	dc.Fill()
}

func drawText(dc *gg.Context, a board.Annotation, onField bool) {
	if onField {
		dc.SetRGBA(1, 1, 1, 0.95)
	} else {
		dc.SetRGB(0, 0, 0)
	}
	dc.DrawStringAnchored(a.Text, a.At.X, a.At.Y, 0, 0.5)
}

func drawPlayer(dc *gg.Context, p board.Entity, selected bool) {
	switch p.Class {
	case board.ClassOffense:
		dc.SetRGBA(1, 1, 1, 0.92)
	case board.ClassDefense:
		dc.SetRGBA(0.9, 0.9, 0.9, 0.85)
	default:
		dc.SetRGBA(0.82, 0.82, 0.82, 0.8)
	}
	dc.DrawCircle(p.Pos.X, p.Pos.Y, p.Radius)
	dc.FillPreserve()

	if selected {
		dc.SetRGBA(59/255.0, 130/255.0, 246/255.0, 0.95)
		dc.SetLineWidth(selectWidth)
	} else {
		dc.SetRGBA(0, 0, 0, 0.75)
		dc.SetLineWidth(outlineWidth)
	}
	dc.Stroke()

	dc.SetRGBA(0, 0, 0, 0.92)
	dc.DrawStringAnchored(p.Label, p.Pos.X, p.Pos.Y, 0.5, 0.5)
}
