package geom

const (
	DefaultMinScale = 0.5
	DefaultMaxScale = 3.0
)

// View is the pan/zoom state of one board view. Device = logical*Scale + Translate.
type View struct {
	Scale     float64
	Translate Point

	MinScale float64
	MaxScale float64
}

// NewView returns an identity view bounded to [minScale, maxScale]. A zero or
// inverted range falls back to the defaults.
func NewView(minScale, maxScale float64) *View {
	if minScale <= 0 || maxScale < minScale {
		minScale, maxScale = DefaultMinScale, DefaultMaxScale
	}
	return &View{Scale: 1, MinScale: minScale, MaxScale: maxScale}
}

// Clamp bounds s to the view's scale range.
func (v *View) Clamp(s float64) float64 {
	if s < v.MinScale {
		return v.MinScale
	}
	if s > v.MaxScale {
		return v.MaxScale
	}
	return s
}

// ToLogical converts a device point into logical space.
func (v *View) ToLogical(p Point) Point {
	return Point{
		X: (p.X - v.Translate.X) / v.Scale,
		Y: (p.Y - v.Translate.Y) / v.Scale,
	}
}

// ToDevice converts a logical point into device space.
func (v *View) ToDevice(p Point) Point {
	return Point{
		X: p.X*v.Scale + v.Translate.X,
		Y: p.Y*v.Scale + v.Translate.Y,
	}
}

// ZoomAt sets the scale (clamped) while keeping the logical point under the
// device anchor fixed on screen.
func (v *View) ZoomAt(anchor Point, scale float64) {
	before := v.ToLogical(anchor)
	v.Scale = v.Clamp(scale)
	v.Translate = Point{
		X: anchor.X - before.X*v.Scale,
		Y: anchor.Y - before.Y*v.Scale,
	}
}

// ZoomBy multiplies the current scale by factor around anchor.
func (v *View) ZoomBy(anchor Point, factor float64) {
	v.ZoomAt(anchor, v.Scale*factor)
}

// PanBy shifts the translation by a device-space delta.
func (v *View) PanBy(d Point) {
	v.Translate = v.Translate.Add(d)
}

// Reset returns the view to scale 1 with no translation.
func (v *View) Reset() {
	v.Scale = 1
	v.Translate = Point{}
}
