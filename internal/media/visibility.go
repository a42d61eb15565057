// Package media drives playback of gallery videos from visibility reports.
package media

// Default observer settings: start playback a little before the tile scrolls
// in, once a tenth of it would be on screen.
const (
	DefaultMargin    = 50.0
	DefaultThreshold = 0.1
)

// Rect is an axis-aligned box in page units.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r Rect) area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Grow returns r expanded by m on every side.
func (r Rect) Grow(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Intersect returns the overlap of r and o and whether they overlap at all.
// Touching edges count as overlapping with zero area.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 < x0 || y1 < y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// Observer decides whether a target counts as visible within a viewport.
type Observer struct {
	Margin    float64
	Threshold float64
}

// NewObserver returns an observer with the default margin and threshold.
func NewObserver() Observer {
	return Observer{Margin: DefaultMargin, Threshold: DefaultThreshold}
}

// Visible reports whether target overlaps the margin-grown viewport by at
// least Threshold of its own area. A target with no area is visible when it
// lies inside the grown viewport.
func (o Observer) Visible(viewport, target Rect) bool {
	overlap, ok := viewport.Grow(o.Margin).Intersect(target)
	if !ok {
		return false
	}
	total := target.area()
	if total == 0 {
		return true
	}
	covered := overlap.area()
	return covered > 0 && covered/total >= o.Threshold
}
