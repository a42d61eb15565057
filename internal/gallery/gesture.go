package gallery

import "math"

// DragStartDistance is how far the pointer may wander from where it went down
// before the gesture counts as a drag instead of a click.
const DragStartDistance = 3.0

// Point is a pointer position in page units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outcome is what a finished pointer gesture amounts to.
type Outcome struct {
	// Click is true for a press and release that never became a drag.
	Click bool
	// Dragged is true once the pointer moved past DragStartDistance.
	Dragged bool
	// Offset is the release position relative to the press.
	Offset Point
}

// Intent is the reorder intent of the gesture's final offset.
func (o Outcome) Intent() float64 {
	return Intent(o.Offset.X, o.Offset.Y)
}

// Gesture tracks a single pointer-down, move*, pointer-up sequence on a grid
// tile. Moves only update the transient offset; nothing is decided until Up.
type Gesture struct {
	origin   Point
	offset   Point
	active   bool
	dragging bool
}

// Down starts the gesture at p.
func (g *Gesture) Down(p Point) {
	*g = Gesture{origin: p, active: true}
}

// Move updates the visual offset. Once the pointer leaves the drag start
// radius the gesture stays a drag, even if it comes back.
func (g *Gesture) Move(p Point) {
	if !g.active {
		return
	}
	g.offset = Point{X: p.X - g.origin.X, Y: p.Y - g.origin.Y}
	if math.Hypot(g.offset.X, g.offset.Y) > DragStartDistance {
		g.dragging = true
	}
}

// Dragging reports whether a click on the tile is currently suppressed.
func (g *Gesture) Dragging() bool {
	return g.dragging
}

// Offset is the transient offset to draw the tile at.
func (g *Gesture) Offset() Point {
	return g.offset
}

// Up ends the gesture at p and resets it.
func (g *Gesture) Up(p Point) Outcome {
	if !g.active {
		return Outcome{}
	}
	g.Move(p)
	out := Outcome{
		Click:   !g.dragging,
		Dragged: g.dragging,
		Offset:  g.offset,
	}
	*g = Gesture{}
	return out
}

// Replay runs a recorded trace: the first point is the press, the last the
// release and everything between are moves. An empty trace is a no-op.
func Replay(points []Point) Outcome {
	if len(points) == 0 {
		return Outcome{}
	}
	var g Gesture
	g.Down(points[0])
	for i := 1; i < len(points)-1; i++ {
		g.Move(points[i])
	}
	return g.Up(points[len(points)-1])
}
