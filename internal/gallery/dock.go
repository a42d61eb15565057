package gallery

// Dock is the floating thumbnail strip of the open lightbox. Unlike grid
// tiles it is not pinned: every drag moves it by the gesture offset and it
// stays there until the lightbox is closed.
type Dock struct {
	offset Point
}

// Drag translates the dock by a finished drag's offset.
func (d *Dock) Drag(dx, dy float64) {
	d.offset.X += dx
	d.offset.Y += dy
}

// Offset is the current translation from the dock's resting position.
func (d *Dock) Offset() Point {
	return d.offset
}

// Reset puts the dock back at its origin.
func (d *Dock) Reset() {
	d.offset = Point{}
}
