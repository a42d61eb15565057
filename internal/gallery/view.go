package gallery

import "errors"

var ErrNoSelection = errors.New("gallery: lightbox has no selection")

// staggerStep is the appearance delay between consecutive grid tiles, in seconds.
const staggerStep = 0.05

// selectedStack keeps the selected dock thumbnail above its neighbours.
const selectedStack = 30

// Tile is a grid cell.
type Tile struct {
	Entry
	Index int
	Delay float64
}

// Thumb is a dock thumbnail.
type Thumb struct {
	Entry
	Selected bool
	Stack    int
}

// Modal is everything the lightbox draws.
type Modal struct {
	Stage      Entry
	Dock       []Thumb
	DockOffset Point
}

// GridView lays out the tiles of a Browsing gallery.
func GridView(s Snapshot) []Tile {
	tiles := make([]Tile, len(s.Entries))
	for i, e := range s.Entries {
		tiles[i] = Tile{Entry: e, Index: i, Delay: float64(i) * staggerStep}
	}
	return tiles
}

// ModalView builds the lightbox for a Viewing gallery. The dock lists every
// entry in the current order; earlier thumbnails stack above later ones and
// the selected one above all.
func ModalView(s Snapshot) (Modal, error) {
	stage, ok := s.SelectedEntry()
	if !ok {
		return Modal{}, ErrNoSelection
	}
	m := Modal{
		Stage:      stage,
		Dock:       make([]Thumb, len(s.Entries)),
		DockOffset: s.Dock,
	}
	for i, e := range s.Entries {
		t := Thumb{Entry: e, Stack: len(s.Entries) - i}
		if e.ID == stage.ID {
			t.Selected = true
			t.Stack = selectedStack
		}
		m.Dock[i] = t
	}
	return m, nil
}
