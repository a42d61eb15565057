package gallery

import (
	"errors"
	"sync"
)

var ErrUnknownEntry = errors.New("gallery: unknown entry")

// State is the lightbox state of a gallery.
type State int

const (
	// Browsing shows the grid; nothing is selected.
	Browsing State = iota
	// Viewing shows the lightbox for the selected entry.
	Viewing
)

func (s State) String() string {
	if s == Viewing {
		return "viewing"
	}
	return "browsing"
}

// ChangeKind says which transition produced a Change.
type ChangeKind int

const (
	ChangeSelect ChangeKind = iota
	ChangeClose
	ChangeReorder
	ChangeDock
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeSelect:
		return "select"
	case ChangeClose:
		return "close"
	case ChangeReorder:
		return "reorder"
	case ChangeDock:
		return "dock"
	default:
		return "unknown"
	}
}

// Change is reported to the OnChange hook after every applied transition.
type Change struct {
	Kind     ChangeKind
	Entry    ID
	Snapshot Snapshot
}

// Snapshot is a copy of the gallery state. It is safe to keep and read after
// the controller moves on.
type Snapshot struct {
	Title       string
	Description string
	Entries     []Entry
	State       State
	// Selected is only meaningful while State is Viewing.
	Selected ID
	Dock     Point
}

// SelectedEntry returns the selected entry while Viewing.
func (s Snapshot) SelectedEntry() (Entry, bool) {
	if s.State != Viewing {
		return Entry{}, false
	}
	i := IndexOf(s.Entries, s.Selected)
	if i < 0 {
		return Entry{}, false
	}
	return s.Entries[i], true
}

// Order lists the entry ids in display order.
func (s Snapshot) Order() []ID {
	ids := make([]ID, len(s.Entries))
	for i, e := range s.Entries {
		ids[i] = e.ID
	}
	return ids
}

// Controller is the single owner of a mounted gallery's order, selection and
// dock offset. All transitions are serialized through its lock.
type Controller struct {
	mu          sync.Mutex
	title       string
	description string
	entries     []Entry
	selected    ID
	viewing     bool
	dock        Dock
	onChange    func(Change)
}

// NewController mounts a gallery over a copy of entries, in Browsing state.
func NewController(title, description string, entries []Entry) *Controller {
	return &Controller{
		title:       title,
		description: description,
		entries:     cloneEntries(entries),
	}
}

// OnChange installs a hook called after each applied transition. The hook
// runs with the controller locked and must not call back into it.
func (c *Controller) OnChange(fn func(Change)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns Browsing or Viewing.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.viewing {
		return Viewing
	}
	return Browsing
}

// Select opens the lightbox on id, or switches the lightbox to id if it is
// already open. Opening puts the dock back at its origin; switching keeps it.
func (c *Controller) Select(id ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if IndexOf(c.entries, id) < 0 {
		return ErrUnknownEntry
	}
	if !c.viewing {
		c.dock.Reset()
		c.viewing = true
	}
	c.selected = id
	c.notifyLocked(ChangeSelect, id)
	return nil
}

// Close returns to Browsing. It reports false if the lightbox was not open.
func (c *Controller) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.viewing {
		return false
	}
	closed := c.selected
	c.viewing = false
	c.selected = 0
	c.dock.Reset()
	c.notifyLocked(ChangeClose, closed)
	return true
}

// DragEntry applies a finished grid drag of (dx, dy) to the tile showing id.
// The grid is not on screen while Viewing, so drags are ignored then.
func (c *Controller) DragEntry(id ID, dx, dy float64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.viewing {
		return false, nil
	}
	index := IndexOf(c.entries, id)
	if index < 0 {
		return false, ErrUnknownEntry
	}
	reordered, moved := Reorder(c.entries, index, Intent(dx, dy))
	if !moved {
		return false, nil
	}
	c.entries = reordered
	c.notifyLocked(ChangeReorder, id)
	return true, nil
}

// DragDock moves the lightbox dock. It is a no-op while Browsing.
func (c *Controller) DragDock(dx, dy float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.viewing {
		return false
	}
	c.dock.Drag(dx, dy)
	c.notifyLocked(ChangeDock, c.selected)
	return true
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Title:       c.title,
		Description: c.description,
		Entries:     cloneEntries(c.entries),
		State:       Browsing,
		Dock:        c.dock.Offset(),
	}
	if c.viewing {
		s.State = Viewing
		s.Selected = c.selected
	}
	return s
}

func (c *Controller) notifyLocked(kind ChangeKind, id ID) {
	if c.onChange == nil {
		return
	}
	c.onChange(Change{Kind: kind, Entry: id, Snapshot: c.snapshotLocked()})
}
