package gallery

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
)

func threeEntries() []Entry {
	return []Entry{
		{ID: 1, Title: "one"},
		{ID: 2, Title: "two"},
		{ID: 3, Title: "three"},
	}
}

func ids(entries []Entry) []ID {
	out := make([]ID, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestCommitsThreshold(t *testing.T) {
	cases := []struct {
		dx, dy float64
		want   bool
	}{
		{40, 20, true},
		{30, 10, false},
		{50, 0, false},
		{50.5, 0, true},
		{-40, -20, true},
		{100, -80, false},
	}
	for _, tc := range cases {
		if got := Commits(Intent(tc.dx, tc.dy)); got != tc.want {
			t.Errorf("Commits(Intent(%v, %v)) = %v, want %v", tc.dx, tc.dy, got, tc.want)
		}
	}
}

func TestReorderMovesOneSlot(t *testing.T) {
	entries := threeEntries()

	got, moved := Reorder(entries, 0, 100)
	if !moved {
		t.Fatal("expected a positive drag over the threshold to reorder")
	}
	if want := []ID{2, 1, 3}; !slices.Equal(ids(got), want) {
		t.Fatalf("order = %v, want %v", ids(got), want)
	}
	if want := []ID{1, 2, 3}; !slices.Equal(ids(entries), want) {
		t.Fatalf("input was modified: %v", ids(entries))
	}

	got, moved = Reorder(entries, 2, -60)
	if !moved {
		t.Fatal("expected a negative drag over the threshold to reorder")
	}
	if want := []ID{1, 3, 2}; !slices.Equal(ids(got), want) {
		t.Fatalf("order = %v, want %v", ids(got), want)
	}
}

func TestReorderClampsAtBounds(t *testing.T) {
	entries := threeEntries()

	if _, moved := Reorder(entries, 2, 500); moved {
		t.Error("dragging the last entry forward must not move it")
	}
	if _, moved := Reorder(entries, 0, -500); moved {
		t.Error("dragging the first entry backward must not move it")
	}
	if _, moved := Reorder(entries, 7, 100); moved {
		t.Error("an out of range index must not move anything")
	}
	if _, moved := Reorder(entries, 1, 40); moved {
		t.Error("a drag under the threshold must not move anything")
	}
}

func TestReorderKeepsPermutation(t *testing.T) {
	entries := make([]Entry, 12)
	for i := range entries {
		entries[i] = Entry{ID: ID(i + 100)}
	}
	want := ids(entries)
	slices.Sort(want)

	rng := rand.New(rand.NewSource(7))
	for step := 0; step < 500; step++ {
		index := rng.Intn(len(entries)+2) - 1
		intent := rng.Float64()*400 - 200
		entries, _ = Reorder(entries, index, intent)

		got := ids(entries)
		slices.Sort(got)
		if !slices.Equal(got, want) {
			t.Fatalf("step %d: ids %v are not a permutation of %v", step, got, want)
		}
	}
}

func TestGestureClickWithoutMove(t *testing.T) {
	out := Replay([]Point{{10, 10}, {10, 10}})
	if !out.Click || out.Dragged {
		t.Fatalf("press and release in place = %+v, want a click", out)
	}

	out = Replay([]Point{{5, 5}})
	if !out.Click {
		t.Fatalf("single point trace = %+v, want a click", out)
	}
}

func TestGestureDragSuppressesClick(t *testing.T) {
	var g Gesture
	g.Down(Point{0, 0})
	g.Move(Point{30, 0})
	if !g.Dragging() {
		t.Fatal("expected the gesture to be dragging after leaving the start radius")
	}
	g.Move(Point{60, 20})
	if off := g.Offset(); off.X != 60 || off.Y != 20 {
		t.Fatalf("offset = %+v, want {60 20}", off)
	}

	out := g.Up(Point{60, 40})
	if out.Click {
		t.Fatal("a drag must not produce a click")
	}
	if out.Intent() != 100 {
		t.Fatalf("intent = %v, want 100", out.Intent())
	}
	if g.Dragging() {
		t.Fatal("gesture must reset after Up")
	}
}

func TestGestureSmallDragStillSuppressesClick(t *testing.T) {
	// Wandering away and coming back is still a drag.
	out := Replay([]Point{{0, 0}, {10, 0}, {0, 0}})
	if out.Click {
		t.Fatal("returning to the origin after a drag must not click")
	}
	if Commits(out.Intent()) {
		t.Fatal("a drag back to the origin must not commit a reorder")
	}
}

func TestControllerScenario(t *testing.T) {
	c := NewController("Shots", "desc", threeEntries())

	if c.State() != Browsing {
		t.Fatalf("initial state = %v, want browsing", c.State())
	}
	if err := c.Select(2); err != nil {
		t.Fatalf("Select(2): %v", err)
	}
	s := c.Snapshot()
	if s.State != Viewing || s.Selected != 2 {
		t.Fatalf("after Select(2): state %v selected %d", s.State, s.Selected)
	}

	if err := c.Select(3); err != nil {
		t.Fatalf("Select(3): %v", err)
	}
	s = c.Snapshot()
	if s.State != Viewing || s.Selected != 3 {
		t.Fatalf("after Select(3): state %v selected %d", s.State, s.Selected)
	}

	if !c.Close() {
		t.Fatal("Close while viewing returned false")
	}
	if _, ok := c.Snapshot().SelectedEntry(); ok || c.State() != Browsing {
		t.Fatal("expected browsing with no selection after Close")
	}
	if c.Close() {
		t.Fatal("Close while browsing returned true")
	}
}

func TestControllerRejectsUnknownEntry(t *testing.T) {
	c := NewController("", "", threeEntries())
	if err := c.Select(42); !errors.Is(err, ErrUnknownEntry) {
		t.Fatalf("Select(42) error = %v, want ErrUnknownEntry", err)
	}
	if c.State() != Browsing {
		t.Fatal("a rejected select must not open the lightbox")
	}
	if _, err := c.DragEntry(42, 100, 0); !errors.Is(err, ErrUnknownEntry) {
		t.Fatalf("DragEntry(42) error = %v, want ErrUnknownEntry", err)
	}
}

func TestControllerDragReorders(t *testing.T) {
	c := NewController("", "", threeEntries())

	moved, err := c.DragEntry(1, 60, 40)
	if err != nil || !moved {
		t.Fatalf("DragEntry(1, 60, 40) = %v, %v", moved, err)
	}
	if want := []ID{2, 1, 3}; !slices.Equal(c.Snapshot().Order(), want) {
		t.Fatalf("order = %v, want %v", c.Snapshot().Order(), want)
	}

	if err := c.Select(3); err != nil {
		t.Fatal(err)
	}
	moved, err = c.DragEntry(3, -100, 0)
	if err != nil || moved {
		t.Fatalf("drag while viewing = %v, %v; want ignored", moved, err)
	}
	if want := []ID{2, 1, 3}; !slices.Equal(c.Snapshot().Order(), want) {
		t.Fatalf("order changed while viewing: %v", c.Snapshot().Order())
	}
}

func TestControllerDockResetsOnOpen(t *testing.T) {
	c := NewController("", "", threeEntries())

	if c.DragDock(10, 10) {
		t.Fatal("dock must not move while browsing")
	}
	_ = c.Select(1)
	c.DragDock(15, -5)
	c.DragDock(5, -5)
	if d := c.Snapshot().Dock; d.X != 20 || d.Y != -10 {
		t.Fatalf("dock = %+v, want {20 -10}", d)
	}

	_ = c.Select(2)
	if d := c.Snapshot().Dock; d.X != 20 || d.Y != -10 {
		t.Fatalf("switching selection moved the dock to %+v", d)
	}

	c.Close()
	_ = c.Select(2)
	if d := c.Snapshot().Dock; d != (Point{}) {
		t.Fatalf("dock after reopen = %+v, want origin", d)
	}
}

func TestControllerOnChange(t *testing.T) {
	c := NewController("", "", threeEntries())
	var kinds []ChangeKind
	c.OnChange(func(ch Change) {
		kinds = append(kinds, ch.Kind)
		if ch.Kind == ChangeReorder {
			if want := []ID{2, 1, 3}; !slices.Equal(ch.Snapshot.Order(), want) {
				t.Errorf("reorder snapshot = %v, want %v", ch.Snapshot.Order(), want)
			}
		}
	})

	_, _ = c.DragEntry(1, 100, 0)
	_, _ = c.DragEntry(1, 10, 0)
	_ = c.Select(3)
	c.DragDock(1, 1)
	c.Close()

	want := []ChangeKind{ChangeReorder, ChangeSelect, ChangeDock, ChangeClose}
	if !slices.Equal(kinds, want) {
		t.Fatalf("changes = %v, want %v", kinds, want)
	}
}

func TestModalView(t *testing.T) {
	c := NewController("", "", threeEntries())
	if _, err := ModalView(c.Snapshot()); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("ModalView while browsing error = %v, want ErrNoSelection", err)
	}

	_ = c.Select(2)
	m, err := ModalView(c.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if m.Stage.ID != 2 {
		t.Fatalf("stage = %d, want 2", m.Stage.ID)
	}
	if len(m.Dock) != 3 {
		t.Fatalf("dock has %d thumbs, want 3", len(m.Dock))
	}
	wantStack := []int{3, 30, 1}
	for i, th := range m.Dock {
		if th.Stack != wantStack[i] {
			t.Errorf("thumb %d stack = %d, want %d", i, th.Stack, wantStack[i])
		}
		if th.Selected != (th.ID == 2) {
			t.Errorf("thumb %d selected = %v", i, th.Selected)
		}
	}
}

func TestGridViewStagger(t *testing.T) {
	tiles := GridView(Snapshot{Entries: threeEntries()})
	if len(tiles) != 3 || tiles[2].Index != 2 {
		t.Fatalf("unexpected tiles %+v", tiles)
	}
	if tiles[2].Delay <= tiles[1].Delay || tiles[0].Delay != 0 {
		t.Fatalf("delays are not staggered: %v %v %v", tiles[0].Delay, tiles[1].Delay, tiles[2].Delay)
	}
}

func TestParseKind(t *testing.T) {
	if ParseKind("Video") != KindVideo || ParseKind("image") != KindImage || ParseKind("gif") != KindImage {
		t.Fatal("ParseKind mapped a type incorrectly")
	}
}
