package gallery

import "math"

// CommitThreshold is the combined drag offset a tile must exceed before the
// grid order changes.
const CommitThreshold = 50.0

// Intent collapses a drag offset into a single signed scalar. It is the sum of
// both axes, not the distance, so a drag up and to the right can cancel out.
func Intent(dx, dy float64) float64 {
	return dx + dy
}

// Commits reports whether a drag with the given intent reorders the grid.
func Commits(intent float64) bool {
	return math.Abs(intent) > CommitThreshold
}

// Reorder moves the entry at index one slot forward (positive intent) or
// backward (negative intent), clamped to the list bounds. The input slice is
// never modified. The boolean is false when nothing moved.
func Reorder(entries []Entry, index int, intent float64) ([]Entry, bool) {
	if index < 0 || index >= len(entries) || !Commits(intent) {
		return entries, false
	}

	target := index - 1
	if intent > 0 {
		target = index + 1
	}
	target = max(0, min(target, len(entries)-1))
	if target == index {
		return entries, false
	}

	out := cloneEntries(entries)
	dragged := out[index]
	out = append(out[:index], out[index+1:]...)
	out = append(out[:target], append([]Entry{dragged}, out[target:]...)...)
	return out, true
}
