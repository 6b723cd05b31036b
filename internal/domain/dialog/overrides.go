package dialog

import "sort"

// Overrides remembers which scripts the user forced on or off. An index is
// never in both sets.
type Overrides struct {
	selected   map[int]struct{}
	deselected map[int]struct{}
}

// NewOverrides creates an empty override tracker
func NewOverrides() *Overrides {
	return &Overrides{
		selected:   make(map[int]struct{}),
		deselected: make(map[int]struct{}),
	}
}

// Toggle applies a user click on the control for index. active is what the
// control currently shows. Membership is checked first: a manual override is
// removed on the next click, otherwise the opposite of what is shown is forced.
func (o *Overrides) Toggle(index int, active bool) {
	switch {
	case o.IsDeselected(index):
		// Back to automatic evaluation
		delete(o.deselected, index)
	case o.IsSelected(index):
		delete(o.selected, index)
	case active:
		// Shown active without a manual pick, so its own test activated it
		o.deselected[index] = struct{}{}
	default:
		o.selected[index] = struct{}{}
	}
}

// IsSelected reports whether the user forced index on
func (o *Overrides) IsSelected(index int) bool {
	_, ok := o.selected[index]
	return ok
}

// IsDeselected reports whether the user forced index off
func (o *Overrides) IsDeselected(index int) bool {
	_, ok := o.deselected[index]
	return ok
}

// Selected returns the forced-on indices in ascending order
func (o *Overrides) Selected() []int {
	return sortedIndices(o.selected)
}

// Deselected returns the forced-off indices in ascending order
func (o *Overrides) Deselected() []int {
	return sortedIndices(o.deselected)
}

func sortedIndices(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
