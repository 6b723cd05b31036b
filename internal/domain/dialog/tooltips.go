package dialog

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Counter keys tracked by the ledger next to the working fields
const (
	TrackedAdvantage    = "advantage"
	TrackedDisadvantage = "disadvantage"
)

var trackedOrder = []string{
	FieldModifier,
	FieldSuccessLevel,
	FieldDifficulty,
	FieldState,
	FieldRollMode,
	TrackedAdvantage,
	TrackedDisadvantage,
}

// TrackedSource exposes the values a ledger bracket compares
type TrackedSource interface {
	TrackedValues() map[string]any
}

// Delta is a single field change inside a tooltip entry
type Delta struct {
	Field  string `json:"field"`
	Before any    `json:"before"`
	After  any    `json:"after"`
}

// TooltipEntry records what one labelled operation changed
type TooltipEntry struct {
	Label  string  `json:"label"`
	Deltas []Delta `json:"deltas"`
}

// String renders the entry as a breakdown line
func (e TooltipEntry) String() string {
	parts := make([]string, 0, len(e.Deltas))
	for _, d := range e.Deltas {
		parts = append(parts, fmt.Sprintf("%s changed from %s to %s", d.Field, formatValue(d.Before), formatValue(d.After)))
	}
	return fmt.Sprintf("%s: %s", e.Label, strings.Join(parts, ", "))
}

// Ledger is the ordered audit log of labelled field changes for one pass.
// Brackets are sequential: Start must be followed by Finish before the next Start.
type Ledger struct {
	entries []TooltipEntry
	before  map[string]any
	open    bool
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Start snapshots the tracked values of src
func (l *Ledger) Start(src TrackedSource) {
	l.before = copyValues(src.TrackedValues())
	l.open = true
}

// Finish compares src against the snapshot taken by Start and appends an
// entry labelled label when anything changed
func (l *Ledger) Finish(src TrackedSource, label string) {
	if !l.open {
		return
	}
	l.open = false

	deltas := diffValues(l.before, src.TrackedValues())
	l.before = nil
	if len(deltas) == 0 {
		return
	}

	l.entries = append(l.entries, TooltipEntry{
		Label:  label,
		Deltas: deltas,
	})
}

// Clear empties the ledger
func (l *Ledger) Clear() {
	l.entries = nil
	l.before = nil
	l.open = false
}

// Len returns the number of recorded entries
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the recorded entries in insertion order
func (l *Ledger) Entries() []TooltipEntry {
	out := make([]TooltipEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = TooltipEntry{
			Label:  e.Label,
			Deltas: append([]Delta(nil), e.Deltas...),
		}
	}
	return out
}

// Breakdown renders one human readable line per entry, in ledger order
func (l *Ledger) Breakdown() []string {
	lines := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		lines = append(lines, e.String())
	}
	return lines
}

func copyValues(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func diffValues(before, after map[string]any) []Delta {
	var deltas []Delta
	for _, key := range orderedKeys(before, after) {
		b, hadBefore := before[key]
		a, hasAfter := after[key]
		if hadBefore == hasAfter && reflect.DeepEqual(b, a) {
			continue
		}
		deltas = append(deltas, Delta{Field: key, Before: b, After: a})
	}
	return deltas
}

func orderedKeys(maps ...map[string]any) []string {
	seen := make(map[string]bool)
	keys := make([]string, 0, len(trackedOrder))
	for _, k := range trackedOrder {
		for _, m := range maps {
			if _, ok := m[k]; ok {
				keys = append(keys, k)
				seen[k] = true
				break
			}
		}
	}

	var extra []string
	for _, m := range maps {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func formatValue(v any) string {
	if v == nil {
		return "nothing"
	}
	return fmt.Sprintf("%v", v)
}
