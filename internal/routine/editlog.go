package routine

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// EditLog tracks user-initiated removals and swaps against an AI-generated
// routine. The original sequence is kept intact: removals are a set of
// original indices and swaps are in-place replacements, so every edit stays
// reversible and the effective view can always be recomputed from scratch.
type EditLog struct {
	original []Item
	working  []Item // original with swaps applied, same length and order
	removed  map[int]struct{}

	saved bool
	dirty bool
}

// NewEditLog starts an edit log over a freshly generated (or loaded) routine.
func NewEditLog(items []Item) *EditLog {
	original := make([]Item, len(items))
	copy(original, items)
	working := make([]Item, len(items))
	copy(working, items)
	return &EditLog{
		original: original,
		working:  working,
		removed:  make(map[int]struct{}),
	}
}

// Original returns a copy of the untouched routine as the collaborator
// produced it.
func (e *EditLog) Original() []Item {
	out := make([]Item, len(e.original))
	copy(out, e.original)
	return out
}

// Remove marks the item at the original-array index as removed. Removing an
// already-removed index is a no-op, and out-of-range indices are ignored.
func (e *EditLog) Remove(index int) {
	if index < 0 || index >= len(e.working) {
		log.Warn().Int("index", index).Msg("remove: index out of range, ignoring")
		return
	}
	if _, ok := e.removed[index]; ok {
		return
	}
	e.removed[index] = struct{}{}
	e.touch()
}

// Restore un-marks a removed index. No-op when the index is not removed.
func (e *EditLog) Restore(index int) {
	if _, ok := e.removed[index]; !ok {
		return
	}
	delete(e.removed, index)
	e.touch()
}

// RestoreAll clears every removal in one operation. Swaps are untouched.
func (e *EditLog) RestoreAll() {
	if len(e.removed) == 0 {
		return
	}
	e.removed = make(map[int]struct{})
	e.touch()
}

// Swap replaces the first item matching the target's (supplement name,
// time of day) pair with the replacement. Matching runs against the current
// working view so a previously swapped-in item can itself be swapped again.
// A miss is dropped silently apart from a diagnostic log entry.
func (e *EditLog) Swap(target, replacement Item) {
	for i := range e.working {
		if e.working[i].Supplement == target.Supplement && e.working[i].TimeOfDay == target.TimeOfDay {
			e.working[i] = replacement
			e.touch()
			return
		}
	}
	log.Warn().
		Str("supplement", target.Supplement).
		Str("time_of_day", target.TimeOfDay).
		Msg("swap: no matching routine item, dropping edit")
}

// Effective recomputes the displayed routine: swaps applied, removed indices
// filtered out, original order preserved. The returned slice is a fresh copy;
// neither the original nor the working view is ever handed out for mutation.
func (e *EditLog) Effective() []Item {
	out := make([]Item, 0, len(e.working))
	for i, item := range e.working {
		if _, gone := e.removed[i]; gone {
			continue
		}
		out = append(out, item)
	}
	return out
}

// EffectiveEntries is Effective with each item's original-array index
// attached, for views that must address items for further edits.
func (e *EditLog) EffectiveEntries() []Entry {
	out := make([]Entry, 0, len(e.working))
	for i, item := range e.working {
		if _, gone := e.removed[i]; gone {
			continue
		}
		out = append(out, Entry{Index: i, Item: item})
	}
	return out
}

// RemovedIndices reports the currently removed original-array indices in
// ascending order.
func (e *EditLog) RemovedIndices() []int {
	out := make([]int, 0, len(e.removed))
	for i := range e.removed {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// MarkSaved records that the current effective routine has been persisted.
// Edits made after this point flip the dirty flag.
func (e *EditLog) MarkSaved() {
	e.saved = true
	e.dirty = false
}

// Dirty reports whether edits happened after the last save.
func (e *EditLog) Dirty() bool {
	return e.dirty
}

func (e *EditLog) touch() {
	if e.saved {
		e.dirty = true
	}
}
