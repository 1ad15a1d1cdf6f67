package routine

import (
	"reflect"
	"testing"
)

func sampleRoutine() []Item {
	return []Item{
		{TimeOfDay: Morning, Supplement: "Vitamin D3 (1000 IU)", Instructions: "With breakfast", Reasoning: "Bone health", Time: "7:30 AM"},
		{TimeOfDay: Midday, Supplement: "Fish Oil (1000mg)", Instructions: "With lunch", Reasoning: "Omega-3s", Time: "12:30 PM"},
		{TimeOfDay: Evening, Supplement: "Magnesium Glycinate (400mg)", Instructions: "Before bed", Reasoning: "Sleep quality", Time: "9:30 PM"},
	}
}

func TestRemoveThenRestoreIsIdentity(t *testing.T) {
	log := NewEditLog(sampleRoutine())

	// Unrelated prior edits must not break reversibility.
	log.Swap(
		Item{Supplement: "Fish Oil (1000mg)", TimeOfDay: Midday},
		Item{TimeOfDay: Midday, Supplement: "Algal Oil (500mg DHA/EPA)", Instructions: "With lunch", Reasoning: "Plant-based omega-3s", Time: "12:30 PM"},
	)
	before := log.Effective()

	log.Remove(1)
	log.Restore(1)

	if !reflect.DeepEqual(log.Effective(), before) {
		t.Errorf("remove+restore changed the effective routine:\n got %v\nwant %v", log.Effective(), before)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	log := NewEditLog(sampleRoutine())
	log.Remove(0)
	once := log.Effective()
	log.Remove(0)

	if !reflect.DeepEqual(log.Effective(), once) {
		t.Error("removing the same index twice changed the effective routine")
	}
	if len(once) != 2 {
		t.Fatalf("expected 2 items after removal, got %d", len(once))
	}
}

func TestRemovedIndicesReferToOriginalPositions(t *testing.T) {
	log := NewEditLog(sampleRoutine())
	log.Remove(0)
	// Index 2 still names the magnesium entry even though the filtered view
	// has shifted.
	log.Remove(2)

	eff := log.Effective()
	if len(eff) != 1 || eff[0].Supplement != "Fish Oil (1000mg)" {
		t.Fatalf("unexpected effective routine: %v", eff)
	}

	log.Restore(2)
	eff = log.Effective()
	if len(eff) != 2 || eff[1].Supplement != "Magnesium Glycinate (400mg)" {
		t.Fatalf("restore(2) did not bring back the original index-2 item: %v", eff)
	}
}

func TestRestoreAllKeepsSwaps(t *testing.T) {
	log := NewEditLog(sampleRoutine())
	replacement := Item{TimeOfDay: Morning, Supplement: "Cod Liver Oil (1000mg)", Instructions: "With breakfast", Reasoning: "A and D plus omega-3s", Time: "7:30 AM"}
	log.Swap(Item{Supplement: "Vitamin D3 (1000 IU)", TimeOfDay: Morning}, replacement)

	log.Remove(0)
	log.Remove(1)
	log.Remove(2)
	log.RestoreAll()

	eff := log.Effective()
	if len(eff) != 3 {
		t.Fatalf("expected full routine back, got %d items", len(eff))
	}
	if eff[0].Supplement != "Cod Liver Oil (1000mg)" {
		t.Errorf("restoreAll undid the swap: %v", eff[0])
	}
}

func TestSwapMatchesOnNameAndTimeOfDay(t *testing.T) {
	items := sampleRoutine()
	// A second entry with the same supplement name in a different bucket
	// must not be touched.
	items = append(items, Item{TimeOfDay: Night, Supplement: "Vitamin D3 (1000 IU)", Instructions: "Before bed", Reasoning: "Duplicate", Time: "10:00 PM"})
	log := NewEditLog(items)

	replacement := Item{TimeOfDay: Night, Supplement: "Vitamin K2 (100mcg)", Instructions: "Before bed", Reasoning: "Synergy", Time: "10:00 PM"}
	log.Swap(Item{Supplement: "Vitamin D3 (1000 IU)", TimeOfDay: Night}, replacement)

	eff := log.Effective()
	if eff[0].Supplement != "Vitamin D3 (1000 IU)" {
		t.Error("swap replaced the wrong bucket's entry")
	}
	if eff[3].Supplement != "Vitamin K2 (100mcg)" {
		t.Error("swap missed the Night entry")
	}
}

func TestSwapMissIsSilentNoOp(t *testing.T) {
	log := NewEditLog(sampleRoutine())
	before := log.Effective()

	log.Swap(Item{Supplement: "Unknown Pill", TimeOfDay: Morning}, Item{Supplement: "Whatever"})

	if !reflect.DeepEqual(log.Effective(), before) {
		t.Error("an unmatched swap changed the routine")
	}
}

func TestEffectiveNeverMutatesOriginal(t *testing.T) {
	log := NewEditLog(sampleRoutine())
	log.Remove(1)

	eff := log.Effective()
	eff[0].Supplement = "mutated"

	if log.Original()[0].Supplement != "Vitamin D3 (1000 IU)" {
		t.Error("mutating the effective view leaked into the original")
	}
	if log.Effective()[0].Supplement == "mutated" {
		t.Error("Effective returned shared state between calls")
	}
}

func TestRemovedIndicesSortedAscending(t *testing.T) {
	log := NewEditLog(sampleRoutine())
	log.Remove(2)
	log.Remove(0)
	log.Remove(1)

	want := []int{0, 1, 2}
	for i := 0; i < 10; i++ {
		if got := log.RemovedIndices(); !reflect.DeepEqual(got, want) {
			t.Fatalf("RemovedIndices() = %v, want %v", got, want)
		}
	}
}

func TestEffectiveEntriesCarryOriginalIndices(t *testing.T) {
	log := NewEditLog(sampleRoutine())
	log.Remove(0)

	entries := log.EffectiveEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Index != 1 || entries[0].Supplement != "Fish Oil (1000mg)" {
		t.Errorf("first entry %+v should keep original index 1", entries[0])
	}
	if entries[1].Index != 2 {
		t.Errorf("second entry %+v should keep original index 2", entries[1])
	}
}

func TestSortEntriesForDisplayKeepsIndices(t *testing.T) {
	entries := []Entry{
		{Index: 0, Item: Item{TimeOfDay: Night, Supplement: "late"}},
		{Index: 1, Item: Item{TimeOfDay: Morning, Supplement: "early"}},
	}
	sorted := SortEntriesForDisplay(entries)

	if sorted[0].Index != 1 || sorted[1].Index != 0 {
		t.Errorf("sorting must reorder entries without touching their indices: %v", sorted)
	}
	if entries[0].Index != 0 {
		t.Error("SortEntriesForDisplay mutated its input")
	}
}

func TestDirtyFlagAfterSave(t *testing.T) {
	log := NewEditLog(sampleRoutine())
	log.Remove(0)
	if log.Dirty() {
		t.Error("edits before any save should not mark the log dirty")
	}

	log.MarkSaved()
	if log.Dirty() {
		t.Error("MarkSaved should clear the dirty flag")
	}

	log.Remove(1)
	if !log.Dirty() {
		t.Error("an edit after a save must set the dirty flag")
	}
}

func TestSortEntriesForDisplay(t *testing.T) {
	entries := []Entry{
		{Index: 0, Item: Item{TimeOfDay: Evening, Supplement: "A"}},
		{Index: 1, Item: Item{TimeOfDay: Morning, Supplement: "B"}},
		{Index: 2, Item: Item{TimeOfDay: Midday, Supplement: "C"}},
	}
	sorted := SortEntriesForDisplay(entries)

	var order []string
	for _, e := range sorted {
		order = append(order, e.TimeOfDay)
	}
	want := []string{Morning, Midday, Evening}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("sorted order %v, want %v", order, want)
	}

	// Input order is untouched.
	if entries[0].TimeOfDay != Evening {
		t.Error("SortEntriesForDisplay mutated its input")
	}
}

func TestSortEntriesForDisplayIsStableWithinBucket(t *testing.T) {
	entries := []Entry{
		{Index: 0, Item: Item{TimeOfDay: Morning, Supplement: "first"}},
		{Index: 1, Item: Item{TimeOfDay: Night, Supplement: "late"}},
		{Index: 2, Item: Item{TimeOfDay: Morning, Supplement: "second"}},
	}
	sorted := SortEntriesForDisplay(entries)

	if sorted[0].Supplement != "first" || sorted[1].Supplement != "second" {
		t.Errorf("ties must preserve original relative order, got %v", sorted)
	}
}

func TestSortEntriesForDisplayUnknownBucketSortsLast(t *testing.T) {
	entries := []Entry{
		{Index: 0, Item: Item{TimeOfDay: "Brunch", Supplement: "odd"}},
		{Index: 1, Item: Item{TimeOfDay: Night, Supplement: "night"}},
		{Index: 2, Item: Item{TimeOfDay: Morning, Supplement: "morning"}},
	}
	sorted := SortEntriesForDisplay(entries)

	if sorted[2].TimeOfDay != "Brunch" {
		t.Errorf("unknown bucket should sort after all known ones, got %v", sorted)
	}
}

func TestCleanNameAndDosage(t *testing.T) {
	if got := CleanName("Vitamin D3 (1000 IU)"); got != "Vitamin D3" {
		t.Errorf("CleanName = %q", got)
	}
	if got := Dosage("Vitamin D3 (1000 IU)"); got != "1000 IU" {
		t.Errorf("Dosage = %q", got)
	}
	if got := Dosage("Plain Name"); got != "" {
		t.Errorf("Dosage on plain name = %q", got)
	}
}
