package persist

import (
	"context"
	"errors"
	"testing"

	"vitaplan/internal/routine"
)

func savedItems() []routine.Item {
	return []routine.Item{
		{TimeOfDay: routine.Morning, Supplement: "Vitamin D3 (1000 IU)", Instructions: "With breakfast", Reasoning: "Bone health", Time: "7:30 AM"},
		{TimeOfDay: routine.Evening, Supplement: "Magnesium Glycinate (400mg)", Instructions: "Before bed", Reasoning: "Sleep quality", Time: "9:30 PM"},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewRoutineStore(NewMemory())
	ctx := context.Background()

	if err := store.SaveRoutine(ctx, "client-1", savedItems(), []string{"sleep", "energy"}); err != nil {
		t.Fatalf("SaveRoutine: %v", err)
	}

	items, goals, ok, err := store.LoadRoutine(ctx, "client-1")
	if err != nil {
		t.Fatalf("LoadRoutine: %v", err)
	}
	if !ok {
		t.Fatal("expected a saved routine")
	}
	if len(items) != 2 || items[0].Supplement != "Vitamin D3 (1000 IU)" {
		t.Errorf("unexpected items: %v", items)
	}
	if len(goals) != 2 || goals[0] != "sleep" {
		t.Errorf("unexpected goals: %v", goals)
	}
}

func TestLoadMissingClient(t *testing.T) {
	store := NewRoutineStore(NewMemory())

	_, _, ok, err := store.LoadRoutine(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("LoadRoutine: %v", err)
	}
	if ok {
		t.Error("absent client reported a saved routine")
	}
}

func TestMalformedRoutineBlobTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	for _, blob := range []string{
		"not json at all",
		"[]",
		`[{"instructions":"no name or time"}]`,
	} {
		kv := NewMemory()
		if err := kv.Set(ctx, "saved_routine:c", []byte(blob)); err != nil {
			t.Fatal(err)
		}

		_, _, ok, err := NewRoutineStore(kv).LoadRoutine(ctx, "c")
		if err != nil {
			t.Fatalf("blob %q: unexpected error %v", blob, err)
		}
		if ok {
			t.Errorf("blob %q should load as absent", blob)
		}
	}
}

func TestMalformedGoalsDegradeIndependently(t *testing.T) {
	ctx := context.Background()
	store := NewRoutineStore(NewMemory())
	if err := store.SaveRoutine(ctx, "c", savedItems(), []string{"sleep"}); err != nil {
		t.Fatal(err)
	}
	// Corrupt only the goals blob.
	if err := store.kv.Set(ctx, "saved_goals:c", []byte("{broken")); err != nil {
		t.Fatal(err)
	}

	items, goals, ok, err := store.LoadRoutine(ctx, "c")
	if err != nil {
		t.Fatalf("LoadRoutine: %v", err)
	}
	if !ok || len(items) != 2 {
		t.Fatal("routine should still load when goals are unreadable")
	}
	if goals != nil {
		t.Errorf("unreadable goals should come back nil, got %v", goals)
	}
}

type failingKV struct{ err error }

func (f *failingKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f *failingKV) Set(context.Context, string, []byte) error         { return f.err }

func TestBackendFailureSurfacesAsError(t *testing.T) {
	boom := errors.New("connection refused")
	store := NewRoutineStore(&failingKV{err: boom})
	ctx := context.Background()

	if err := store.SaveRoutine(ctx, "c", savedItems(), nil); !errors.Is(err, boom) {
		t.Errorf("SaveRoutine error = %v, want wrapped %v", err, boom)
	}
	if _, _, _, err := store.LoadRoutine(ctx, "c"); !errors.Is(err, boom) {
		t.Errorf("LoadRoutine error = %v, want wrapped %v", err, boom)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	blob := []byte(`{"a":1}`)
	if err := kv.Set(ctx, "k", blob); err != nil {
		t.Fatal(err)
	}
	blob[0] = 'X'

	got, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got[0] != '{' {
		t.Error("stored value shares memory with the caller's slice")
	}

	got[0] = 'Y'
	again, _, _ := kv.Get(ctx, "k")
	if again[0] != '{' {
		t.Error("returned value shares memory with the store")
	}
}
