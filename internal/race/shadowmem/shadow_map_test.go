package shadowmem

import (
	"sync"
	"testing"

	"github.com/kolkov/forkjoin/internal/race/epoch"
)

func TestLocString(t *testing.T) {
	tests := []struct {
		loc  Loc
		want string
	}{
		{Scalar("sum"), "sum"},
		{Index("array", 5), "array[5]"},
		{Private("temp", 3), "temp#3"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if Scalar("sum").IsIndexed() || !Index("array", 0).IsIndexed() {
		t.Error("IsIndexed() mismatch")
	}
}

// TestShadowMemoryGetOrCreate checks create-once semantics.
func TestShadowMemoryGetOrCreate(t *testing.T) {
	sm := NewShadowMemory()
	loc := Scalar("sum")

	if sm.Get(loc) != nil {
		t.Fatal("Get() on empty shadow memory returned a cell")
	}

	vs := sm.GetOrCreate(loc)
	vs.W = epoch.NewEpoch(1, 2)

	if again := sm.GetOrCreate(loc); again != vs {
		t.Error("GetOrCreate() returned a different cell for the same location")
	}
	if sm.Get(loc) != vs {
		t.Error("Get() did not return the created cell")
	}
	if sm.GetOrCreate(Index("sum", 0)) == vs {
		t.Error("indexed and scalar locations share a cell")
	}
}

func TestShadowMemoryLocsSorted(t *testing.T) {
	sm := NewShadowMemory()
	sm.GetOrCreate(Index("array", 2))
	sm.GetOrCreate(Scalar("sum"))
	sm.GetOrCreate(Index("array", 0))

	got := sm.Locs()
	want := []Loc{Index("array", 0), Index("array", 2), Scalar("sum")}
	if len(got) != len(want) {
		t.Fatalf("Locs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Locs()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestShadowMemoryConcurrentGetOrCreate verifies one cell per location under contention.
func TestShadowMemoryConcurrentGetOrCreate(t *testing.T) {
	sm := NewShadowMemory()
	loc := Scalar("max_val")
	const goroutines = 64

	cells := make([]*VarState, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cells[i] = sm.GetOrCreate(loc)
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if cells[i] != cells[0] {
			t.Fatalf("goroutine %d got a different cell", i)
		}
	}
}

func BenchmarkShadowMemory_GetOrCreate_Hit(b *testing.B) {
	sm := NewShadowMemory()
	loc := Index("array", 1)
	sm.GetOrCreate(loc)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sm.GetOrCreate(loc)
	}
}
