package shadowmem

import (
	"testing"

	"github.com/kolkov/forkjoin/internal/race/epoch"
	"github.com/kolkov/forkjoin/internal/race/vectorclock"
)

// TestVarStateNewZero verifies that NewVarState creates a never-accessed state.
func TestVarStateNewZero(t *testing.T) {
	vs := NewVarState()
	if vs.W != 0 {
		t.Errorf("NewVarState().W = %v, want 0", vs.W)
	}
	if vs.GetReadEpoch() != 0 {
		t.Errorf("NewVarState().GetReadEpoch() = %v, want 0", vs.GetReadEpoch())
	}
	if vs.IsPromoted() {
		t.Error("NewVarState() should not be promoted")
	}
}

// TestVarStatePromotion folds the existing reader into the read clock.
func TestVarStatePromotion(t *testing.T) {
	vs := NewVarState()
	vs.SetReadEpoch(epoch.NewEpoch(1, 4))

	vs.PromoteToReadClock(epoch.NewEpoch(2, 9))

	if !vs.IsPromoted() {
		t.Fatal("state not promoted")
	}
	if vs.GetReadEpoch() != 0 {
		t.Error("read epoch not cleared on promotion")
	}

	// Both readers are kept: a clock that saw only worker 1 conflicts with
	// worker 2's read.
	seen := vectorclock.New()
	seen.Set(1, 4)
	if got, want := vs.ConflictingRead(seen), epoch.NewEpoch(2, 9); got != want {
		t.Errorf("ConflictingRead = %v, want %v", got, want)
	}
	seen.Set(2, 9)
	if got := vs.ConflictingRead(seen); got != 0 {
		t.Errorf("ConflictingRead = %v after seeing both readers", got)
	}

	// SetReadEpoch is ignored once promoted, AddReader is not.
	vs.SetReadEpoch(epoch.NewEpoch(3, 1))
	vs.AddReader(epoch.NewEpoch(3, 6))
	if got, want := vs.ConflictingRead(seen), epoch.NewEpoch(3, 6); got != want {
		t.Errorf("AddReader not recorded: ConflictingRead = %v, want %v", got, want)
	}

	vs.Demote()
	if vs.IsPromoted() {
		t.Error("Demote() left state promoted")
	}
}

func TestVarStateConflictingRead(t *testing.T) {
	observer := vectorclock.New()
	observer.Set(1, 5)

	tests := []struct {
		name  string
		setup func(vs *VarState)
		want  epoch.Epoch
	}{
		{"never read", func(*VarState) {}, 0},
		{"ordered read", func(vs *VarState) { vs.SetReadEpoch(epoch.NewEpoch(1, 5)) }, 0},
		{"unordered read", func(vs *VarState) { vs.SetReadEpoch(epoch.NewEpoch(2, 3)) }, epoch.NewEpoch(2, 3)},
		{"promoted with one unordered reader", func(vs *VarState) {
			vs.SetReadEpoch(epoch.NewEpoch(1, 2))
			vs.PromoteToReadClock(epoch.NewEpoch(4, 7))
		}, epoch.NewEpoch(4, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := NewVarState()
			tt.setup(vs)
			if got := vs.ConflictingRead(observer); got != tt.want {
				t.Errorf("ConflictingRead() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestVarStateString(t *testing.T) {
	vs := NewVarState()
	vs.W = epoch.NewEpoch(1, 10)
	vs.SetReadEpoch(epoch.NewEpoch(2, 3))
	if got, want := vs.String(), "W:10@1 R:3@2"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	vs.PromoteToReadClock(epoch.NewEpoch(3, 1))
	if got, want := vs.String(), "W:10@1 R:{2:3, 3:1} [PROMOTED]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func BenchmarkVarStateReadWrite(b *testing.B) {
	vs := NewVarState()
	e := epoch.NewEpoch(1, 1)
	for i := 0; i < b.N; i++ {
		vs.SetReadEpoch(e)
		vs.W = e
		vs.Demote()
	}
}
