package shadowmem

import (
	"sync"

	"github.com/kolkov/forkjoin/internal/race/epoch"
	"github.com/kolkov/forkjoin/internal/race/vectorclock"
)

// VarState stores the access history of one variable.
//
// Reads use an adaptive representation: a single read epoch while reads are
// totally ordered, promoted to a read vector clock once two workers read
// concurrently. A write demotes back to the epoch form because it dominates
// every earlier read.
type VarState struct {
	W  epoch.Epoch // Last write epoch.
	mu sync.Mutex  // Protects readEpoch and readClock.

	readEpoch epoch.Epoch
	readClock *vectorclock.VectorClock
}

// NewVarState creates a never-accessed state.
func NewVarState() *VarState {
	return &VarState{}
}

// IsPromoted reports whether reads are tracked by a vector clock.
func (vs *VarState) IsPromoted() bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.readClock != nil
}

// PromoteToReadClock switches to read-clock tracking, folding in the existing
// read epoch and the new reader's epoch.
func (vs *VarState) PromoteToReadClock(newReader epoch.Epoch) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	vs.readClock = vectorclock.New()
	for _, e := range []epoch.Epoch{vs.readEpoch, newReader} {
		if e == 0 {
			continue
		}
		tid, clock := e.Decode()
		//nolint:gosec // G115: clocks stay far below 2^32 in a replay.
		if uint32(clock) > vs.readClock.Get(tid) {
			vs.readClock.Set(tid, uint32(clock))
		}
	}
	vs.readEpoch = 0
}

// AddReader records another concurrent read on a promoted state, keeping only
// the reader's own component: reads by other workers it merely knows about
// are not reads of this variable.
func (vs *VarState) AddReader(e epoch.Epoch) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if vs.readClock == nil {
		return
	}
	tid, clock := e.Decode()
	//nolint:gosec // G115: clocks stay far below 2^32 in a replay.
	if uint32(clock) > vs.readClock.Get(tid) {
		vs.readClock.Set(tid, uint32(clock))
	}
}

// GetReadEpoch returns the single read epoch (0 when promoted or unread).
func (vs *VarState) GetReadEpoch() epoch.Epoch {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.readEpoch
}

// SetReadEpoch records a read while unpromoted; it is a no-op once promoted.
func (vs *VarState) SetReadEpoch(e epoch.Epoch) {
	vs.mu.Lock()
	if vs.readClock == nil {
		vs.readEpoch = e
	}
	vs.mu.Unlock()
}

// ConflictingRead returns the epoch of a recorded read that is not ordered
// before c, or 0 if every read happens-before c.
func (vs *VarState) ConflictingRead(c *vectorclock.VectorClock) epoch.Epoch {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.readClock == nil {
		if vs.readEpoch != 0 && !vs.readEpoch.HappensBefore(c) {
			return vs.readEpoch
		}
		return 0
	}
	for i := 0; i < vs.readClock.Len(); i++ {
		//nolint:gosec // G115: i is bounded by the replayed team size.
		tid := uint16(i)
		if r := vs.readClock.Get(tid); r > c.Get(tid) {
			return epoch.NewEpoch(tid, uint64(r))
		}
	}
	return 0
}

// Demote clears read tracking after a write.
func (vs *VarState) Demote() {
	vs.mu.Lock()
	vs.readEpoch = 0
	vs.readClock = nil
	vs.mu.Unlock()
}

// String renders "W:<epoch> R:<epoch>" or "W:<epoch> R:<clock> [PROMOTED]".
func (vs *VarState) String() string {
	wStr := "W:" + vs.W.String()

	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.readClock != nil {
		return wStr + " R:" + vs.readClock.String() + " [PROMOTED]"
	}
	return wStr + " R:" + vs.readEpoch.String()
}
