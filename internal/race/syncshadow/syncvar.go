package syncshadow

import (
	"sync"

	"github.com/kolkov/forkjoin/internal/race/vectorclock"
)

// SyncVar is the shadow state of one synchronization object.
type SyncVar struct {
	mu sync.Mutex

	// releaseClock is the clock of the last Release, nil before the first one.
	releaseClock *vectorclock.VectorClock

	// doneClock accumulates the clocks of barrier members that finished.
	doneClock *vectorclock.VectorClock

	// pending counts members that arrived minus members that finished.
	pending int
}

// GetReleaseClock returns the clock stored by the last Release.
func (sv *SyncVar) GetReleaseClock() *vectorclock.VectorClock {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.releaseClock
}

// SetReleaseClock stores a snapshot of clock as the release clock.
func (sv *SyncVar) SetReleaseClock(clock *vectorclock.VectorClock) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	sv.releaseClock = clock.Clone()
}

// BarrierAdd registers delta members with the barrier.
func (sv *SyncVar) BarrierAdd(delta int) {
	sv.mu.Lock()
	sv.pending += delta
	sv.mu.Unlock()
}

// BarrierDone merges a finishing member's clock and decrements the count.
func (sv *SyncVar) BarrierDone(clock *vectorclock.VectorClock) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.doneClock == nil {
		sv.doneClock = clock.Clone()
	} else {
		sv.doneClock.Join(clock)
	}
	sv.pending--
}

// GetDoneClock returns the union of every finished member's clock.
func (sv *SyncVar) GetDoneClock() *vectorclock.VectorClock {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.doneClock
}

// Pending returns how many registered members have not finished.
func (sv *SyncVar) Pending() int {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.pending
}
