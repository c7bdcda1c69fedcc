// Package vectorclock implements vector clocks for tracking happens-before
// relations between the workers of a parallel region.
//
// The auditor only ever replays teams of at most a few hundred workers, so a
// clock is a slice that grows on demand instead of a fixed 64K array. Missing
// entries read as zero.
//
// Key operations:
//   - Join: point-wise maximum, used on lock acquire and at the join barrier
//   - LessOrEqual: partial order check, used for race detection
package vectorclock

import (
	"strconv"
	"strings"
)

// VectorClock holds one logical clock per worker ID.
//
// Example: {0:50, 1:30, 2:60} means worker 0 at 50, worker 1 at 30, worker 2 at 60.
type VectorClock struct {
	clocks []uint32
}

// New creates a zero vector clock.
func New() *VectorClock {
	return &VectorClock{}
}

// Clone returns an independent copy of the clock.
func (vc *VectorClock) Clone() *VectorClock {
	clone := &VectorClock{clocks: make([]uint32, len(vc.clocks))}
	copy(clone.clocks, vc.clocks)
	return clone
}

// Join performs vc = vc ⊔ other.
func (vc *VectorClock) Join(other *VectorClock) {
	if other == nil {
		return
	}
	vc.grow(len(other.clocks))
	for i, c := range other.clocks {
		if c > vc.clocks[i] {
			vc.clocks[i] = c
		}
	}
}

// LessOrEqual reports vc ⊑ other: vc[i] <= other[i] for every worker i.
func (vc *VectorClock) LessOrEqual(other *VectorClock) bool {
	for i, c := range vc.clocks {
		//nolint:gosec // G115: worker IDs are bounded by the team size.
		if c > other.Get(uint16(i)) {
			return false
		}
	}
	return true
}

// HappensBefore is an alias for LessOrEqual.
func (vc *VectorClock) HappensBefore(other *VectorClock) bool {
	return vc.LessOrEqual(other)
}

// Increment advances the clock of worker tid.
func (vc *VectorClock) Increment(tid uint16) {
	vc.grow(int(tid) + 1)
	vc.clocks[tid]++
}

// Get returns the clock of worker tid.
func (vc *VectorClock) Get(tid uint16) uint32 {
	if int(tid) >= len(vc.clocks) {
		return 0
	}
	return vc.clocks[tid]
}

// Set sets the clock of worker tid.
func (vc *VectorClock) Set(tid uint16, clock uint32) {
	vc.grow(int(tid) + 1)
	vc.clocks[tid] = clock
}

// Len returns the number of worker slots currently tracked.
func (vc *VectorClock) Len() int {
	return len(vc.clocks)
}

func (vc *VectorClock) grow(n int) {
	if n <= len(vc.clocks) {
		return
	}
	grown := make([]uint32, n)
	copy(grown, vc.clocks)
	vc.clocks = grown
}

// String returns "{tid:clock, ...}" listing only non-zero clocks.
func (vc *VectorClock) String() string {
	var parts []string
	for i, c := range vc.clocks {
		if c != 0 {
			parts = append(parts, strconv.Itoa(i)+":"+strconv.FormatUint(uint64(c), 10))
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
