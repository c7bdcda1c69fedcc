// Package epoch implements the compact logical timestamps used by the auditor.
//
// An Epoch is one worker's logical time packed into 64 bits:
//   - Top 16 bits: worker ID
//   - Bottom 48 bits: clock value
//
// Comparing an epoch against a vector clock is O(1), which keeps the common
// single-owner access path of the replay cheap.
package epoch

import (
	"strconv"

	"github.com/kolkov/forkjoin/internal/race/vectorclock"
)

// Epoch is a logical timestamp encoding both worker ID and clock value.
// Layout: [TID:16][Clock:48]
//
// Example: 0x0005000000001234 is TID=5, Clock=0x1234.
type Epoch uint64

const (
	// TIDBits is the number of bits allocated for the worker ID.
	TIDBits = 16

	// ClockBits is the number of bits allocated for the clock value.
	ClockBits = 48

	// ClockMask extracts the clock value.
	ClockMask = (1 << ClockBits) - 1
)

// NewEpoch creates an epoch from a worker ID and clock value.
// Clock values wider than 48 bits are truncated.
func NewEpoch(tid uint16, clock uint64) Epoch {
	return Epoch(uint64(tid)<<ClockBits | (clock & ClockMask))
}

// Decode extracts the worker ID and clock value.
func (e Epoch) Decode() (tid uint16, clock uint64) {
	//nolint:gosec // G115: top 16 bits are the TID by construction.
	tid = uint16(e >> ClockBits)
	clock = uint64(e) & ClockMask
	return
}

// TID returns the worker ID of the epoch.
func (e Epoch) TID() uint16 {
	tid, _ := e.Decode()
	return tid
}

// HappensBefore reports whether the epoch is ordered before the vector clock:
// clock <= vc[tid].
func (e Epoch) HappensBefore(vc *vectorclock.VectorClock) bool {
	tid, clock := e.Decode()
	return clock <= uint64(vc.Get(tid))
}

// Same reports whether two epochs are identical.
func (e Epoch) Same(other Epoch) bool {
	return e == other
}

// String formats the epoch as "clock@tid", e.g. "42@5".
func (e Epoch) String() string {
	tid, clock := e.Decode()
	return strconv.FormatUint(clock, 10) + "@" + strconv.FormatUint(uint64(tid), 10)
}
