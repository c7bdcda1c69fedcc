// Package shadowmem implements the shadow cells the auditor keeps for every
// variable a replayed parallel region touches.
//
// # Overview
//
// Each Loc (a named variable, optionally indexed like array[5]) maps to a
// VarState holding:
//   - W: the epoch of the last write
//   - R: the epoch of the last read, or a read clock once reads are shared
//
// Two accesses race when neither happens-before the other and at least one
// is a write.
//
// # Usage
//
//	sm := shadowmem.NewShadowMemory()
//	vs := sm.GetOrCreate(shadowmem.Index("array", 5))
//	if !vs.W.HappensBefore(ctx.C) {
//	    // write-read race
//	}
//
// # Thread Safety
//
// GetOrCreate, Get and Locs may be called concurrently.
package shadowmem
