// Package worker holds the per-worker logical time used by the auditor.
//
// A replayed parallel region gives each worker its own Context. The
// controlling thread is worker 0; team members are numbered 1..T so that the
// controller's writes before a fork stay distinguishable from a member's.
package worker

import (
	"github.com/kolkov/forkjoin/internal/race/epoch"
	"github.com/kolkov/forkjoin/internal/race/vectorclock"
)

// Context is the race-tracking state of one worker.
//
// Invariant: Epoch == epoch.NewEpoch(TID, C[TID]). IncrementClock keeps both
// in step.
type Context struct {
	// TID identifies the worker inside the replay.
	TID uint16

	// C is the worker's full vector clock.
	C *vectorclock.VectorClock

	// Epoch caches C[TID].
	Epoch epoch.Epoch
}

// Alloc creates a context for worker tid at the beginning of logical time.
// The own clock starts at 1 so that a zero epoch always means "never accessed".
func Alloc(tid uint16) *Context {
	ctx := &Context{
		TID: tid,
		C:   vectorclock.New(),
	}
	ctx.C.Set(tid, 1)
	ctx.Epoch = epoch.NewEpoch(tid, 1)
	return ctx
}

// Fork creates the context of a team member spawned by parent.
//
// Everything the parent did before the fork happens-before everything the
// child does, so the child starts from a copy of the parent's clock.
func Fork(parent *Context, tid uint16) *Context {
	child := Alloc(tid)
	child.C.Join(parent.C)
	child.C.Set(tid, 1)
	child.Epoch = epoch.NewEpoch(tid, 1)
	return child
}

// IncrementClock advances the worker's own clock and refreshes the epoch cache.
func (c *Context) IncrementClock() {
	c.C.Increment(c.TID)
	c.Epoch = epoch.NewEpoch(c.TID, uint64(c.C.Get(c.TID)))
}

// GetEpoch returns the cached epoch.
func (c *Context) GetEpoch() epoch.Epoch {
	return c.Epoch
}
